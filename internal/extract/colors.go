package extract

import "strings"

// colorTable maps title color keywords to the canonical color vocabulary used
// in generated feeds. Composite names sit above their single-word tails so
// "obsidian black" is recognized before plain "black" can fire on part of it.
var colorTable = []struct {
	keyword   string
	canonical string
}{
	// composites first
	{"obsidian black", "Чёрный"},
	{"midnight black", "Чёрный"},
	{"phantom black", "Чёрный"},
	{"graphite black", "Чёрный"},
	{"space black", "Чёрный"},
	{"awesome black", "Чёрный"},
	{"titanium black", "Чёрный"},
	{"space gray", "Серый"},
	{"space grey", "Серый"},
	{"titanium gray", "Серый"},
	{"natural titanium", "Титановый"},
	{"desert titanium", "Титановый"},
	{"awesome white", "Белый"},
	{"pearl white", "Белый"},
	{"moon white", "Белый"},
	{"sierra blue", "Синий"},
	{"pacific blue", "Синий"},
	{"awesome blue", "Синий"},
	{"sky blue", "Голубой"},
	{"ice blue", "Голубой"},
	{"mint green", "Мятный"},
	{"forest green", "Зелёный"},
	{"alpine green", "Зелёный"},
	{"rose gold", "Розовое золото"},

	// single words, Latin
	{"black", "Чёрный"},
	{"white", "Белый"},
	{"blue", "Синий"},
	{"red", "Красный"},
	{"green", "Зелёный"},
	{"yellow", "Жёлтый"},
	{"purple", "Фиолетовый"},
	{"violet", "Фиолетовый"},
	{"lavender", "Лавандовый"},
	{"pink", "Розовый"},
	{"gray", "Серый"},
	{"grey", "Серый"},
	{"graphite", "Серый"},
	{"silver", "Серебристый"},
	{"gold", "Золотой"},
	{"golden", "Золотой"},
	{"beige", "Бежевый"},
	{"starlight", "Бежевый"},
	{"midnight", "Тёмная ночь"},
	{"orange", "Оранжевый"},
	{"brown", "Коричневый"},
	{"bronze", "Бронзовый"},
	{"titanium", "Титановый"},
	{"mint", "Мятный"},
	{"cyan", "Голубой"},
	{"teal", "Бирюзовый"},

	// single words, Cyrillic (cleaned/nominative forms)
	{"чёрный", "Чёрный"},
	{"черный", "Чёрный"},
	{"белый", "Белый"},
	{"синий", "Синий"},
	{"голубый", "Голубой"},
	{"голубой", "Голубой"},
	{"красный", "Красный"},
	{"зелёный", "Зелёный"},
	{"зеленый", "Зелёный"},
	{"жёлтый", "Жёлтый"},
	{"желтый", "Жёлтый"},
	{"фиолетовый", "Фиолетовый"},
	{"лавандовый", "Лавандовый"},
	{"розовый", "Розовый"},
	{"серый", "Серый"},
	{"серебристый", "Серебристый"},
	{"серебряный", "Серебристый"},
	{"золотый", "Золотой"},
	{"золотой", "Золотой"},
	{"бежевый", "Бежевый"},
	{"оранжевый", "Оранжевый"},
	{"коричневый", "Коричневый"},
	{"титановый", "Титановый"},
	{"мятный", "Мятный"},
	{"бирюзовый", "Бирюзовый"},
	{"графитовый", "Серый"},
}

// DetectColor finds the first color keyword present in the title, in table
// priority order, and returns its canonical name. Matching is word-anchored.
func DetectColor(title string) string {
	padded := " " + strings.ToLower(title) + " "
	for _, c := range colorTable {
		if strings.Contains(padded, " "+c.keyword+" ") {
			return c.canonical
		}
	}
	return ""
}

// matchedColorKeyword returns the raw keyword that DetectColor matched, used
// to exclude color words from the residual model string.
func matchedColorKeyword(title string) string {
	padded := " " + strings.ToLower(title) + " "
	for _, c := range colorTable {
		if strings.Contains(padded, " "+c.keyword+" ") {
			return c.keyword
		}
	}
	return ""
}

func applyColor(title string, attrs *Attributes) {
	if attrs.Color == "" {
		attrs.Color = DetectColor(title)
	}
}
