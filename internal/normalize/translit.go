package normalize

import "strings"

// Cyrillic to Latin pairs, multi-rune sequences first so that transliteration
// is greedy and reversible enough for matching purposes.
var cyrToLat = []struct{ from, to string }{
	{"щ", "shch"}, {"ж", "zh"}, {"х", "kh"}, {"ц", "ts"}, {"ч", "ch"},
	{"ш", "sh"}, {"ю", "yu"}, {"я", "ya"}, {"ё", "yo"}, {"э", "e"},
	{"а", "a"}, {"б", "b"}, {"в", "v"}, {"г", "g"}, {"д", "d"},
	{"е", "e"}, {"з", "z"}, {"и", "i"}, {"й", "y"}, {"к", "k"},
	{"л", "l"}, {"м", "m"}, {"н", "n"}, {"о", "o"}, {"п", "p"},
	{"р", "r"}, {"с", "s"}, {"т", "t"}, {"у", "u"}, {"ф", "f"},
	{"ы", "y"}, {"ь", ""}, {"ъ", ""},
}

var latToCyr = []struct{ from, to string }{
	{"shch", "щ"}, {"sch", "щ"}, {"zh", "ж"}, {"kh", "х"}, {"ts", "ц"},
	{"ch", "ч"}, {"sh", "ш"}, {"yu", "ю"}, {"ya", "я"}, {"yo", "ё"},
	{"a", "а"}, {"b", "б"}, {"c", "к"}, {"d", "д"}, {"e", "е"},
	{"f", "ф"}, {"g", "г"}, {"h", "х"}, {"i", "и"}, {"j", "ж"},
	{"k", "к"}, {"l", "л"}, {"m", "м"}, {"n", "н"}, {"o", "о"},
	{"p", "п"}, {"q", "к"}, {"r", "р"}, {"s", "с"}, {"t", "т"},
	{"u", "у"}, {"v", "в"}, {"w", "в"}, {"x", "кс"}, {"y", "й"},
	{"z", "з"},
}

// ToLatin transliterates Cyrillic letters to Latin, leaving everything else
// (digits, Latin letters, separators) untouched.
func ToLatin(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lit := string(r)
		replaced := false
		for _, p := range cyrToLat {
			if p.from == lit {
				b.WriteString(p.to)
				replaced = true
				break
			}
		}
		if !replaced {
			b.WriteString(lit)
		}
	}
	return b.String()
}

// ToCyrillic transliterates Latin letters to Cyrillic using a greedy scan so
// digraphs like "sh" and "ch" map to single letters.
func ToCyrillic(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		matched := false
		for _, p := range latToCyr {
			if strings.HasPrefix(s[i:], p.from) {
				b.WriteString(p.to)
				i += len(p.from)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
