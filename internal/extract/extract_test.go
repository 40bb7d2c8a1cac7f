package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMemoryGB(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"iPhone 16 128GB", 128},
		{"MacBook 1TB", 1024},
		{"Samsung Galaxy S24 256 ГБ", 256},
		{"Накопитель 2 ТБ", 2048},
		{"iPhone 6.1", 0},
		{"Galaxy S24 без памяти", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractMemoryGB(tt.title), tt.title)
	}
}

func TestExtractDecimalDiagonalNotMemory(t *testing.T) {
	attrs := Extract("iPhone 6.1 256")
	assert.Equal(t, 256, attrs.StorageGB)
}

func TestExtractResolutionNotMemory(t *testing.T) {
	attrs := Extract("Монитор дисплей 3024×1964")
	assert.Equal(t, 0, attrs.StorageGB)
}

func TestParsePair(t *testing.T) {
	p := ParsePair("Xiaomi 12 Pro 12/256")
	assert.Equal(t, 12, p.RAMGB)
	assert.Equal(t, 256, p.StorageGB)

	p = ParsePair("Galaxy A55 8+256")
	assert.Equal(t, 8, p.RAMGB)
	assert.Equal(t, 256, p.StorageGB)

	p = ParsePair("MacBook M3/8/512")
	assert.Equal(t, 8, p.RAMGB)
	assert.Equal(t, 512, p.StorageGB)
	assert.Equal(t, "m3", p.Chip)

	p = ParsePair("без пары")
	assert.Zero(t, p.StorageGB)
}

func TestDetectVendor(t *testing.T) {
	assert.Equal(t, "Samsung", DetectVendor("samsung galaxy a07"))
	assert.Equal(t, "Samsung", DetectVendor("самсунг галакси"))
	assert.Equal(t, "Xiaomi", DetectVendor("mi 11 lite"))
	assert.Equal(t, "Apple", DetectVendor("айфон 15 про"))

	// "mi" inside another word must not imply Xiaomi
	assert.Equal(t, "", DetectVendor("gaming mouse"))
	assert.Equal(t, "", DetectVendor("неизвестное устройство"))
}

func TestDetectColorCompositeBeforeSingle(t *testing.T) {
	assert.Equal(t, "Чёрный", DetectColor("pixel 8 obsidian black"))
	assert.Equal(t, "Серый", DetectColor("macbook space gray"))
	assert.Equal(t, "Чёрный", DetectColor("galaxy a07 black"))
	assert.Equal(t, "Чёрный", DetectColor("чехол чёрный"))
	assert.Equal(t, "", DetectColor("galaxy a07"))
}

func TestExtractColorDeclined(t *testing.T) {
	attrs := Extract("Samsung Galaxy A07 черного цвета")
	assert.Equal(t, "Чёрный", attrs.Color)
}

func TestExtractFull(t *testing.T) {
	attrs := Extract("Samsung Galaxy A07 128GB Black")
	assert.Equal(t, "Samsung", attrs.Vendor)
	assert.Equal(t, 128, attrs.StorageGB)
	assert.Equal(t, "Чёрный", attrs.Color)
	assert.Contains(t, attrs.Model, "a07")
}

func TestIphoneAirOverride(t *testing.T) {
	attrs := Extract("iPhone Air 256GB")
	assert.Equal(t, "Apple", attrs.Vendor)
	assert.Equal(t, 12, attrs.RAMGB)
	assert.Equal(t, 256, attrs.StorageGB)
}

func TestIphoneAirCyrillicOverride(t *testing.T) {
	attrs := Extract("Айфон Эйр 256 ГБ")
	assert.Equal(t, "Apple", attrs.Vendor)
	assert.Equal(t, 12, attrs.RAMGB)
	assert.Equal(t, 256, attrs.StorageGB)
}

func TestMacbookCanonicalRebuild(t *testing.T) {
	attrs := Extract("Ноутбук Apple MacBook Air 13 M3 8/256 Midnight")
	assert.Equal(t, "Apple", attrs.Vendor)
	assert.Equal(t, "MacBook Air 13 M3 2024", attrs.Model)
	assert.Equal(t, 8, attrs.RAMGB)
	assert.Equal(t, 256, attrs.StorageGB)
}

func TestMacbookCyrillicRebuild(t *testing.T) {
	attrs := Extract("Макбук Эйр 13 M3 8/256")
	assert.Equal(t, "Apple", attrs.Vendor)
	assert.Equal(t, "MacBook Air 13 M3 2024", attrs.Model)
	assert.Equal(t, 8, attrs.RAMGB)
	assert.Equal(t, 256, attrs.StorageGB)
}

func TestMacbookLineWordMustStandAlone(t *testing.T) {
	// "процессор" contains "про" but is not a Pro line marker
	attrs := Extract("Макбук 13 M1 8/256 отличный процессор")
	assert.Equal(t, "MacBook 13 M1 2020", attrs.Model)
}

func TestExtractNeverPanicsAndDeterministic(t *testing.T) {
	titles := []string{"", "///", "×××", "12/12/12/12", "ГБ ТБ GB TB"}
	for _, title := range titles {
		first := Extract(title)
		assert.Equal(t, first, Extract(title))
	}
}
