package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Samsung Galaxy A07 128GB Black",
		"  СМАРТФОН  Samsung   Galaxy,  Чёрного цвета!  ",
		"Новый iPhone 16 Pro 256 ГБ (гарантия)",
		"ноутбук apple macbook air 13 m3 8/256",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "Clean must be idempotent for %q", in)
	}
}

func TestCleanDropsNoiseAndCase(t *testing.T) {
	assert.Equal(t, "samsung galaxy a07", Clean("Новый Samsung GALAXY A07, оригинал"))
}

func TestCleanFoldsDeclension(t *testing.T) {
	assert.Equal(t, "чехол черный", Clean("чехол черного"))
	assert.Equal(t, "синий", Clean("синего"))
}

func TestVariants(t *testing.T) {
	vs := Variants("Самсунг")
	assert.Contains(t, vs, "самсунг")
	assert.Contains(t, vs, "samsung")

	// pure-latin input still yields a cyrillic variant
	vs = Variants("redmi")
	assert.Contains(t, vs, "redmi")
	assert.Contains(t, vs, "редми")
}

func TestVariantsDeduped(t *testing.T) {
	vs := Variants("128")
	assert.Len(t, vs, 1)
}

func TestToLatin(t *testing.T) {
	assert.Equal(t, "samsung", ToLatin("самсунг"))
	assert.Equal(t, "kharakteristika 128gb", ToLatin("характеристика 128gb"))
}

func TestToCyrillic(t *testing.T) {
	assert.Equal(t, "самсунг", ToCyrillic("samsung"))
	assert.Equal(t, "шарп", ToCyrillic("sharp"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"galaxy", "a07", "128gb"}, Tokens("Galaxy A07 128GB"))
}
