package refcatalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-service/internal/extract"
)

func loadPhones(t *testing.T) *Catalog {
	t.Helper()
	cat, err := ParsePhoneCatalog(strings.NewReader(phoneDoc))
	require.NoError(t, err)
	return cat
}

func loadLaptops(t *testing.T) *Catalog {
	t.Helper()
	cat, err := ParseLaptopCatalog(strings.NewReader(laptopDoc))
	require.NoError(t, err)
	return cat
}

func TestMatchAnchoredTokenGuard(t *testing.T) {
	cat := loadPhones(t)
	title := "Samsung Galaxy A07 128GB Black"
	m := cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, "Galaxy A07", m.Entry.Model)

	// and the reverse: "A7" must never land on "A07"
	title = "Samsung Galaxy A7 64GB"
	m = cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, "Galaxy A7", m.Entry.Model)
}

func TestMatchDeterministic(t *testing.T) {
	cat := loadPhones(t)
	title := "Samsung Galaxy A07 128 ГБ чёрный"
	attrs := extract.Extract(title)
	first := cat.Match(attrs, title)
	require.NotNil(t, first)
	for i := 0; i < 5; i++ {
		again := cat.Match(attrs, title)
		require.NotNil(t, again)
		assert.Equal(t, first.Entry.Model, again.Entry.Model)
		assert.Equal(t, *first.Item, *again.Item)
	}
}

func TestMatchVariantPreference(t *testing.T) {
	cat := loadPhones(t)

	// memory+color beats everything
	title := "Samsung Galaxy A07 128GB Black"
	m := cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, Item{StorageGB: 128, Color: "Чёрный", RAMGB: 4}, *m.Item)

	// color only
	title = "Samsung Galaxy A07 Green"
	m = cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, "Зелёный", m.Item.Color)

	// memory only
	title = "Samsung Galaxy A07 128GB"
	m = cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, 128, m.Item.StorageGB)

	// neither: first listed item
	title = "Samsung Galaxy A07"
	m = cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, Item{StorageGB: 64, Color: "Чёрный", RAMGB: 4}, *m.Item)
}

func TestMatchNoCandidates(t *testing.T) {
	cat := loadPhones(t)
	title := "Холодильник двухкамерный"
	assert.Nil(t, cat.Match(extract.Extract(title), title))

	var empty *Catalog
	assert.Nil(t, empty.Match(extract.Attributes{}, "anything"))
}

func TestMatchLaptopChipAndDiagonal(t *testing.T) {
	cat := loadLaptops(t)
	title := "Ноутбук Apple MacBook Air 13 M3 16/512"
	m := cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, "MacBook Air 13 M3 2024", m.Entry.Model)
	assert.Equal(t, 512, m.Item.StorageGB)
	assert.Equal(t, 16, m.Item.RAMGB)
}

func TestMatchCyrillicTitle(t *testing.T) {
	cat := loadPhones(t)
	title := "Самсунг Galaxy A07 64 ГБ зелёный"
	m := cat.Match(extract.Extract(title), title)
	require.NotNil(t, m)
	assert.Equal(t, "Galaxy A07", m.Entry.Model)
	assert.Equal(t, "Зелёный", m.Item.Color)
}
