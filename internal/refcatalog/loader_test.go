package refcatalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phoneDoc = `Samsung
	Galaxy A07
		64 ГБ
			Чёрный | 4
			Зелёный | 4
		128 ГБ
			Чёрный | 4
	Galaxy A7
		64 ГБ
			Синий | 4
Apple
	iPhone 16
		128 ГБ
			Чёрный | 8
		256 ГБ
			Белый | 8
`

const laptopDoc = `Apple
	MacBook Air 13 M3 2024
		cpu: M3 | Apple M3 | 8
		8/256 | macOS | Серебристый | SSD | integrated
		16/512 | macOS | Чёрный | SSD | integrated
Lenovo
	IdeaPad Slim 5
		cpu: Ryzen 5 | AMD Ryzen 5 7530U | 6
		16/512 | Windows 11 | Серый | SSD | integrated
`

func TestParsePhoneCatalog(t *testing.T) {
	cat, err := ParsePhoneCatalog(strings.NewReader(phoneDoc))
	require.NoError(t, err)
	require.Len(t, cat.Entries, 3)

	a07 := cat.Entries[0]
	assert.Equal(t, "Samsung", a07.Vendor)
	assert.Equal(t, "Galaxy A07", a07.Model)
	require.Len(t, a07.Items, 3)
	assert.Equal(t, Item{StorageGB: 64, Color: "Чёрный", RAMGB: 4}, a07.Items[0])
	assert.Equal(t, Item{StorageGB: 128, Color: "Чёрный", RAMGB: 4}, a07.Items[2])

	iphone := cat.Entries[2]
	assert.Equal(t, "Apple", iphone.Vendor)
	assert.Equal(t, 8, iphone.Items[0].RAMGB)
}

func TestParsePhoneCatalogSkipsMalformed(t *testing.T) {
	doc := "Samsung\n\tGalaxy A07\n\t\tбез памяти\n\t\t\tЧёрный | 4\n\t\t64 ГБ\n\t\t\tБелый\n"
	cat, err := ParsePhoneCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	// the color under the malformed memory line is dropped, the later one kept
	require.Len(t, cat.Entries[0].Items, 1)
	assert.Equal(t, Item{StorageGB: 64, Color: "Белый"}, cat.Entries[0].Items[0])
}

func TestParseLaptopCatalog(t *testing.T) {
	cat, err := ParseLaptopCatalog(strings.NewReader(laptopDoc))
	require.NoError(t, err)
	require.Len(t, cat.Entries, 2)

	mac := cat.Entries[0]
	assert.Equal(t, "Apple", mac.Vendor)
	require.Len(t, mac.CPUs, 1)
	assert.Equal(t, CPU{Line: "M3", Name: "Apple M3", Cores: 8}, mac.CPUs[0])
	require.Len(t, mac.Items, 2)
	assert.Equal(t, Item{RAMGB: 8, StorageGB: 256, OS: "macOS", Color: "Серебристый", Disk: "SSD", GPUType: "integrated"}, mac.Items[0])

	lenovo := cat.Entries[1]
	assert.Equal(t, "Lenovo", lenovo.Vendor)
	assert.Equal(t, "Windows 11", lenovo.Items[0].OS)
}

func writeCatalogFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	phones := filepath.Join(dir, "phones.txt")
	laptops := filepath.Join(dir, "laptops.txt")
	require.NoError(t, os.WriteFile(phones, []byte(phoneDoc), 0o644))
	require.NoError(t, os.WriteFile(laptops, []byte(laptopDoc), 0o644))
	return phones, laptops
}

func TestServiceLoadAndReload(t *testing.T) {
	phones, laptops := writeCatalogFiles(t)
	svc := NewService(phones, laptops, nil)

	require.NoError(t, svc.Load())
	assert.Len(t, svc.Phones().Entries, 3)
	assert.Len(t, svc.Laptops().Entries, 2)

	// grow the document; cached until explicit reload
	extra := phoneDoc + "Xiaomi\n\tRedmi Note 13\n\t\t128 ГБ\n\t\t\tСиний | 6\n"
	require.NoError(t, os.WriteFile(phones, []byte(extra), 0o644))
	assert.Len(t, svc.Phones().Entries, 3)

	require.NoError(t, svc.Reload())
	assert.Len(t, svc.Phones().Entries, 4)
}

func TestServiceDegradesOnMissingFile(t *testing.T) {
	phones, laptops := writeCatalogFiles(t)
	svc := NewService(filepath.Join(t.TempDir(), "missing.txt"), laptops, nil)

	err := svc.Load()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, svc.Phones())
	assert.NotNil(t, svc.Laptops())
	_ = phones
}

func TestServiceLazyLoadOnFirstUse(t *testing.T) {
	phones, laptops := writeCatalogFiles(t)
	svc := NewService(phones, laptops, nil)
	// no explicit Load
	assert.Len(t, svc.Phones().Entries, 3)
}
