package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// RE2's \b is ASCII-only and never fires after a Cyrillic letter, so the
	// unit needs an explicit boundary.
	reMemoryUnit = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(gb|tb|гб|тб)(?:[^a-zа-яё0-9]|$)`)
	reChipPair   = regexp.MustCompile(`\b([a-z]+\d+[a-z]*)\s*/\s*(\d{1,3})\s*/\s*(\d{2,4})\b`)
	rePair       = regexp.MustCompile(`(?:^|\s)(\d{1,2})\s*[/+]\s*(\d{2,4})(?:\s|$)`)
	reNumber     = regexp.MustCompile(`^\d+$`)
)

// storage sizes (GB) a bare number may legitimately denote. 16 is excluded:
// bare "16" is far more often a model number (iPhone 16) than a capacity.
var knownStorageSizes = map[int]struct{}{
	32: {}, 64: {}, 128: {}, 256: {}, 512: {}, 1024: {}, 2048: {},
}

var knownRAMSizes = map[int]struct{}{
	2: {}, 3: {}, 4: {}, 6: {}, 8: {}, 12: {}, 16: {}, 18: {}, 24: {}, 32: {}, 36: {}, 48: {}, 64: {},
}

// ExtractMemoryGB returns the storage capacity in gigabytes found in a title
// via explicit unit-bearing tokens ("128GB", "1 ТБ"), converting terabytes to
// gigabytes. Returns 0 when no unit token is present.
func ExtractMemoryGB(title string) int {
	m := reMemoryUnit.FindStringSubmatch(strings.ToLower(title))
	if m == nil {
		return 0
	}
	num := strings.ReplaceAll(m[1], ",", ".")
	val, err := strconv.ParseFloat(num, 64)
	if err != nil || val <= 0 {
		return 0
	}
	if m[2] == "tb" || m[2] == "тб" {
		return int(val * 1024)
	}
	if val != float64(int(val)) {
		// "6.1 гб" style values never denote phone storage
		return 0
	}
	return int(val)
}

// PairResult holds a parsed RAM/storage token pair.
type PairResult struct {
	RAMGB     int
	StorageGB int
	Chip      string
}

// ParsePair recognizes combined RAM/storage tokens: "12/512", "8+256" and the
// three-part chip form "M3/8/512" where the middle number is RAM and the last
// is storage.
func ParsePair(title string) PairResult {
	t := strings.ToLower(title)
	if m := reChipPair.FindStringSubmatch(t); m != nil {
		ram, _ := strconv.Atoi(m[2])
		storage, _ := strconv.Atoi(m[3])
		if plausiblePair(ram, storage) {
			return PairResult{RAMGB: ram, StorageGB: storage, Chip: m[1]}
		}
	}
	if m := rePair.FindStringSubmatch(t); m != nil {
		ram, _ := strconv.Atoi(m[1])
		storage, _ := strconv.Atoi(m[2])
		if plausiblePair(ram, storage) {
			return PairResult{RAMGB: ram, StorageGB: storage}
		}
	}
	return PairResult{}
}

func plausiblePair(ram, storage int) bool {
	_, ramOK := knownRAMSizes[ram]
	return ramOK && storage > ram
}

func applyMemoryUnit(title string, attrs *Attributes) {
	if attrs.StorageGB == 0 {
		attrs.StorageGB = ExtractMemoryGB(title)
	}
}

func applyPair(title string, attrs *Attributes) {
	pair := ParsePair(title)
	if pair.StorageGB == 0 {
		return
	}
	if attrs.StorageGB == 0 {
		attrs.StorageGB = pair.StorageGB
	}
	if attrs.RAMGB == 0 {
		attrs.RAMGB = pair.RAMGB
	}
	if attrs.Chip == "" {
		attrs.Chip = pair.Chip
	}
}

// applyBareStorage treats a standalone number as storage only when it is a
// known capacity, guarding against decimal diagonals ("6.1") and resolution
// pairs ("3024×1964") which must never be read as memory.
func applyBareStorage(title string, attrs *Attributes) {
	if attrs.StorageGB != 0 {
		return
	}
	for _, tok := range strings.Fields(title) {
		if !reNumber.MatchString(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if _, ok := knownStorageSizes[n]; ok {
			attrs.StorageGB = n
			return
		}
	}
}

// isMemoryToken reports whether a single cleaned token carries memory
// information and should be excluded from the residual model string.
func isMemoryToken(tok string) bool {
	if reMemoryUnit.MatchString(tok) || reChipPair.MatchString(tok) {
		return true
	}
	if m := rePair.FindStringSubmatch(tok); m != nil {
		ram, _ := strconv.Atoi(m[1])
		storage, _ := strconv.Atoi(m[2])
		return plausiblePair(ram, storage)
	}
	if reNumber.MatchString(tok) {
		n, _ := strconv.Atoi(tok)
		_, ok := knownStorageSizes[n]
		return ok
	}
	return tok == "gb" || tok == "гб" || tok == "tb" || tok == "тб"
}
