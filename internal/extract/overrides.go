package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Device-specific overrides, applied after the generic rules. Each entry here
// encodes a reviewed product decision; new overrides require sign-off.

var (
	reAppleChip = regexp.MustCompile(`\bm([1-4])(?:\s?(pro|max|ultra))?\b`)
	reDiagonal  = regexp.MustCompile(`\b(1[1-7])(?:[.,](\d))?\b`)
	// Cyrillic aliases carry explicit boundaries; RE2's \b is ASCII-only and
	// never fires next to Cyrillic letters.
	reIphoneAir  = regexp.MustCompile(`\biphone\s+air\b|(?:^|[^a-zа-яё0-9])айфон\s+эйр(?:[^a-zа-яё0-9]|$)`)
	reMacbookAny = regexp.MustCompile(`\bmacbook\b|(?:^|[^a-zа-яё0-9])макбук(?:[^a-zа-яё0-9]|$)`)
	reMacLineAir = regexp.MustCompile(`(?:^|[^a-zа-яё0-9])(?:air|эйр)(?:[^a-zа-яё0-9]|$)`)
	reMacLinePro = regexp.MustCompile(`(?:^|[^a-zа-яё0-9])(?:pro|про)(?:[^a-zа-яё0-9]|$)`)
)

// chip generation -> release year of the matching MacBook line.
var macbookYearByChip = map[string]int{
	"m1": 2020,
	"m2": 2022,
	"m3": 2024,
	"m4": 2024,
}

func applyOverrides(title string, attrs *Attributes) {
	applyIphoneAir(title, attrs)
	applyMacbook(title, attrs)
}

// applyIphoneAir forces RAM for the iPhone Air: every unit ships with the
// same amount and titles never carry it.
func applyIphoneAir(title string, attrs *Attributes) {
	if !reIphoneAir.MatchString(title) {
		return
	}
	attrs.Vendor = "Apple"
	attrs.RAMGB = 12
}

// applyMacbook rebuilds a recognized MacBook title into the compact canonical
// form "MacBook <line> <diagonal> <chip> <year>" from whatever fragments the
// title carries.
func applyMacbook(title string, attrs *Attributes) {
	if !reMacbookAny.MatchString(title) {
		return
	}
	attrs.Vendor = "Apple"

	// line words must stand alone: "про" inside "процессор" is not a Pro
	line := ""
	switch {
	case reMacLineAir.MatchString(title):
		line = "Air"
	case reMacLinePro.MatchString(title):
		line = "Pro"
	}

	chip := ""
	if m := reAppleChip.FindStringSubmatch(title); m != nil {
		chip = "M" + m[1]
		if m[2] != "" {
			chip += " " + strings.ToUpper(m[2][:1]) + m[2][1:]
		}
		if attrs.Chip == "" {
			attrs.Chip = strings.ToLower(strings.ReplaceAll(chip, " ", ""))
		}
	}

	diagonal := ""
	if m := reDiagonal.FindStringSubmatch(title); m != nil {
		diagonal = m[1]
		if m[2] != "" {
			diagonal += "." + m[2]
		}
	}

	parts := []string{"MacBook"}
	if line != "" {
		parts = append(parts, line)
	}
	if diagonal != "" {
		parts = append(parts, diagonal)
	}
	if chip != "" {
		parts = append(parts, chip)
		if year, ok := macbookYearByChip[strings.ToLower(strings.Fields(chip)[0])]; ok {
			parts = append(parts, fmt.Sprintf("%d", year))
		}
	}
	attrs.Model = strings.Join(parts, " ")
}
