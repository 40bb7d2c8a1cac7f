package refcatalog

import (
	"regexp"
	"sort"
	"strings"

	"feed-service/internal/extract"
	"feed-service/internal/normalize"
)

// Match is the outcome of resolving a title against a catalog: one entry and
// one of its variant items.
type Match struct {
	Entry *Entry
	Item  *Item
	Score float64
}

// product line suffixes that distinguish otherwise identical models.
var lineSuffixes = []string{"pro", "air", "ultra", "plus", "max", "lite", "mini", "fe"}

var (
	// model designators like "a07", "s24", "m3": letters and digits mixed
	reModelToken = regexp.MustCompile(`^[a-zа-я]+\d+[a-zа-я\d]*$|^\d+[a-zа-я]+$`)
	reDiagTok    = regexp.MustCompile(`^1[1-7](?:\.\d)?$`)
	reYearTok    = regexp.MustCompile(`^20\d{2}$`)
)

var chipYear = map[string]int{
	"m1": 2020, "m2": 2022, "m3": 2024, "m4": 2024,
}

// scoreRule is one weighted signal evaluated uniformly for every candidate.
type scoreRule struct {
	name   string
	weight float64
	match  func(entryTokens, titleTokens map[string]struct{}, attrs extract.Attributes) bool
}

var scoreRules = []scoreRule{
	{"line-suffix-agreement", 0.3, func(e, t map[string]struct{}, _ extract.Attributes) bool {
		for _, s := range lineSuffixes {
			if hasToken(e, s) && hasToken(t, s) {
				return true
			}
		}
		return false
	}},
	{"line-suffix-mismatch", -0.25, func(e, t map[string]struct{}, _ extract.Attributes) bool {
		for _, s := range lineSuffixes {
			if hasToken(e, s) != hasToken(t, s) {
				return true
			}
		}
		return false
	}},
	{"chip-agreement", 0.4, func(e, _ map[string]struct{}, attrs extract.Attributes) bool {
		return attrs.Chip != "" && hasToken(e, strings.ToLower(attrs.Chip))
	}},
	{"diagonal-agreement", 0.2, func(e, t map[string]struct{}, _ extract.Attributes) bool {
		for tok := range t {
			if reDiagTok.MatchString(tok) && hasToken(e, tok) {
				return true
			}
		}
		return false
	}},
	{"chip-year-inference", 0.15, func(e, _ map[string]struct{}, attrs extract.Attributes) bool {
		year, ok := chipYear[strings.ToLower(attrs.Chip)]
		if !ok {
			return false
		}
		for tok := range e {
			if reYearTok.MatchString(tok) && atoiSafe(tok) == year {
				return true
			}
		}
		return false
	}},
}

// Match selects the best catalog entry and variant for the extracted
// attributes and title. Candidates are first filtered by anchored-token
// agreement (a title "a07" can never reach entries "a7" or "a36"), then
// scored by token overlap plus the weighted rules. Returns nil when nothing
// qualifies.
func (c *Catalog) Match(attrs extract.Attributes, title string) *Match {
	if c == nil || len(c.Entries) == 0 {
		return nil
	}

	titleTokens := make(map[string]struct{})
	for _, variant := range normalize.Variants(title) {
		for _, tok := range strings.Fields(variant) {
			titleTokens[tok] = struct{}{}
		}
	}

	type candidate struct {
		idx   int
		score float64
	}
	var candidates []candidate

	for i := range c.Entries {
		entry := &c.Entries[i]
		entryTokens := tokenSet(entry.Normalized)

		if !anchoredAgreement(entryTokens, titleTokens) {
			continue
		}
		overlap := overlapRatio(entryTokens, titleTokens)
		if overlap == 0 {
			continue
		}
		score := overlap
		for _, rule := range scoreRules {
			if rule.match(entryTokens, titleTokens, attrs) {
				score += rule.weight
			}
		}
		candidates = append(candidates, candidate{idx: i, score: score})
	}

	if len(candidates) == 0 {
		return nil
	}

	titleHasSuffix := false
	for _, s := range lineSuffixes {
		if hasToken(titleTokens, s) {
			titleHasSuffix = true
			break
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		ea, eb := &c.Entries[ca.idx], &c.Entries[cb.idx]
		if !titleHasSuffix {
			sa, sb := modelHasSuffix(ea.Normalized), modelHasSuffix(eb.Normalized)
			if sa != sb {
				return !sa // base variant first
			}
		}
		if len(ea.Normalized) != len(eb.Normalized) {
			return len(ea.Normalized) > len(eb.Normalized)
		}
		return ea.Normalized < eb.Normalized
	})

	best := &c.Entries[candidates[0].idx]
	return &Match{Entry: best, Item: selectItem(best, attrs), Score: candidates[0].score}
}

// selectItem picks the variant within the winning entry: memory+color first,
// then color only, then memory only, then the catalog's first listed item.
func selectItem(entry *Entry, attrs extract.Attributes) *Item {
	if len(entry.Items) == 0 {
		return nil
	}
	colorEq := func(it *Item) bool {
		return attrs.Color != "" && normalize.Clean(it.Color) == normalize.Clean(attrs.Color)
	}
	memEq := func(it *Item) bool {
		return attrs.StorageGB != 0 && it.StorageGB == attrs.StorageGB
	}
	for i := range entry.Items {
		if memEq(&entry.Items[i]) && colorEq(&entry.Items[i]) {
			return &entry.Items[i]
		}
	}
	for i := range entry.Items {
		if colorEq(&entry.Items[i]) {
			return &entry.Items[i]
		}
	}
	for i := range entry.Items {
		if memEq(&entry.Items[i]) {
			return &entry.Items[i]
		}
	}
	return &entry.Items[0]
}

// anchoredAgreement requires every model-designator token of the entry
// (letter/digit mixes like "a07" or "s24") to appear verbatim in the title
// token set. Pure numbers (years, diagonals) only influence scoring.
func anchoredAgreement(entryTokens, titleTokens map[string]struct{}) bool {
	for tok := range entryTokens {
		if reModelToken.MatchString(tok) {
			if _, ok := titleTokens[tok]; !ok {
				return false
			}
		}
	}
	return true
}

func overlapRatio(entryTokens, titleTokens map[string]struct{}) float64 {
	if len(entryTokens) == 0 {
		return 0
	}
	n := 0
	for tok := range entryTokens {
		if _, ok := titleTokens[tok]; ok {
			n++
		}
	}
	return float64(n) / float64(len(entryTokens))
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		out[tok] = struct{}{}
	}
	return out
}

func hasToken(set map[string]struct{}, tok string) bool {
	_, ok := set[tok]
	return ok
}

func modelHasSuffix(normalized string) bool {
	set := tokenSet(normalized)
	for _, s := range lineSuffixes {
		if hasToken(set, s) {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
