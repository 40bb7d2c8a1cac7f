package normalize

import (
	"regexp"
	"strings"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)
	rePunct  = regexp.MustCompile(`[,;:!?"«»()\[\]]+`)
)

// noiseTokens are marketing/administrative words that carry no signal for
// catalog matching and are dropped during cleaning.
var noiseTokens = map[string]struct{}{
	"новый":    {},
	"новая":    {},
	"новое":    {},
	"оригинал": {},
	"original": {},
	"гарантия": {},
	"рст":      {},
	"ростест":  {},
	"eac":      {},
	"витрина":  {},
	"б/у":      {},
	"акция":    {},
	"скидка":   {},
}

// declension endings folded to the nominative form so that declined color and
// descriptor words compare equal ("черного" -> "черный").
var endingRules = []struct{ from, to string }{
	{"ого", "ый"},
	{"его", "ий"},
	{"ой", "ый"},
}

// Clean lowercases the input, strips punctuation and noise tokens, folds
// declension endings and collapses whitespace. Cleaning an already clean
// string returns it unchanged.
func Clean(s string) string {
	s = strings.ToLower(s)
	s = rePunct.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, noise := noiseTokens[f]; noise {
			continue
		}
		out = append(out, foldEnding(f))
	}
	return strings.Join(out, " ")
}

// Tokens returns the cleaned input split into words.
func Tokens(s string) []string {
	return strings.Fields(Clean(s))
}

// Variants returns up to three script variants of the cleaned input: the
// cleaned string itself, its Latin transliteration and its Cyrillic
// transliteration. Duplicates are removed so callers can range freely.
func Variants(s string) []string {
	c := Clean(s)
	variants := []string{c, ToLatin(c), ToCyrillic(c)}
	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func foldEnding(token string) string {
	runes := []rune(token)
	if len(runes) < 5 || !isCyrillicWord(runes) {
		return token
	}
	for _, rule := range endingRules {
		if strings.HasSuffix(token, rule.from) {
			return strings.TrimSuffix(token, rule.from) + rule.to
		}
	}
	return token
}

func isCyrillicWord(runes []rune) bool {
	for _, r := range runes {
		if !(r >= 'а' && r <= 'я' || r == 'ё') {
			return false
		}
	}
	return true
}
