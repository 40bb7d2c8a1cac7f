package extract

import (
	"strings"

	"feed-service/internal/normalize"
)

// Attributes is the best-effort structured view of a free-text product title.
// Any field may be left empty; downstream catalog matching fills what it can.
type Attributes struct {
	Vendor    string `json:"vendor,omitempty"`
	Model     string `json:"model,omitempty"`
	Color     string `json:"color,omitempty"`
	StorageGB int    `json:"storageGb,omitempty"`
	RAMGB     int    `json:"ramGb,omitempty"`
	Chip      string `json:"chip,omitempty"`
}

// rule is a single named extraction step. Rules run in order and each one
// only fills fields that are still empty, so earlier rules win.
type rule struct {
	name  string
	apply func(title string, attrs *Attributes)
}

var cascade = []rule{
	{"memory-unit", applyMemoryUnit},
	{"ram-storage-pair", applyPair},
	{"bare-storage", applyBareStorage},
	{"vendor", applyVendor},
	{"color", applyColor},
	{"device-overrides", applyOverrides},
	{"residual-model", applyResidualModel},
}

// Extract derives vendor, model, color, storage and RAM from a noisy product
// title. It never fails; unresolved fields stay zero. Deterministic for
// identical input.
func Extract(title string) Attributes {
	clean := normalize.Clean(title)
	var attrs Attributes
	for _, r := range cascade {
		r.apply(clean, &attrs)
	}
	return attrs
}

// applyResidualModel keeps whatever meaningful tokens remain after vendor,
// memory and color were recognized. The catalog matcher replaces this with a
// canonical model when it finds one.
func applyResidualModel(title string, attrs *Attributes) {
	if attrs.Model != "" {
		return
	}
	colorWords := map[string]struct{}{}
	for _, w := range strings.Fields(matchedColorKeyword(title)) {
		colorWords[w] = struct{}{}
	}
	var kept []string
	for _, tok := range strings.Fields(title) {
		if isMemoryToken(tok) || isVendorAlias(tok) {
			continue
		}
		if _, ok := colorWords[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	attrs.Model = strings.Join(kept, " ")
}
