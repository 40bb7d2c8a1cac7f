package extract

import "strings"

// vendorSynonyms maps canonical vendor names to their Latin and Cyrillic
// aliases as they appear in merchant titles. Order matters: the first vendor
// with an anchored hit wins. Review additions here as product decisions, not
// bug fixes.
var vendorSynonyms = []struct {
	canonical string
	aliases   []string
}{
	{"Apple", []string{"apple", "эпл", "эппл", "iphone", "айфон", "ipad", "айпад", "macbook", "макбук", "imac", "airpods"}},
	{"Samsung", []string{"samsung", "самсунг", "galaxy", "галакси", "гэлакси"}},
	{"Xiaomi", []string{"xiaomi", "сяоми", "ксиаоми", "ксяоми", "redmi", "редми", "poco", "поко", "mi"}},
	{"Huawei", []string{"huawei", "хуавей", "хуавэй"}},
	{"Honor", []string{"honor", "хонор"}},
	{"Realme", []string{"realme", "реалми", "рилми"}},
	{"OnePlus", []string{"oneplus", "ванплюс", "ванплас"}},
	{"Google", []string{"google", "pixel", "пиксель", "гугл"}},
	{"Oppo", []string{"oppo", "оппо"}},
	{"Vivo", []string{"vivo", "виво"}},
	{"Tecno", []string{"tecno", "техно"}},
	{"Infinix", []string{"infinix", "инфиникс"}},
	{"Nothing", []string{"nothing"}},
	{"ZTE", []string{"zte", "зте"}},
	{"Nokia", []string{"nokia", "нокиа"}},
	{"Motorola", []string{"motorola", "моторола", "moto"}},
	{"Lenovo", []string{"lenovo", "леново", "thinkpad", "ideapad"}},
	{"Asus", []string{"asus", "асус", "zenbook", "vivobook"}},
	{"Acer", []string{"acer", "асер", "эйсер", "aspire"}},
	{"HP", []string{"hp", "pavilion", "probook", "elitebook"}},
	{"Dell", []string{"dell", "делл", "inspiron", "latitude"}},
	{"MSI", []string{"msi"}},
}

// DetectVendor scans title tokens against the brand synonym table. Anchored
// hits (the alias is a whole token or a token prefix) are preferred; bare
// substring matches are only accepted for aliases of four or more characters,
// so "mi" inside another word never implies Xiaomi.
func DetectVendor(title string) string {
	tokens := strings.Fields(strings.ToLower(title))

	// pass 1: whole-token match
	for _, v := range vendorSynonyms {
		for _, alias := range v.aliases {
			for _, tok := range tokens {
				if tok == alias {
					return v.canonical
				}
			}
		}
	}
	// pass 2: token-prefix match ("iphone15" -> iphone)
	for _, v := range vendorSynonyms {
		for _, alias := range v.aliases {
			if len(alias) < 3 {
				continue
			}
			for _, tok := range tokens {
				if strings.HasPrefix(tok, alias) {
					return v.canonical
				}
			}
		}
	}
	// pass 3: substring, long aliases only
	for _, v := range vendorSynonyms {
		for _, alias := range v.aliases {
			if len(alias) < 4 {
				continue
			}
			for _, tok := range tokens {
				if strings.Contains(tok, alias) {
					return v.canonical
				}
			}
		}
	}
	return ""
}

func applyVendor(title string, attrs *Attributes) {
	if attrs.Vendor == "" {
		attrs.Vendor = DetectVendor(title)
	}
}

func isVendorAlias(tok string) bool {
	for _, v := range vendorSynonyms {
		for _, alias := range v.aliases {
			if tok == alias {
				return true
			}
		}
	}
	return false
}
