// Package classify normalizes page-scraped facts into the keys the rate table understands.
// Every function here is pure and total.
package classify

import (
	"strings"

	"tariffcheck/core/types"
)

// countryAliases maps lowercased spellings to canonical names.
// Every value must also be a fixed point (a canonical name maps to itself).
var countryAliases = map[string]string{
	// United States
	"us":                       "united states",
	"u.s":                      "united states",
	"u.s.":                     "united states",
	"u.s.a":                    "united states",
	"u.s.a.":                   "united states",
	"usa":                      "united states",
	"america":                  "united states",
	"united states of america": "united states",
	"estados unidos":           "united states",

	// China
	"cn":                         "china",
	"prc":                        "china",
	"p.r.c.":                     "china",
	"mainland china":             "china",
	"people's republic of china": "china",
	"peoples republic of china":  "china",
	"zhongguo":                   "china",
	"中国":                         "china",

	"hk":                "hong kong",
	"hong kong sar":     "hong kong",
	"tw":                "taiwan",
	"roc":               "taiwan",
	"republic of china": "taiwan",

	// North America
	"mx":                       "mexico",
	"méxico":                   "mexico",
	"estados unidos mexicanos": "mexico",
	"ca":                       "canada",

	// Europe
	"uk":            "united kingdom",
	"u.k.":          "united kingdom",
	"gb":            "united kingdom",
	"great britain": "united kingdom",
	"britain":       "united kingdom",
	"england":       "united kingdom",
	"de":            "germany",
	"deutschland":   "germany",
	"fr":            "france",
	"it":            "italy",
	"italia":        "italy",
	"es":            "spain",
	"españa":        "spain",
	"nl":            "netherlands",
	"holland":       "netherlands",
	"ie":            "ireland",
	"be":            "belgium",
	"pl":            "poland",
	"polska":        "poland",
	"pt":            "portugal",
	"at":            "austria",
	"österreich":    "austria",
	"se":            "sweden",
	"sverige":       "sweden",
	"ch":            "switzerland",
	"schweiz":       "switzerland",
	"suisse":        "switzerland",

	// Asia
	"jp":                "japan",
	"nippon":            "japan",
	"日本":                "japan",
	"kr":                "south korea",
	"korea":             "south korea",
	"republic of korea": "south korea",
	"rok":               "south korea",
	"vn":                "vietnam",
	"viet nam":          "vietnam",
	"in":                "india",
	"bharat":            "india",
	"th":                "thailand",
	"id":                "indonesia",
	"my":                "malaysia",
	"ph":                "philippines",
	"bd":                "bangladesh",
	"kh":                "cambodia",
	"pk":                "pakistan",
	"lk":                "sri lanka",

	// Elsewhere
	"br":      "brazil",
	"brasil":  "brazil",
	"au":      "australia",
	"tr":      "turkey",
	"türkiye": "turkey",
	"turkiye": "turkey",
	"il":      "israel",
	"za":      "south africa",
}

// NormalizeCountry maps a raw origin string to its canonical lowercase name.
// Unrecognized input maps to itself (trimmed, lowercased); empty input maps to "unknown".
func NormalizeCountry(raw string) types.NormalizedCountry {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	for {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(key, "made in "), "the ")
		if trimmed == key {
			break
		}
		key = trimmed
	}
	if key == "" || key == "unknown" || key == "n/a" || key == "-" {
		return types.CountryUnknown
	}
	if alias, ok := countryAliases[key]; ok {
		return types.NormalizedCountry(alias)
	}
	// "U.S.A" with stray dots
	if alias, ok := countryAliases[strings.ReplaceAll(key, ".", "")]; ok {
		return types.NormalizedCountry(alias)
	}
	return types.NormalizedCountry(key)
}
