package classify

import (
	"regexp"
	"sort"

	"tariffcheck/core/types"
)

var materialPatterns = []struct {
	Material string
	Pattern  *regexp.Regexp
}{
	{"cotton", regexp.MustCompile(`(?i)\bcotton\b`)},
	{"polyester", regexp.MustCompile(`(?i)\bpolyester\b`)},
	{"wool", regexp.MustCompile(`(?i)\b(wool|merino|cashmere)\b`)},
	{"silk", regexp.MustCompile(`(?i)\bsilk\b`)},
	{"leather", regexp.MustCompile(`(?i)\bleather\b`)},
	{"steel", regexp.MustCompile(`(?i)\b(stainless steel|steel)\b`)},
	{"aluminum", regexp.MustCompile(`(?i)\b(aluminum|aluminium)\b`)},
	{"plastic", regexp.MustCompile(`(?i)\b(plastic|abs|polypropylene)\b`)},
	{"wood", regexp.MustCompile(`(?i)\b(wood|wooden|bamboo|oak|walnut)\b`)},
	{"glass", regexp.MustCompile(`(?i)\bglass\b`)},
	{"ceramic", regexp.MustCompile(`(?i)\b(ceramic|porcelain)\b`)},
}

var (
	electronicPattern = regexp.MustCompile(`(?i)\b(electronic|battery|usb|bluetooth|wireless|wi-?fi|rechargeable|led|charger|laptop|phone|headphones?)\b`)
	apparelPattern    = regexp.MustCompile(`(?i)\b(shirt|t-shirt|dress|jacket|jeans|pants|hoodie|sweater|skirt|socks|coat|apparel|clothing|shoes?|sneakers?)\b`)
	foodPattern       = regexp.MustCompile(`(?i)\b(food|snack|organic|fruit|vegetable|coffee|tea|chocolate|spice|honey|produce|edible)\b`)
)

// genderPatterns is evaluated in order. A listing naming several audiences
// ("men's and women's") takes the earliest entry.
var genderPatterns = []struct {
	Gender  types.Gender
	Pattern *regexp.Regexp
}{
	{types.GenderKids, regexp.MustCompile(`(?i)\b(kids?|boys?|girls?|toddler|children'?s?|baby)\b`)},
	{types.GenderUnisex, regexp.MustCompile(`(?i)\bunisex\b`)},
	{types.GenderWomen, regexp.MustCompile(`(?i)\b(women'?s?|womens|ladies|female)\b`)},
	{types.GenderMen, regexp.MustCompile(`(?i)\b(men'?s?|mens|male)\b`)},
}

// InferAttributes derives product flags from title and description text.
// Gender is only set for apparel.
func InferAttributes(title, description string) types.ProductAttributes {
	text := title + " " + description
	attrs := types.ProductAttributes{
		IsElectronic: electronicPattern.MatchString(text),
		IsApparel:    apparelPattern.MatchString(text),
		IsFood:       foodPattern.MatchString(text),
	}

	for _, m := range materialPatterns {
		if m.Pattern.MatchString(text) {
			attrs.Materials = append(attrs.Materials, m.Material)
		}
	}
	sort.Strings(attrs.Materials)

	if attrs.IsApparel {
		for _, g := range genderPatterns {
			if g.Pattern.MatchString(text) {
				attrs.Gender = g.Gender
				break
			}
		}
	}

	return attrs
}
