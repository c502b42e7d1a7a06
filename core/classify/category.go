package classify

import (
	"regexp"
	"strings"

	"tariffcheck/core/types"
)

// categoryName maps a breadcrumb label to a category code
type categoryName struct {
	Name string
	Code types.CategoryCode
}

// categoryNames is searched in order for substring matches, so more specific
// labels precede the generic ones that contain them ("cell phones" before "phones",
// "home appliances" before "home").
var categoryNames = []categoryName{
	{"consumer electronics", types.CategoryElectronics},
	{"electronics", types.CategoryElectronics},
	{"computers", types.CategoryElectronics},
	{"cell phones", types.CategoryElectronics},
	{"phones", types.CategoryElectronics},
	{"video games", types.CategoryElectronics},
	{"camera", types.CategoryElectronics},
	{"home appliances", types.CategoryAppliances},
	{"kitchen appliances", types.CategoryAppliances},
	{"appliances", types.CategoryAppliances},
	{"shoes", types.CategoryFootwear},
	{"footwear", types.CategoryFootwear},
	{"clothing", types.CategoryApparel},
	{"apparel", types.CategoryApparel},
	{"fashion", types.CategoryApparel},
	{"toys", types.CategoryToys},
	{"games", types.CategoryToys},
	{"grocery", types.CategoryFood},
	{"gourmet food", types.CategoryFood},
	{"produce", types.CategoryFood},
	{"food", types.CategoryFood},
	{"beverages", types.CategoryBeverages},
	{"wine", types.CategoryBeverages},
	{"fuel", types.CategoryEnergy},
	{"energy", types.CategoryEnergy},
	{"fertilizer", types.CategoryPotash},
	{"potash", types.CategoryPotash},
	{"furniture", types.CategoryFurniture},
	{"jewelry", types.CategoryJewelry},
	{"watches", types.CategoryJewelry},
	{"beauty", types.CategoryCosmetics},
	{"cosmetics", types.CategoryCosmetics},
	{"personal care", types.CategoryCosmetics},
	{"books", types.CategoryBooks},
	{"sports", types.CategorySportingGoods},
	{"outdoors", types.CategorySportingGoods},
	{"tools", types.CategoryTools},
	{"home improvement", types.CategoryTools},
	{"automotive", types.CategoryAutomotive},
	{"kitchen", types.CategoryHome},
	{"home", types.CategoryHome},
	{"steel", types.CategorySteel},
	{"aluminum", types.CategoryAluminum},
}

// categoryExact indexes categoryNames for the exact-match pass
var categoryExact = func() map[string]types.CategoryCode {
	m := make(map[string]types.CategoryCode, len(categoryNames))
	for _, c := range categoryNames {
		m[c.Name] = c.Code
	}
	return m
}()

// categoryKeyword matches title/description text to a category code
type categoryKeyword struct {
	Pattern *regexp.Regexp
	Code    types.CategoryCode
}

// categoryKeywords is evaluated in order; first match wins.
var categoryKeywords = []categoryKeyword{
	{regexp.MustCompile(`(?i)\b(laptop|smartphone|phone|tablet|headphones?|earbuds|charger|monitor|camera|speaker|tv|television|console)\b`), types.CategoryElectronics},
	{regexp.MustCompile(`(?i)\b(blender|microwave|toaster|vacuum|refrigerator|dishwasher|air fryer|coffee maker|washer|dryer)\b`), types.CategoryAppliances},
	{regexp.MustCompile(`(?i)\b(sneakers?|boots?|sandals?|shoes?|slippers?|heels)\b`), types.CategoryFootwear},
	{regexp.MustCompile(`(?i)\b(shirt|t-shirt|dress|jacket|jeans|pants|hoodie|sweater|skirt|socks|coat)s?\b`), types.CategoryApparel},
	{regexp.MustCompile(`(?i)\b(toy|lego|doll|puzzle|action figure|plush)s?\b`), types.CategoryToys},
	{regexp.MustCompile(`(?i)\b(coffee beans|tea|chocolate|snack|avocado|tomato|fruit|vegetable|spice|honey|olive oil)s?\b`), types.CategoryFood},
	{regexp.MustCompile(`(?i)\b(wine|beer|juice|soda|tequila|whiskey)\b`), types.CategoryBeverages},
	{regexp.MustCompile(`(?i)\b(crude|gasoline|diesel|propane|lumber)\b`), types.CategoryEnergy},
	{regexp.MustCompile(`(?i)\b(potash|fertili[sz]er)\b`), types.CategoryPotash},
	{regexp.MustCompile(`(?i)\b(sofa|chair|desk|table|bed frame|bookshelf|dresser)s?\b`), types.CategoryFurniture},
	{regexp.MustCompile(`(?i)\b(necklace|ring|bracelet|earrings?|watch)\b`), types.CategoryJewelry},
	{regexp.MustCompile(`(?i)\b(lipstick|mascara|serum|moisturi[sz]er|shampoo|perfume)\b`), types.CategoryCosmetics},
	{regexp.MustCompile(`(?i)\b(book|novel|paperback|hardcover)s?\b`), types.CategoryBooks},
	{regexp.MustCompile(`(?i)\b(drill|wrench|screwdriver|hammer|saw)s?\b`), types.CategoryTools},
}

// ClassifyCategory maps a breadcrumb category (and, failing that, the title and description)
// to a category code. Passes run in a fixed order and the first match wins:
// exact name, substring name, keyword pattern, unclassified.
func ClassifyCategory(categoryRaw, title, description string) types.CategoryCode {
	name := strings.Join(strings.Fields(strings.ToLower(categoryRaw)), " ")

	if name != "" {
		if code, ok := categoryExact[name]; ok {
			return code
		}
		for _, c := range categoryNames {
			if strings.Contains(name, c.Name) {
				return c.Code
			}
		}
	}

	text := strings.TrimSpace(title + " " + description)
	if text != "" {
		for _, k := range categoryKeywords {
			if k.Pattern.MatchString(text) {
				return k.Code
			}
		}
	}

	return types.CategoryUnclassified
}
