// Package types - Product observation and derived attribute types
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductObservation is the best-effort record scraped from a product page.
// It is immutable for the duration of a check.
type ProductObservation struct {
	// Title is the product title
	Title string `json:"title"`

	// Description is the free-text description block, if any
	Description string `json:"description,omitempty"`

	// Price is the displayed (tax-inclusive) price
	Price decimal.Decimal `json:"price"`

	// CountryOfOriginRaw is the seller-declared origin as shown on the page
	CountryOfOriginRaw string `json:"countryOfOrigin"`

	// CategoryRaw is the breadcrumb category
	CategoryRaw string `json:"category"`
}

// Text returns title and description joined for keyword matching
func (o ProductObservation) Text() string {
	return strings.TrimSpace(o.Title + " " + o.Description)
}

// CategoryCode identifies a tariff-relevant product category
type CategoryCode string

const (
	CategoryElectronics   CategoryCode = "electronics"
	CategoryAppliances    CategoryCode = "appliances"
	CategoryApparel       CategoryCode = "apparel"
	CategoryFootwear      CategoryCode = "footwear"
	CategoryToys          CategoryCode = "toys"
	CategoryFood          CategoryCode = "food"
	CategoryBeverages     CategoryCode = "beverages"
	CategoryEnergy        CategoryCode = "energy"
	CategoryPotash        CategoryCode = "potash"
	CategoryFurniture     CategoryCode = "furniture"
	CategoryJewelry       CategoryCode = "jewelry"
	CategoryCosmetics     CategoryCode = "cosmetics"
	CategoryBooks         CategoryCode = "books"
	CategorySportingGoods CategoryCode = "sporting_goods"
	CategoryTools         CategoryCode = "tools"
	CategoryAutomotive    CategoryCode = "automotive"
	CategoryHome          CategoryCode = "home"
	CategorySteel         CategoryCode = "steel"
	CategoryAluminum      CategoryCode = "aluminum"
	CategoryUnclassified  CategoryCode = "unclassified"
)

// htsChapters maps category codes to the Harmonized Tariff Schedule chapter they mostly fall under
var htsChapters = map[CategoryCode]string{
	CategoryElectronics:   "85",
	CategoryAppliances:    "84",
	CategoryApparel:       "61-62",
	CategoryFootwear:      "64",
	CategoryToys:          "95",
	CategoryFood:          "07-21",
	CategoryBeverages:     "22",
	CategoryEnergy:        "27",
	CategoryPotash:        "31",
	CategoryFurniture:     "94",
	CategoryJewelry:       "71",
	CategoryCosmetics:     "33",
	CategoryBooks:         "49",
	CategorySportingGoods: "95",
	CategoryTools:         "82",
	CategoryAutomotive:    "87",
	CategoryHome:          "39-70",
	CategorySteel:         "72-73",
	CategoryAluminum:      "76",
}

// String returns the string representation
func (c CategoryCode) String() string {
	return string(c)
}

// HTSChapter returns the tariff schedule chapter reference, or "" if unclassified
func (c CategoryCode) HTSChapter() string {
	return htsChapters[c]
}

// IsKnown checks if the code is one of the defined categories
func (c CategoryCode) IsKnown() bool {
	_, ok := htsChapters[c]
	return ok
}

// IsElectronic checks if the category is electronics or appliances
func (c CategoryCode) IsElectronic() bool {
	return c == CategoryElectronics || c == CategoryAppliances
}

// IsFood checks if the category is food or beverages
func (c CategoryCode) IsFood() bool {
	return c == CategoryFood || c == CategoryBeverages
}

// IsApparel checks if the category is clothing or footwear
func (c CategoryCode) IsApparel() bool {
	return c == CategoryApparel || c == CategoryFootwear
}

// Gender is the target audience inferred from apparel listings
type Gender string

const (
	GenderNone   Gender = ""
	GenderWomen  Gender = "women"
	GenderMen    Gender = "men"
	GenderKids   Gender = "kids"
	GenderUnisex Gender = "unisex"
)

// ProductAttributes are flags derived from keyword matching. They are not mutually exclusive.
type ProductAttributes struct {
	// Materials is a sorted set of detected materials
	Materials []string `json:"materials,omitempty"`

	IsElectronic bool   `json:"isElectronic"`
	IsApparel    bool   `json:"isApparel"`
	Gender       Gender `json:"gender,omitempty"`
	IsFood       bool   `json:"isFood"`
}

// WithCategory returns a copy with the flags implied by the category code set
func (a ProductAttributes) WithCategory(code CategoryCode) ProductAttributes {
	out := a
	out.Materials = append([]string(nil), a.Materials...)
	if code.IsElectronic() {
		out.IsElectronic = true
	}
	// A classified category decides food status; keywords only count when unclassified.
	if code.IsKnown() {
		out.IsFood = code.IsFood()
	}
	if code.IsApparel() {
		out.IsApparel = true
	}
	return out
}
