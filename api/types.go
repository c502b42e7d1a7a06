package api

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"tariffcheck/core/types"
)

// CheckRequest is the POST /check body. Price is accepted as a JSON number or string;
// anything unparseable is treated as 0.
type CheckRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Price           json.RawMessage `json:"price"`
	CountryOfOrigin string          `json:"countryOfOrigin"`
	Category        string          `json:"category"`
}

// Observation converts the request into an engine observation
func (r CheckRequest) Observation() types.ProductObservation {
	return types.ProductObservation{
		Title:              r.Title,
		Description:        r.Description,
		Price:              parsePrice(r.Price),
		CountryOfOriginRaw: r.CountryOfOrigin,
		CategoryRaw:        r.Category,
	}
}

func parsePrice(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
