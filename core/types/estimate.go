// Package types - Check output types
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estimate is the result of a single tariff check, handed to the presentation layer
type Estimate struct {
	// CheckID uniquely identifies this check
	CheckID string `json:"checkId"`

	IsSubjectToTariff bool `json:"isSubjectToTariff"`

	// TariffRate is set for percentage policies
	TariffRate *decimal.Decimal `json:"tariffRate,omitempty"`

	// FlatFeeAmount is set for flat fee policies
	FlatFeeAmount *decimal.Decimal `json:"flatFeeAmount,omitempty"`

	ObservedPrice  decimal.Decimal `json:"observedPrice"`
	PreTariffPrice decimal.Decimal `json:"preTariffPrice"`
	TariffAmount   decimal.Decimal `json:"tariffAmount"`

	// Message is the single-line user-facing summary
	Message string `json:"message"`

	// IsApproximate requires a distinct caveat in the UI
	IsApproximate bool `json:"isApproximate"`

	// Diagnostics
	Country   NormalizedCountry `json:"country"`
	Category  CategoryCode      `json:"category"`
	Channel   Channel           `json:"channel"`
	Policy    RatePolicy        `json:"policy"`
	Caveats   []string          `json:"caveats,omitempty"`
	CheckedAt time.Time         `json:"checkedAt"`
}
