// Package types - Rate policy types
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PolicyKind tags the RatePolicy variant
type PolicyKind string

const (
	// PolicyPercentage charges Rate x pre-tariff price
	PolicyPercentage PolicyKind = "percentage"

	// PolicyFlatFee charges a fixed amount per item
	PolicyFlatFee PolicyKind = "flat_fee"

	// PolicyExempt charges nothing
	PolicyExempt PolicyKind = "exempt"

	// PolicyGreaterOf is a price-independent template: whichever of Rate and FlatFee
	// yields the larger tariff at the observed price. It never leaves the resolver.
	PolicyGreaterOf PolicyKind = "greater_of"
)

// String returns the string representation
func (k PolicyKind) String() string {
	return string(k)
}

// IsValid checks if the kind is known
func (k PolicyKind) IsValid() bool {
	switch k {
	case PolicyPercentage, PolicyFlatFee, PolicyExempt, PolicyGreaterOf:
		return true
	default:
		return false
	}
}

// RatePolicy is the tariff treatment resolved for a product
type RatePolicy struct {
	// Kind selects which of Rate / FlatFee applies
	Kind PolicyKind `json:"kind"`

	// Rate is the ad valorem rate (0.25 = 25%)
	Rate decimal.Decimal `json:"rate"`

	// FlatFee is the per-item fee
	FlatFee decimal.Decimal `json:"flatFee"`

	// Rationale is a human-readable reason for the policy
	Rationale string `json:"rationale"`

	// IsSubjectToTariff is false only for exempt policies
	IsSubjectToTariff bool `json:"isSubjectToTariff"`

	// Approximate marks a flat fee that is not smaller than the observed price
	Approximate bool `json:"approximate,omitempty"`

	// RuleID identifies the table rule that produced the policy
	RuleID string `json:"ruleId,omitempty"`
}

// Percentage creates a percentage policy
func Percentage(rate decimal.Decimal, rationale string) RatePolicy {
	return RatePolicy{
		Kind:              PolicyPercentage,
		Rate:              rate,
		Rationale:         rationale,
		IsSubjectToTariff: rate.IsPositive(),
	}
}

// FlatFee creates a flat fee policy
func FlatFee(amount decimal.Decimal, rationale string) RatePolicy {
	return RatePolicy{
		Kind:              PolicyFlatFee,
		FlatFee:           amount,
		Rationale:         rationale,
		IsSubjectToTariff: amount.IsPositive(),
	}
}

// Exempt creates an exempt policy
func Exempt(rationale string) RatePolicy {
	return RatePolicy{
		Kind:      PolicyExempt,
		Rationale: rationale,
	}
}

// GreaterOf creates a greater-of template policy
func GreaterOf(rate, amount decimal.Decimal, rationale string) RatePolicy {
	return RatePolicy{
		Kind:              PolicyGreaterOf,
		Rate:              rate,
		FlatFee:           amount,
		Rationale:         rationale,
		IsSubjectToTariff: rate.IsPositive() || amount.IsPositive(),
	}
}

// WithRule returns a copy tagged with the rule ID
func (p RatePolicy) WithRule(id string) RatePolicy {
	p.RuleID = id
	return p
}

// Describe returns a compact description ("percentage 145%", "flat_fee $100.00")
func (p RatePolicy) Describe() string {
	switch p.Kind {
	case PolicyPercentage:
		return fmt.Sprintf("%s %s%%", p.Kind, p.Rate.Mul(decimal.NewFromInt(100)).String())
	case PolicyFlatFee:
		return fmt.Sprintf("%s $%s", p.Kind, p.FlatFee.StringFixed(2))
	case PolicyGreaterOf:
		return fmt.Sprintf("%s %s%% or $%s", p.Kind, p.Rate.Mul(decimal.NewFromInt(100)).String(), p.FlatFee.StringFixed(2))
	default:
		return string(p.Kind)
	}
}

// Decomposition splits an observed tax-inclusive price into its parts
type Decomposition struct {
	PreTariffPrice decimal.Decimal `json:"preTariffPrice"`
	TariffAmount   decimal.Decimal `json:"tariffAmount"`
	IsApproximate  bool            `json:"isApproximate"`
}
