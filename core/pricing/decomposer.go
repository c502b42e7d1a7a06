// Package pricing - Price decomposition.
// Displayed prices are assumed to already include the tariff.
package pricing

import (
	"github.com/shopspring/decimal"

	"tariffcheck/core/types"
)

// DefaultApproximationFraction is the share of the price attributed to tariff when a
// flat fee is not smaller than the price itself
var DefaultApproximationFraction = decimal.RequireFromString("0.70")

var one = decimal.NewFromInt(1)

// Decomposer splits observed prices into pre-tariff price and tariff amount
type Decomposer struct {
	fraction decimal.Decimal
}

// NewDecomposer creates a decomposer. The fraction is clamped to [0, 1].
func NewDecomposer(fraction decimal.Decimal) *Decomposer {
	if fraction.IsNegative() {
		fraction = decimal.Zero
	}
	if fraction.GreaterThan(one) {
		fraction = one
	}
	return &Decomposer{fraction: fraction}
}

// Decompose splits an observed (tariff-inclusive) price under a policy.
// TariffAmount + PreTariffPrice always equals observed exactly.
func (d *Decomposer) Decompose(observed decimal.Decimal, policy types.RatePolicy) types.Decomposition {
	policy = Collapse(policy, observed)

	switch policy.Kind {
	case types.PolicyPercentage:
		pre := observed.Div(one.Add(policy.Rate))
		return types.Decomposition{
			PreTariffPrice: pre,
			TariffAmount:   observed.Sub(pre),
		}

	case types.PolicyFlatFee:
		if policy.FlatFee.LessThan(observed) {
			return types.Decomposition{
				PreTariffPrice: observed.Sub(policy.FlatFee),
				TariffAmount:   policy.FlatFee,
			}
		}
		// A fee at least as large as the price cannot be subtracted from it.
		tariff := observed.Mul(d.fraction)
		return types.Decomposition{
			PreTariffPrice: observed.Sub(tariff),
			TariffAmount:   tariff,
			IsApproximate:  true,
		}

	default:
		return types.Decomposition{
			PreTariffPrice: observed,
			TariffAmount:   decimal.Zero,
		}
	}
}

// Decompose splits a price using the default approximation fraction
func Decompose(observed decimal.Decimal, policy types.RatePolicy) types.Decomposition {
	return NewDecomposer(DefaultApproximationFraction).Decompose(observed, policy)
}

// inclusiveTariff is the tariff embedded in a price that already includes rate: p*r/(1+r)
func inclusiveTariff(price, rate decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Div(one.Add(rate)))
}
