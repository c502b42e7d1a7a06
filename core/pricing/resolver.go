// Package pricing resolves tariff policies and decomposes prices.
// Policies come from a Source, are memoized in a session Cache, and are
// collapsed against the observed price before being returned.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tariffcheck/core/rules"
	"tariffcheck/core/types"
	"tariffcheck/internal/logging"
)

// Source produces price-independent policy templates
type Source interface {
	// Name identifies the source in logs and output
	Name() string

	// Lookup returns the policy template for an origin and product
	Lookup(ctx context.Context, country types.NormalizedCountry, q rules.Query) (types.RatePolicy, error)
}

// Resolver resolves the rate policy for a product at a price point
type Resolver struct {
	source Source
	cache  *Cache
}

// NewResolver creates a resolver. cache may be nil to disable caching.
func NewResolver(source Source, cache *Cache) *Resolver {
	return &Resolver{source: source, cache: cache}
}

// Source returns the underlying source
func (r *Resolver) Source() Source {
	return r.source
}

// Cache returns the session cache, or nil
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the concrete policy (percentage, flat_fee or exempt) for the product at price.
// It only fails if the source fails.
func (r *Resolver) Resolve(ctx context.Context, country types.NormalizedCountry, q rules.Query, price decimal.Decimal) (types.RatePolicy, error) {
	key := NewCacheKey(country, q)

	var template types.RatePolicy
	cached := false
	if r.cache != nil {
		template, cached = r.cache.Get(key)
	}

	if !cached {
		var err error
		template, err = r.source.Lookup(ctx, country, q)
		if err != nil {
			return types.RatePolicy{}, err
		}
		if r.cache != nil {
			r.cache.Put(key, template)
		}
	}

	policy := Collapse(template, price)
	logging.Debug("resolved rate policy",
		zap.String("key", key.String()),
		zap.Bool("cached", cached),
		zap.String("source", r.source.Name()),
		zap.String("rule", policy.RuleID),
		zap.String("policy", policy.Describe()),
	)
	return policy, nil
}

// Collapse turns a template into a concrete policy for a price point.
// greater_of picks whichever of its percentage and flat fee yields the larger tariff;
// a flat fee that is not smaller than the price is marked Approximate.
func Collapse(p types.RatePolicy, price decimal.Decimal) types.RatePolicy {
	out := p
	if p.Kind == types.PolicyGreaterOf {
		pctTariff := inclusiveTariff(price, p.Rate)
		if p.FlatFee.GreaterThan(pctTariff) {
			out = types.FlatFee(p.FlatFee, fmt.Sprintf("%s; the $%s fee exceeds the %s%% tariff of $%s at this price",
				p.Rationale, p.FlatFee.StringFixed(2), percent(p.Rate), pctTariff.StringFixed(2)))
		} else {
			out = types.Percentage(p.Rate, fmt.Sprintf("%s; the %s%% tariff of $%s is at least the $%s fee at this price",
				p.Rationale, percent(p.Rate), pctTariff.StringFixed(2), p.FlatFee.StringFixed(2)))
		}
		out.RuleID = p.RuleID
	}

	if out.Kind == types.PolicyFlatFee && out.FlatFee.GreaterThanOrEqual(price) {
		out.Approximate = true
	}
	return out
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
