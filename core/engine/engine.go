// Package engine provides the API-primary tariff check engine.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tariffcheck/core/classify"
	"tariffcheck/core/explanation"
	"tariffcheck/core/pricing"
	"tariffcheck/core/rules"
	"tariffcheck/core/types"
	"tariffcheck/internal/errors"
	"tariffcheck/internal/logging"
)

// Engine runs tariff checks: normalize -> classify -> resolve -> decompose -> explain
type Engine struct {
	resolver   *pricing.Resolver
	decomposer *pricing.Decomposer
	table      *rules.Table

	config EngineConfig

	now   func() time.Time
	newID func() string
}

// EngineConfig configures the check engine
type EngineConfig struct {
	// ApproximationFraction is the tariff share used when a flat fee swamps the price
	ApproximationFraction decimal.Decimal

	// PostalThreshold is the price below which postal shipment is inferred
	PostalThreshold decimal.Decimal
}

// DefaultEngineConfig returns the built-in engine settings
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ApproximationFraction: pricing.DefaultApproximationFraction,
		PostalThreshold:       classify.DefaultPostalThreshold,
	}
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock sets the time source used for CheckedAt
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the check ID generator
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithTable records the rule table behind the resolver for listing
func WithTable(t *rules.Table) Option {
	return func(e *Engine) { e.table = t }
}

// NewEngine creates a new check engine
func NewEngine(resolver *pricing.Resolver, config EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		resolver:   resolver,
		decomposer: pricing.NewDecomposer(config.ApproximationFraction),
		config:     config,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the rule table, or nil if unknown
func (e *Engine) Table() *rules.Table {
	return e.table
}

// Resolver returns the rate resolver
func (e *Engine) Resolver() *pricing.Resolver {
	return e.resolver
}

// Result is the outcome of a check: the output contract plus its explanation
type Result struct {
	types.Estimate
	Explanation *explanation.Explanation `json:"explanation,omitempty"`
}

// Check estimates the tariff embedded in an observed product price.
// Missing fields are valid degenerate input; only a negative price is rejected.
func (e *Engine) Check(ctx context.Context, obs types.ProductObservation) (*Result, error) {
	if obs.Price.IsNegative() {
		return nil, errors.Input("price must not be negative").WithContext("price", obs.Price.String())
	}

	country := classify.NormalizeCountry(obs.CountryOfOriginRaw)
	category := classify.ClassifyCategory(obs.CategoryRaw, obs.Title, obs.Description)
	attrs := classify.InferAttributes(obs.Title, obs.Description).WithCategory(category)
	channel := classify.InferChannel(obs.Price, category, e.config.PostalThreshold)

	query := rules.Query{Category: category, Attributes: attrs, Channel: channel}
	policy, err := e.resolver.Resolve(ctx, country, query, obs.Price)
	if err != nil {
		return nil, err
	}

	dec := e.decomposer.Decompose(obs.Price, policy)

	check := explanation.Check{
		Observation:   obs,
		Country:       country,
		Category:      category,
		Attributes:    attrs,
		Channel:       channel,
		Policy:        policy,
		Decomposition: dec,
	}
	expl := explanation.Build(check)

	est := types.Estimate{
		CheckID:           e.newID(),
		IsSubjectToTariff: policy.IsSubjectToTariff,
		ObservedPrice:     obs.Price,
		PreTariffPrice:    dec.PreTariffPrice,
		TariffAmount:      dec.TariffAmount,
		Message:           explanation.Message(check),
		IsApproximate:     dec.IsApproximate,
		Country:           country,
		Category:          category,
		Channel:           channel,
		Policy:            policy,
		Caveats:           expl.Caveats,
		CheckedAt:         e.now(),
	}
	switch policy.Kind {
	case types.PolicyPercentage:
		rate := policy.Rate
		est.TariffRate = &rate
	case types.PolicyFlatFee:
		fee := policy.FlatFee
		est.FlatFeeAmount = &fee
	}

	logging.Debug("tariff check complete",
		zap.String("check_id", est.CheckID),
		zap.String("country", string(country)),
		zap.String("category", string(category)),
		zap.String("channel", string(channel)),
		zap.String("rule", policy.RuleID),
		zap.String("tariff", dec.TariffAmount.StringFixed(2)),
		zap.Bool("approximate", dec.IsApproximate),
	)

	return &Result{Estimate: est, Explanation: expl}, nil
}
