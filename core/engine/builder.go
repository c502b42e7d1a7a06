package engine

import (
	"tariffcheck/core/pricing"
	"tariffcheck/core/rules"
	"tariffcheck/internal/config"
	"tariffcheck/internal/errors"
)

// FromConfig assembles an engine for one session: rule table, source, cache and resolver
func FromConfig(cfg config.TariffConfig, opts ...Option) (*Engine, error) {
	table, err := LoadTable(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	var source pricing.Source
	switch cfg.Source {
	case config.SourceTable, "":
		source = pricing.NewTableSource(table)
	case config.SourceAPISimulated:
		source = pricing.NewSimulatedAPISource(table, cfg.APIDelay())
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown tariff source %q", cfg.Source)
	}

	var cache *pricing.Cache
	if cfg.CacheEnabled {
		cache = pricing.NewCache(cfg.CacheTTL(), nil)
	}

	engineConfig := DefaultEngineConfig()
	if !cfg.ApproximationFraction.IsZero() {
		engineConfig.ApproximationFraction = cfg.ApproximationFraction
	}
	if !cfg.PostalThreshold.IsZero() {
		engineConfig.PostalThreshold = cfg.PostalThreshold
	}

	opts = append([]Option{WithTable(table)}, opts...)
	return NewEngine(pricing.NewResolver(source, cache), engineConfig, opts...), nil
}

// LoadTable returns the built-in table, or the file at path if one is given
func LoadTable(path string) (*rules.Table, error) {
	if path == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(path)
}
