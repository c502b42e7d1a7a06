// Package pricing - Rate sources
package pricing

import (
	"context"
	"time"

	"tariffcheck/core/rules"
	"tariffcheck/core/types"
	"tariffcheck/internal/errors"
)

// TableSource evaluates the rule table directly
type TableSource struct {
	table *rules.Table
}

// NewTableSource creates a table-backed source
func NewTableSource(table *rules.Table) *TableSource {
	return &TableSource{table: table}
}

// Name returns the source name
func (s *TableSource) Name() string {
	return "table:" + s.table.Name
}

// Table returns the rule table
func (s *TableSource) Table() *rules.Table {
	return s.table
}

// Lookup evaluates the table
func (s *TableSource) Lookup(ctx context.Context, country types.NormalizedCountry, q rules.Query) (types.RatePolicy, error) {
	return s.table.Lookup(country, q), nil
}

// SimulatedAPISource stands in for a remote tariff service. It waits for an artificial
// delay and then answers from the local table; it performs no network I/O.
type SimulatedAPISource struct {
	table *rules.Table
	delay time.Duration
}

// NewSimulatedAPISource creates a simulated API source
func NewSimulatedAPISource(table *rules.Table, delay time.Duration) *SimulatedAPISource {
	return &SimulatedAPISource{table: table, delay: delay}
}

// Name returns the source name
func (s *SimulatedAPISource) Name() string {
	return "api-simulated:" + s.table.Name
}

// Lookup waits for the simulated latency, then evaluates the table
func (s *SimulatedAPISource) Lookup(ctx context.Context, country types.NormalizedCountry, q rules.Query) (types.RatePolicy, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return types.RatePolicy{}, errors.Source("tariff API lookup aborted", ctx.Err()).WithContext("country", string(country))
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return types.RatePolicy{}, errors.Source("tariff API lookup aborted", err).WithContext("country", string(country))
	}
	return s.table.Lookup(country, q), nil
}
