package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tariffcheck/core/rules"
	"tariffcheck/core/types"
	"tariffcheck/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestPercentageInverseIdentity proves pre-tariff price times (1+rate) recovers the observed price
func TestPercentageInverseIdentity(t *testing.T) {
	rates := []string{"0", "0.1", "0.25", "0.46", "1.2", "1.45", "3"}
	prices := []string{"0", "0.01", "9.99", "80", "200", "1234.56"}
	tolerance := d("0.000000001")

	for _, r := range rates {
		for _, p := range prices {
			rate, price := d(r), d(p)
			out := Decompose(price, types.Percentage(rate, "test"))

			recovered := out.PreTariffPrice.Mul(one.Add(rate))
			if recovered.Sub(price).Abs().GreaterThan(tolerance) {
				t.Errorf("rate %s price %s: pre %s * (1+rate) = %s", r, p, out.PreTariffPrice, recovered)
			}
			if !out.TariffAmount.Add(out.PreTariffPrice).Equal(price) {
				t.Errorf("rate %s price %s: tariff + pre = %s", r, p, out.TariffAmount.Add(out.PreTariffPrice))
			}
			if out.IsApproximate {
				t.Errorf("percentage decomposition must not be approximate")
			}
		}
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name        string
		price       string
		policy      types.RatePolicy
		pre         string
		tariff      string
		approximate bool
	}{
		{"percentage", "200", types.Percentage(d("1.5"), ""), "80", "120", false},
		{"flat fee below price", "150", types.FlatFee(d("100"), ""), "50", "100", false},
		{"flat fee equal to price", "100", types.FlatFee(d("100"), ""), "30", "70", true},
		{"flat fee above price", "80", types.FlatFee(d("100"), ""), "24", "56", true},
		{"flat fee on zero price", "0", types.FlatFee(d("100"), ""), "0", "0", true},
		{"exempt", "50", types.Exempt(""), "50", "0", false},
		{"greater-of collapses first", "80", types.GreaterOf(d("1.2"), d("100"), ""), "24", "56", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Decompose(d(tt.price), tt.policy)
			if !out.PreTariffPrice.Equal(d(tt.pre)) {
				t.Errorf("pre-tariff: expected %s, got %s", tt.pre, out.PreTariffPrice)
			}
			if !out.TariffAmount.Equal(d(tt.tariff)) {
				t.Errorf("tariff: expected %s, got %s", tt.tariff, out.TariffAmount)
			}
			if out.IsApproximate != tt.approximate {
				t.Errorf("approximate: expected %v, got %v", tt.approximate, out.IsApproximate)
			}
		})
	}
}

func TestDecomposerFractionClamped(t *testing.T) {
	fee := types.FlatFee(d("100"), "")

	out := NewDecomposer(d("1.5")).Decompose(d("40"), fee)
	if !out.TariffAmount.Equal(d("40")) || !out.PreTariffPrice.IsZero() {
		t.Errorf("expected fraction clamped to 1, got %+v", out)
	}

	out = NewDecomposer(d("-1")).Decompose(d("40"), fee)
	if !out.TariffAmount.IsZero() || !out.PreTariffPrice.Equal(d("40")) {
		t.Errorf("expected fraction clamped to 0, got %+v", out)
	}
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name        string
		policy      types.RatePolicy
		price       string
		kind        types.PolicyKind
		approximate bool
	}{
		{"fee wins and exceeds price", types.GreaterOf(d("1.2"), d("100"), "r"), "80", types.PolicyFlatFee, true},
		{"percentage wins", types.GreaterOf(d("1.2"), d("5"), "r"), "80", types.PolicyPercentage, false},
		{"fee wins below price", types.GreaterOf(d("0.1"), d("20"), "r"), "150", types.PolicyFlatFee, false},
		{"tie goes to percentage", types.GreaterOf(d("1"), d("50"), "r"), "100", types.PolicyPercentage, false},
		{"plain flat fee at price", types.FlatFee(d("30"), "r"), "30", types.PolicyFlatFee, true},
		{"percentage unchanged", types.Percentage(d("0.25"), "r"), "10", types.PolicyPercentage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Collapse(tt.policy.WithRule("test/rule"), d(tt.price))
			if out.Kind != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, out.Kind)
			}
			if out.Approximate != tt.approximate {
				t.Errorf("approximate: expected %v, got %v", tt.approximate, out.Approximate)
			}
			if out.RuleID != "test/rule" {
				t.Errorf("expected rule ID preserved, got %q", out.RuleID)
			}
			if !out.IsSubjectToTariff {
				t.Errorf("expected policy to be subject to tariff")
			}
		})
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(24*time.Hour, clock.Now)

	key := CacheKey{Country: "china", Category: types.CategoryToys, Signature: "ch=postal"}
	policy := types.Percentage(d("1.45"), "x")
	cache.Put(key, policy)

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !got.Rate.Equal(policy.Rate) || got.Kind != policy.Kind {
		t.Errorf("expected %+v, got %+v", policy, got)
	}

	if _, ok := cache.Get(CacheKey{Country: "china"}); ok {
		t.Errorf("expected a miss for another key")
	}
}

func TestCacheResetsInBulkAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(24*time.Hour, clock.Now)

	old := CacheKey{Country: "china"}
	fresh := CacheKey{Country: "mexico"}
	cache.Put(old, types.Exempt("a"))
	clock.Advance(23 * time.Hour)
	cache.Put(fresh, types.Exempt("b"))

	clock.Advance(time.Hour)
	if _, ok := cache.Get(old); !ok {
		t.Fatal("expected entries to survive exactly one TTL")
	}

	clock.Advance(time.Nanosecond)
	if _, ok := cache.Get(fresh); ok {
		t.Errorf("expected the whole cache to reset, including the 1h-old entry")
	}
	if cache.Size() != 0 {
		t.Errorf("expected empty cache after reset, got %d", cache.Size())
	}

	cache.Put(old, types.Exempt("c"))
	if _, ok := cache.Get(old); !ok {
		t.Errorf("expected entries stored after a reset to be readable")
	}

	stats := cache.Stats()
	if stats.Resets != 1 {
		t.Errorf("expected 1 reset, got %d", stats.Resets)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %d and %d", stats.Hits, stats.Misses)
	}
}

func TestCacheClearStartsNewGeneration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(24*time.Hour, clock.Now)

	key := CacheKey{Country: "china"}
	cache.Put(key, types.Exempt("a"))
	clock.Advance(20 * time.Hour)
	cache.Clear()

	if _, ok := cache.Get(key); ok {
		t.Fatal("expected clear to drop entries")
	}
	cache.Put(key, types.Exempt("b"))
	clock.Advance(23 * time.Hour)
	if _, ok := cache.Get(key); !ok {
		t.Errorf("expected the TTL to restart at the clear")
	}
	stats := cache.Stats()
	if stats.Resets != 1 || !stats.LastReset.Equal(time.Date(2025, 5, 2, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected stats %+v", stats)
	}
}

type countingSource struct {
	table *rules.Table
	calls int
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Lookup(ctx context.Context, country types.NormalizedCountry, q rules.Query) (types.RatePolicy, error) {
	s.calls++
	return s.table.Lookup(country, q), nil
}

func TestResolverUsesCache(t *testing.T) {
	source := &countingSource{table: rules.Default()}
	resolver := NewResolver(source, NewCache(time.Hour, nil))
	ctx := context.Background()
	q := rules.Query{Category: types.CategoryToys, Channel: types.ChannelPostal}

	first, err := resolver.Resolve(ctx, "china", q, d("80"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Kind != types.PolicyFlatFee || !first.Approximate {
		t.Errorf("expected approximate flat fee, got %s", first.Describe())
	}

	// cached template is collapsed against the new price
	second, err := resolver.Resolve(ctx, "china", q, d("99"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("expected one source call, got %d", source.calls)
	}
	if second.Kind != types.PolicyFlatFee {
		t.Errorf("expected flat fee, got %s", second.Describe())
	}

	q.Channel = types.ChannelCommercial
	third, _ := resolver.Resolve(ctx, "china", q, d("150"))
	if source.calls != 2 {
		t.Errorf("expected channel to change the key, got %d calls", source.calls)
	}
	if third.Kind != types.PolicyPercentage || !third.Rate.Equal(d("1.45")) {
		t.Errorf("expected 145%% percentage, got %s", third.Describe())
	}
}

func TestResolverWithoutCache(t *testing.T) {
	source := &countingSource{table: rules.Default()}
	resolver := NewResolver(source, nil)
	for i := 0; i < 3; i++ {
		if _, err := resolver.Resolve(context.Background(), "japan", rules.Query{}, d("10")); err != nil {
			t.Fatal(err)
		}
	}
	if source.calls != 3 {
		t.Errorf("expected every resolve to hit the source, got %d", source.calls)
	}
}

func TestSimulatedAPISource(t *testing.T) {
	source := NewSimulatedAPISource(rules.Default(), 5*time.Millisecond)

	p, err := source.Lookup(context.Background(), "vietnam", rules.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Rate.Equal(d("0.46")) {
		t.Errorf("expected 46%%, got %s", p.Describe())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := NewSimulatedAPISource(rules.Default(), time.Hour)
	if _, err := slow.Lookup(ctx, "vietnam", rules.Query{}); !errors.IsType(err, errors.TypeSource) {
		t.Errorf("expected SOURCE_ERROR on cancelled context, got %v", err)
	}
}
