package explanation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tariffcheck/core/types"
)

func check(country types.NormalizedCountry, category types.CategoryCode, channel types.Channel, price string, policy types.RatePolicy, dec types.Decomposition) Check {
	return Check{
		Observation:   types.ProductObservation{Price: decimal.RequireFromString(price)},
		Country:       country,
		Category:      category,
		Channel:       channel,
		Policy:        policy,
		Decomposition: dec,
	}
}

func TestMessagePercentage(t *testing.T) {
	c := check("china", types.CategoryElectronics, types.ChannelCommercial, "80",
		types.Percentage(decimal.RequireFromString("1.45"), "combined tariff"),
		types.Decomposition{
			PreTariffPrice: decimal.RequireFromString("32.65"),
			TariffAmount:   decimal.RequireFromString("47.35"),
		})

	msg := Message(c)
	for _, want := range []string{"$80.00", "$47.35", "145%", "China", "$32.65"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message %q", want, msg)
		}
	}
}

func TestMessageApproximate(t *testing.T) {
	policy := types.FlatFee(decimal.NewFromInt(100), "postal fee")
	policy.Approximate = true
	c := check("china", types.CategoryToys, types.ChannelPostal, "80", policy, types.Decomposition{
		PreTariffPrice: decimal.NewFromInt(24),
		TariffAmount:   decimal.NewFromInt(56),
		IsApproximate:  true,
	})

	if msg := Message(c); !strings.HasPrefix(msg, "Approximate") {
		t.Errorf("expected approximate message, got %q", msg)
	}

	e := Build(c)
	if !e.IsApproximate {
		t.Errorf("expected explanation to be approximate")
	}
	if !strings.Contains(e.Formula, "70%") {
		t.Errorf("expected share in formula, got %q", e.Formula)
	}
	if len(e.Caveats) != 2 {
		t.Errorf("expected approximation and postal caveats, got %v", e.Caveats)
	}
}

func TestMessageExempt(t *testing.T) {
	c := check("mexico", types.CategoryFood, types.ChannelPostal, "50",
		types.Exempt("USMCA-qualifying agricultural goods"),
		types.Decomposition{PreTariffPrice: decimal.NewFromInt(50), TariffAmount: decimal.Zero})

	msg := Message(c)
	if !strings.HasPrefix(msg, "No import tariff expected") || !strings.Contains(msg, "USMCA") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestBuildUnknownOrigin(t *testing.T) {
	c := check(types.CountryUnknown, types.CategoryUnclassified, types.ChannelPostal, "30",
		types.Percentage(decimal.RequireFromString("0.1"), "Unknown origin: baseline").WithRule("baseline/unknown-origin"),
		types.Decomposition{})

	e := Build(c)
	if e.Country != "Unknown" {
		t.Errorf("expected Unknown country, got %q", e.Country)
	}
	if e.RuleID != "baseline/unknown-origin" {
		t.Errorf("expected rule recorded, got %q", e.RuleID)
	}
	var sources []string
	for _, in := range e.Inputs {
		if in.Name == "country_of_origin" {
			sources = append(sources, in.Source)
		}
	}
	if len(sources) != 1 || sources[0] != SourceDefault {
		t.Errorf("expected defaulted country input, got %v", sources)
	}
	if len(e.Caveats) != 3 {
		t.Errorf("expected origin, category and postal caveats, got %v", e.Caveats)
	}
	if hover := e.ToHover(); !strings.Contains(hover, "Rule: baseline/unknown-origin") {
		t.Errorf("expected rule in hover text, got %q", hover)
	}
}

func TestMessageZeroPriceStillSubject(t *testing.T) {
	c := check("japan", types.CategoryUnclassified, types.ChannelPostal, "0",
		types.Percentage(decimal.RequireFromString("0.1"), "Universal 10% baseline tariff"),
		types.Decomposition{})

	msg := Message(c)
	if strings.HasPrefix(msg, "No import tariff expected") {
		t.Errorf("message contradicts a subject-to-tariff policy: %q", msg)
	}
	for _, want := range []string{"Japan", "10%", "$0.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message %q", want, msg)
		}
	}
}
