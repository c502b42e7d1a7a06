// Package explanation - Tariff explanation
// Exposes HOW an estimate was reached, not just the numbers.
package explanation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tariffcheck/core/types"
)

// Input sources
const (
	SourcePage      = "page"
	SourceInferred  = "inferred"
	SourceRuleTable = "rule_table"
	SourceDefault   = "default"
)

// Explanation provides full transparency for a single check
type Explanation struct {
	Country  string `json:"country"`
	Category string `json:"category"`

	// Formula breakdown
	Formula string  `json:"formula"`
	Inputs  []Input `json:"inputs"`

	// Rule provenance
	RuleID    string `json:"rule_id,omitempty"`
	Rationale string `json:"rationale,omitempty"`

	// Caveats the UI must show alongside the numbers
	Caveats       []string `json:"caveats,omitempty"`
	IsApproximate bool     `json:"is_approximate,omitempty"`
}

// Input represents an input to the tariff formula
type Input struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// NewExplanation creates a new explanation
func NewExplanation(country, category string) *Explanation {
	return &Explanation{
		Country:  country,
		Category: category,
		Inputs:   make([]Input, 0),
	}
}

// WithFormula sets the formula description
func (e *Explanation) WithFormula(formula string) *Explanation {
	e.Formula = formula
	return e
}

// AddInput adds an input to the explanation
func (e *Explanation) AddInput(name, value, source string) *Explanation {
	e.Inputs = append(e.Inputs, Input{
		Name:   name,
		Value:  value,
		Source: source,
	})
	return e
}

// WithRule records which table rule applied
func (e *Explanation) WithRule(id, rationale string) *Explanation {
	e.RuleID = id
	e.Rationale = rationale
	return e
}

// AddCaveat adds a caveat
func (e *Explanation) AddCaveat(caveat string) *Explanation {
	e.Caveats = append(e.Caveats, caveat)
	return e
}

// AsApproximate marks the figures as a heuristic rather than a derivation
func (e *Explanation) AsApproximate(reason string) *Explanation {
	e.IsApproximate = true
	return e.AddCaveat(reason)
}

// ToHover returns a compact overlay format
func (e *Explanation) ToHover() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("**%s** → %s\n", e.Country, e.Category))

	if e.Formula != "" {
		sb.WriteString(fmt.Sprintf("Formula: `%s`\n", e.Formula))
	}

	if len(e.Inputs) > 0 {
		sb.WriteString("Inputs:\n")
		for _, input := range e.Inputs {
			sb.WriteString(fmt.Sprintf("  • %s = %s (%s)\n", input.Name, input.Value, input.Source))
		}
	}

	if e.RuleID != "" {
		sb.WriteString(fmt.Sprintf("Rule: %s\n", e.RuleID))
	}

	for _, c := range e.Caveats {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", c))
	}

	return sb.String()
}

// ToNarrative returns a human-readable narrative
func (e *Explanation) ToNarrative() string {
	if e.Formula == "" {
		return fmt.Sprintf("%s goods from %s: %s", e.Category, e.Country, e.Rationale)
	}
	return fmt.Sprintf("%s goods from %s: %s (%s)", e.Category, e.Country, e.Rationale, e.Formula)
}

// Check carries everything known about a finished check
type Check struct {
	Observation   types.ProductObservation
	Country       types.NormalizedCountry
	Category      types.CategoryCode
	Attributes    types.ProductAttributes
	Channel       types.Channel
	Policy        types.RatePolicy
	Decomposition types.Decomposition
}

// Build produces the explanation for a check
func Build(c Check) *Explanation {
	e := NewExplanation(c.Country.Title(), string(c.Category))

	countrySource := SourcePage
	if c.Country.IsUnknown() {
		countrySource = SourceDefault
	}
	e.AddInput("price", money(c.Observation.Price), SourcePage)
	e.AddInput("country_of_origin", string(c.Country), countrySource)

	category := string(c.Category)
	if ch := c.Category.HTSChapter(); ch != "" {
		category += " (HTS ch. " + ch + ")"
	}
	e.AddInput("category", category, SourceInferred)
	e.AddInput("shipment_channel", string(c.Channel), SourceInferred)
	e.AddInput("policy", c.Policy.Describe(), SourceRuleTable)
	e.WithRule(c.Policy.RuleID, c.Policy.Rationale)
	e.WithFormula(formula(c.Observation.Price, c.Policy, c.Decomposition))

	if c.Decomposition.IsApproximate {
		e.AsApproximate(fmt.Sprintf("The $%s per-item fee is not smaller than the price, so the split is an approximation, not a calculation",
			c.Policy.FlatFee.StringFixed(2)))
	}
	if c.Country.IsUnknown() {
		e.AddCaveat("Country of origin was not shown; the baseline rate was assumed")
	}
	if c.Category == types.CategoryUnclassified {
		e.AddCaveat("Product category could not be classified")
	}
	if c.Channel == types.ChannelPostal {
		e.AddCaveat("Postal shipment was inferred from price and category")
	}

	return e
}

// Message is the single-line summary shown to the user
func Message(c Check) string {
	price := money(c.Observation.Price)
	dec := c.Decomposition

	if !c.Policy.IsSubjectToTariff {
		return fmt.Sprintf("No import tariff expected for this item from %s: %s.", c.Country.Title(), c.Policy.Rationale)
	}
	if dec.TariffAmount.IsZero() && !dec.IsApproximate {
		return fmt.Sprintf("Goods from %s carry a %s%% tariff (%s), but a %s price leaves no tariff amount to separate.",
			c.Country.Title(), pct(c.Policy.Rate), c.Policy.Rationale, price)
	}

	if dec.IsApproximate {
		return fmt.Sprintf("Approximate: a $%s per-item fee applies to this %s item, more than its %s price; roughly %s of the price is likely tariff.",
			c.Policy.FlatFee.StringFixed(2), c.Country.Title(), price, money(dec.TariffAmount))
	}

	switch c.Policy.Kind {
	case types.PolicyFlatFee:
		return fmt.Sprintf("This %s price likely includes a $%s flat import fee on goods from %s; about %s before the fee.",
			price, c.Policy.FlatFee.StringFixed(2), c.Country.Title(), money(dec.PreTariffPrice))
	default:
		return fmt.Sprintf("This %s price likely includes %s in import tariffs (%s%% on goods from %s); about %s before tariffs.",
			price, money(dec.TariffAmount), pct(c.Policy.Rate), c.Country.Title(), money(dec.PreTariffPrice))
	}
}

func formula(price decimal.Decimal, p types.RatePolicy, dec types.Decomposition) string {
	switch {
	case dec.IsApproximate:
		share := decimal.Zero
		if price.IsPositive() {
			share = dec.TariffAmount.Div(price)
		}
		return fmt.Sprintf("tariff ≈ %s%% × %s = %s (fee $%s ≥ price)",
			pct(share), money(price), money(dec.TariffAmount), p.FlatFee.StringFixed(2))
	case p.Kind == types.PolicyPercentage:
		return fmt.Sprintf("pre = %s / (1 + %s) = %s; tariff = %s - %s = %s",
			money(price), p.Rate.String(), money(dec.PreTariffPrice), money(price), money(dec.PreTariffPrice), money(dec.TariffAmount))
	case p.Kind == types.PolicyFlatFee:
		return fmt.Sprintf("pre = %s - %s = %s", money(price), money(p.FlatFee), money(dec.PreTariffPrice))
	default:
		return fmt.Sprintf("pre = %s; tariff = $0.00", money(price))
	}
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func pct(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String()
}
