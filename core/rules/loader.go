package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"tariffcheck/core/classify"
	"tariffcheck/core/types"
	"tariffcheck/internal/errors"
)

//go:embed default_rules.hcl
var defaultRulesSource []byte

// DefaultTableName names the built-in table
const DefaultTableName = "built-in"

// tableFile is the HCL document layout
type tableFile struct {
	Baseline  outcomeBlock   `hcl:"baseline,block"`
	Countries []countryBlock `hcl:"country,block"`
}

type countryBlock struct {
	Name    string        `hcl:"name,label"`
	Note    string        `hcl:"note,optional"`
	Rules   []ruleBlock   `hcl:"rule,block"`
	Default *outcomeBlock `hcl:"default,block"`
}

type ruleBlock struct {
	ID         string   `hcl:"id,label"`
	Categories []string `hcl:"categories,optional"`
	Channel    string   `hcl:"channel,optional"`
	Food       *bool    `hcl:"food,optional"`
	Electronic *bool    `hcl:"electronic,optional"`
	Apparel    *bool    `hcl:"apparel,optional"`

	Kind      string `hcl:"kind"`
	Rate      string `hcl:"rate,optional"`
	FlatFee   string `hcl:"flat_fee,optional"`
	Rationale string `hcl:"rationale"`
}

type outcomeBlock struct {
	Kind      string `hcl:"kind"`
	Rate      string `hcl:"rate,optional"`
	FlatFee   string `hcl:"flat_fee,optional"`
	Rationale string `hcl:"rationale"`
}

// evalContext exposes symbolic names so table files can write
// `categories = [category.food]` and `kind = kind.exempt`.
func evalContext() *hcl.EvalContext {
	codes := []types.CategoryCode{
		types.CategoryElectronics, types.CategoryAppliances, types.CategoryApparel, types.CategoryFootwear,
		types.CategoryToys, types.CategoryFood, types.CategoryBeverages, types.CategoryEnergy,
		types.CategoryPotash, types.CategoryFurniture, types.CategoryJewelry, types.CategoryCosmetics,
		types.CategoryBooks, types.CategorySportingGoods, types.CategoryTools, types.CategoryAutomotive,
		types.CategoryHome, types.CategorySteel, types.CategoryAluminum, types.CategoryUnclassified,
	}
	categories := make(map[string]cty.Value, len(codes))
	for _, c := range codes {
		categories[string(c)] = cty.StringVal(string(c))
	}

	kinds := map[string]cty.Value{}
	for _, k := range []types.PolicyKind{types.PolicyPercentage, types.PolicyFlatFee, types.PolicyExempt, types.PolicyGreaterOf} {
		kinds[string(k)] = cty.StringVal(string(k))
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"category": cty.ObjectVal(categories),
			"kind":     cty.ObjectVal(kinds),
			"channel": cty.ObjectVal(map[string]cty.Value{
				string(types.ChannelPostal):     cty.StringVal(string(types.ChannelPostal)),
				string(types.ChannelCommercial): cty.StringVal(string(types.ChannelCommercial)),
			}),
		},
	}
}

// Default parses the embedded rule table. It panics if the embedded file is invalid.
func Default() *Table {
	t, err := Parse(defaultRulesSource, "default_rules.hcl")
	if err != nil {
		panic(fmt.Sprintf("built-in rule table is invalid: %v", err))
	}
	t.Name = DefaultTableName
	return t
}

// DefaultSource returns the embedded table text
func DefaultSource() []byte {
	return append([]byte(nil), defaultRulesSource...)
}

// LoadFile reads and parses an HCL rule table from disk
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Rules("failed to read rule table", err).WithContext("path", path)
	}
	return Parse(src, path)
}

// Parse decodes and validates an HCL rule table
func Parse(src []byte, filename string) (*Table, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Rules("failed to parse rule table", diags).WithContext("file", filename)
	}

	var doc tableFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &doc); diags.HasErrors() {
		return nil, errors.Rules("failed to decode rule table", diags).WithContext("file", filename)
	}

	baseline, err := doc.Baseline.policy()
	if err != nil {
		return nil, errors.Rules("invalid baseline", err).WithContext("file", filename)
	}
	if baseline.Kind == types.PolicyGreaterOf {
		return nil, errors.Rules("invalid baseline", fmt.Errorf("baseline cannot be %s", types.PolicyGreaterOf))
	}

	table := NewTable(filename, baseline)
	for _, cb := range doc.Countries {
		cr, err := cb.compile()
		if err != nil {
			return nil, errors.Rules("invalid country block", err).WithContext("file", filename).WithContext("country", cb.Name)
		}
		if err := table.AddCountry(cr); err != nil {
			return nil, errors.Rules("invalid rule table", err).WithContext("file", filename)
		}
	}

	return table, nil
}

func (cb countryBlock) compile() (*CountryRules, error) {
	country := classify.NormalizeCountry(cb.Name)
	if country.IsUnknown() {
		return nil, fmt.Errorf("country label %q does not name an origin", cb.Name)
	}

	cr := &CountryRules{Country: country, Note: cb.Note}
	for _, rb := range cb.Rules {
		rule, err := rb.compile()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rb.ID, err)
		}
		cr.Rules = append(cr.Rules, rule)
	}

	if cb.Default != nil {
		p, err := cb.Default.policy()
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		cr.Default = &p
	}

	return cr, nil
}

func (rb ruleBlock) compile() (Rule, error) {
	outcome := outcomeBlock{Kind: rb.Kind, Rate: rb.Rate, FlatFee: rb.FlatFee, Rationale: rb.Rationale}
	p, err := outcome.policy()
	if err != nil {
		return Rule{}, err
	}

	rule := Rule{
		ID:         rb.ID,
		Food:       rb.Food,
		Electronic: rb.Electronic,
		Apparel:    rb.Apparel,
		Policy:     p,
	}

	if rb.Channel != "" {
		ch := types.Channel(rb.Channel)
		if !ch.IsValid() {
			return Rule{}, fmt.Errorf("unknown channel %q", rb.Channel)
		}
		rule.Channel = ch
	}

	for _, c := range rb.Categories {
		code := types.CategoryCode(c)
		if !code.IsKnown() && code != types.CategoryUnclassified {
			return Rule{}, fmt.Errorf("unknown category %q", c)
		}
		rule.Categories = append(rule.Categories, code)
	}

	return rule, nil
}

func (ob outcomeBlock) policy() (types.RatePolicy, error) {
	kind := types.PolicyKind(ob.Kind)
	if !kind.IsValid() {
		return types.RatePolicy{}, fmt.Errorf("unknown kind %q", ob.Kind)
	}

	rate, err := parseAmount("rate", ob.Rate, kind == types.PolicyPercentage || kind == types.PolicyGreaterOf)
	if err != nil {
		return types.RatePolicy{}, err
	}
	fee, err := parseAmount("flat_fee", ob.FlatFee, kind == types.PolicyFlatFee || kind == types.PolicyGreaterOf)
	if err != nil {
		return types.RatePolicy{}, err
	}

	switch kind {
	case types.PolicyPercentage:
		if ob.FlatFee != "" {
			return types.RatePolicy{}, fmt.Errorf("flat_fee is not allowed for %s", kind)
		}
		return types.Percentage(rate, ob.Rationale), nil
	case types.PolicyFlatFee:
		if ob.Rate != "" {
			return types.RatePolicy{}, fmt.Errorf("rate is not allowed for %s", kind)
		}
		if !fee.IsPositive() {
			return types.RatePolicy{}, fmt.Errorf("flat_fee must be positive")
		}
		return types.FlatFee(fee, ob.Rationale), nil
	case types.PolicyGreaterOf:
		if !fee.IsPositive() {
			return types.RatePolicy{}, fmt.Errorf("flat_fee must be positive")
		}
		return types.GreaterOf(rate, fee, ob.Rationale), nil
	default:
		if ob.Rate != "" || ob.FlatFee != "" {
			return types.RatePolicy{}, fmt.Errorf("%s takes no rate or flat_fee", kind)
		}
		return types.Exempt(ob.Rationale), nil
	}
}

func parseAmount(field, raw string, required bool) (decimal.Decimal, error) {
	if raw == "" {
		if required {
			return decimal.Zero, fmt.Errorf("%s is required", field)
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number", field, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

// Summary is a flat, printable view of one table row
type Summary struct {
	Country   types.NormalizedCountry `json:"country"`
	RuleID    string                  `json:"ruleId"`
	Match     string                  `json:"match"`
	Policy    string                  `json:"policy"`
	Rationale string                  `json:"rationale"`

	// Note is the country entry's provenance note, set on its first row
	Note string `json:"note,omitempty"`
}

// Summaries lists every row of the table in evaluation order, baseline last
func (t *Table) Summaries() []Summary {
	var out []Summary
	for _, c := range t.Countries() {
		cr := t.countries[c]
		first := len(out)
		for _, r := range cr.Rules {
			out = append(out, Summary{
				Country:   c,
				RuleID:    r.ID,
				Match:     r.describeMatch(),
				Policy:    r.Policy.Describe(),
				Rationale: r.Policy.Rationale,
			})
		}
		if cr.Default != nil {
			out = append(out, Summary{
				Country:   c,
				RuleID:    "default",
				Match:     "*",
				Policy:    cr.Default.Describe(),
				Rationale: cr.Default.Rationale,
			})
		}
		if len(out) > first {
			out[first].Note = cr.Note
		}
	}
	out = append(out, Summary{
		Country:   "*",
		RuleID:    "baseline",
		Match:     "*",
		Policy:    t.Baseline.Describe(),
		Rationale: t.Baseline.Rationale,
	})
	return out
}

func (r *Rule) describeMatch() string {
	var parts []string
	if len(r.Categories) > 0 {
		cats := make([]string, len(r.Categories))
		for i, c := range r.Categories {
			cats[i] = string(c)
		}
		sort.Strings(cats)
		parts = append(parts, fmt.Sprintf("category in %v", cats))
	}
	if r.Channel != "" {
		parts = append(parts, "channel="+string(r.Channel))
	}
	if r.Food != nil {
		parts = append(parts, fmt.Sprintf("food=%t", *r.Food))
	}
	if r.Electronic != nil {
		parts = append(parts, fmt.Sprintf("electronic=%t", *r.Electronic))
	}
	if r.Apparel != nil {
		parts = append(parts, fmt.Sprintf("apparel=%t", *r.Apparel))
	}
	if len(parts) == 0 {
		return "*"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " && " + p
	}
	return out
}
