// Package rules holds the declarative tariff rule table.
// Country treatments are data (predicates -> policy) evaluated first-match-wins,
// so changing a rate is an edit to the table file, not to code.
package rules

import (
	"fmt"
	"sort"

	"tariffcheck/core/types"
)

// Query is the price-independent description of a product used to select a rule
type Query struct {
	Category   types.CategoryCode
	Attributes types.ProductAttributes
	Channel    types.Channel
}

// Rule is one predicate -> policy row. Unset predicates match anything.
type Rule struct {
	ID string

	// Categories restricts the rule to these codes (empty = any)
	Categories []types.CategoryCode

	// Channel restricts the rule to one shipment channel ("" = any)
	Channel types.Channel

	Food       *bool
	Electronic *bool
	Apparel    *bool

	Policy types.RatePolicy
}

// Matches checks every set predicate against the query
func (r *Rule) Matches(q Query) bool {
	if len(r.Categories) > 0 {
		found := false
		for _, c := range r.Categories {
			if c == q.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.Channel != "" && r.Channel != q.Channel {
		return false
	}
	if r.Food != nil && *r.Food != q.Attributes.IsFood {
		return false
	}
	if r.Electronic != nil && *r.Electronic != q.Attributes.IsElectronic {
		return false
	}
	if r.Apparel != nil && *r.Apparel != q.Attributes.IsApparel {
		return false
	}
	return true
}

// CountryRules is the ordered rule list for one origin
type CountryRules struct {
	Country types.NormalizedCountry
	Rules   []Rule

	// Default applies when no rule matches (nil = universal baseline)
	Default *types.RatePolicy

	// Note carries free-form provenance for the entry
	Note string
}

// Table is the complete rule set
type Table struct {
	// Name identifies where the table came from
	Name string

	Baseline  types.RatePolicy
	countries map[types.NormalizedCountry]*CountryRules
}

// NewTable creates an empty table with the given baseline
func NewTable(name string, baseline types.RatePolicy) *Table {
	return &Table{
		Name:      name,
		Baseline:  baseline,
		countries: make(map[types.NormalizedCountry]*CountryRules),
	}
}

// AddCountry registers the rules for an origin
func (t *Table) AddCountry(cr *CountryRules) error {
	if _, exists := t.countries[cr.Country]; exists {
		return fmt.Errorf("duplicate country %q", cr.Country)
	}
	seen := make(map[string]bool, len(cr.Rules))
	for _, r := range cr.Rules {
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule %q for %q", r.ID, cr.Country)
		}
		seen[r.ID] = true
	}
	t.countries[cr.Country] = cr
	return nil
}

// Country returns the rules registered for an origin
func (t *Table) Country(c types.NormalizedCountry) (*CountryRules, bool) {
	cr, ok := t.countries[c]
	return cr, ok
}

// Countries returns all origins with specific rules, sorted
func (t *Table) Countries() []types.NormalizedCountry {
	out := make([]types.NormalizedCountry, 0, len(t.countries))
	for c := range t.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup selects the policy for an origin and product. The returned policy may be a
// greater_of template; collapsing it against a price is the resolver's job.
//
// Evaluation order: the country's rules in table order, the country default, the baseline.
// Unknown origins always get the baseline.
func (t *Table) Lookup(country types.NormalizedCountry, q Query) types.RatePolicy {
	if country.IsUnknown() {
		p := t.Baseline
		p.Rationale = "Unknown origin: " + t.Baseline.Rationale
		return p.WithRule("baseline/unknown-origin")
	}

	cr, ok := t.countries[country]
	if !ok {
		p := t.Baseline
		p.Rationale = fmt.Sprintf("%s (no specific rule for %s)", t.Baseline.Rationale, country.Title())
		return p.WithRule("baseline")
	}

	for i := range cr.Rules {
		if cr.Rules[i].Matches(q) {
			return cr.Rules[i].Policy.WithRule(string(country) + "/" + cr.Rules[i].ID)
		}
	}

	if cr.Default != nil {
		return cr.Default.WithRule(string(country) + "/default")
	}

	p := t.Baseline
	p.Rationale = fmt.Sprintf("%s (no %s rule matched)", t.Baseline.Rationale, country.Title())
	return p.WithRule("baseline")
}
