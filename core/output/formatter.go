// Package output provides output formatting for check results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tariffcheck/core/engine"
	"tariffcheck/core/rules"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable summary
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *engine.Result) error

	// RenderRules produces output for a rule table listing
	RenderRules(w io.Writer, rows []rules.Summary) error
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the built-in formatters
func NewRegistry(showExplanation bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&TextFormatter{ShowExplanation: showExplanation})
	r.Register(&JSONFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns a formatter for a format type
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return f, nil
}

// TextFormatter renders a terminal summary
type TextFormatter struct {
	ShowExplanation bool
}

// Format returns the format type
func (f *TextFormatter) Format() Format { return FormatText }

// Render writes the summary
func (f *TextFormatter) Render(w io.Writer, r *engine.Result) error {
	var sb strings.Builder

	sb.WriteString(r.Message + "\n\n")
	sb.WriteString(fmt.Sprintf("  Origin:          %s\n", r.Country.Title()))
	sb.WriteString(fmt.Sprintf("  Category:        %s\n", r.Category))
	sb.WriteString(fmt.Sprintf("  Channel:         %s (inferred)\n", r.Channel))
	sb.WriteString(fmt.Sprintf("  Policy:          %s\n", r.Policy.Describe()))
	sb.WriteString(fmt.Sprintf("  Observed price:  $%s\n", r.ObservedPrice.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Pre-tariff:      $%s\n", r.PreTariffPrice.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Tariff:          $%s\n", r.TariffAmount.StringFixed(2)))
	if r.IsApproximate {
		sb.WriteString("  ** Approximation: the fee is at least the item's price **\n")
	}

	if f.ShowExplanation && r.Explanation != nil {
		sb.WriteString("\n")
		sb.WriteString(r.Explanation.ToHover())
	} else {
		if r.Explanation != nil {
			sb.WriteString(fmt.Sprintf("  Basis:           %s\n", r.Explanation.ToNarrative()))
		}
		for _, c := range r.Caveats {
			sb.WriteString(fmt.Sprintf("  - %s\n", c))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderRules writes the rule table as aligned rows
func (f *TextFormatter) RenderRules(w io.Writer, rows []rules.Summary) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %-16s %-40s %s\n", r.Country, r.RuleID, r.Match, r.Policy); err != nil {
			return err
		}
		if r.Note != "" {
			if _, err := fmt.Fprintf(w, "%-16s note: %s\n", "", r.Note); err != nil {
				return err
			}
		}
	}
	return nil
}

// JSONFormatter renders the output contract as JSON
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the result as indented JSON
func (f *JSONFormatter) Render(w io.Writer, r *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewCheckResponse(r))
}

// RenderRules writes the rule table as JSON
func (f *JSONFormatter) RenderRules(w io.Writer, rows []rules.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
