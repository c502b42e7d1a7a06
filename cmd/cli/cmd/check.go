// Package cmd - check command
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tariffcheck/core/engine"
	"tariffcheck/core/output"
	"tariffcheck/core/types"
	"tariffcheck/internal/config"
	"tariffcheck/internal/logging"
)

var (
	checkCountry     string
	checkPrice       string
	checkCategory    string
	checkTitle       string
	checkDescription string
	outputFormat     string
	showExplanation  bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Estimate the tariff embedded in a product price",
	Long: `Decompose an observed price into pre-tariff price and tariff amount.

Missing fields are accepted: an empty country is treated as unknown origin
and an empty category is inferred from the title.

Examples:
  tariffcheck check --country China --price 80 --category toys
  tariffcheck check --country "Viet Nam" --price 46 --title "Men's Cotton Shirt"
  tariffcheck check --country mexico --price 12 --category "Food & Grocery" --format json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkCountry, "country", "c", "", "country of origin as shown on the page")
	checkCmd.Flags().StringVarP(&checkPrice, "price", "p", "0", "observed retail price in USD")
	checkCmd.Flags().StringVar(&checkCategory, "category", "", "product category as shown on the page")
	checkCmd.Flags().StringVarP(&checkTitle, "title", "t", "", "product title")
	checkCmd.Flags().StringVar(&checkDescription, "description", "", "product description")
	checkCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")
	checkCmd.Flags().BoolVarP(&showExplanation, "explain", "e", false, "show the full explanation")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	price, err := parsePrice(checkPrice)
	if err != nil {
		return err
	}

	e, err := engine.FromConfig(cfg.Tariff)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	logging.Debug("running check")

	result, err := e.Check(context.Background(), types.ProductObservation{
		Title:              checkTitle,
		Description:        checkDescription,
		Price:              price,
		CountryOfOriginRaw: checkCountry,
		CategoryRaw:        checkCategory,
	})
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := output.NewRegistry(showExplanation || cfg.Output.ShowExplanation).Get(output.Format(format))
	if err != nil {
		return err
	}
	return f.Render(cmd.OutOrStdout(), result)
}

// parsePrice accepts "$1,299.99" style input. Unlike the HTTP adapter, a typo on
// the command line is reported rather than treated as zero.
func parsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	return d, nil
}
