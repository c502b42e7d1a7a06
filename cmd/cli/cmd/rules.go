// Package cmd - rules command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tariffcheck/core/engine"
	"tariffcheck/core/output"
	"tariffcheck/core/rules"
	"tariffcheck/internal/config"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule tables",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules of the active table in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := engine.LoadTable(config.Get().Tariff.RulesPath)
		if err != nil {
			return err
		}
		format := rulesFormat
		if format == "" {
			format = config.Get().Output.DefaultFormat
		}
		f, err := output.NewRegistry(false).Get(output.Format(format))
		if err != nil {
			return err
		}
		return f.RenderRules(cmd.OutOrStdout(), table.Summaries())
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse and validate a rule table file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := rules.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: table %q is valid (%d countries, %d rows)\n",
			args[0], table.Name, len(table.Countries()), len(table.Summaries()))
		return nil
	},
}

var rulesDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in rule table, as a starting point for a custom one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(rules.DefaultSource())
		return err
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesDefaultCmd)

	rulesListCmd.Flags().StringVarP(&rulesFormat, "format", "f", "", "output format (text, json)")
}
