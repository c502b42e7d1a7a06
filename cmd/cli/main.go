// Package main is the entry point for the tariffcheck CLI.
package main

import (
	"os"

	"tariffcheck/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
