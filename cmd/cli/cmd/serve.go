// Package cmd - serve command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tariffcheck/api"
	"tariffcheck/core/engine"
	"tariffcheck/internal/config"
	"tariffcheck/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tariff checks over local HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		e, err := engine.FromConfig(cfg.Tariff)
		if err != nil {
			return fmt.Errorf("failed to initialize engine: %w", err)
		}

		logging.Info("serving", zap.String("addr", addr), zap.String("source", e.Resolver().Source().Name()))
		fmt.Fprintf(cmd.OutOrStdout(), "tariffcheck v%s listening on http://%s\n", version, addr)
		return api.NewServer(e, version).ListenAndServe(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
