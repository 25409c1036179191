package main

import (
	"encoding/json"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/deppfellow/marketing-dashboard/internal/logger"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newStatusCmd prints the same connection report as GET /api/status for
// the current environment, without starting the server.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print which platforms are connected",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Observability).Level(zerolog.ErrorLevel)

			clients := server.NewPlatformClients(cmd.Context(), cfg.Platforms, &log)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(clients.Status())
		},
	}
}
