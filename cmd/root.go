package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentinelsec/geomodel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geomodel",
	Short: "Per-user geographic locality ledger for login-anomaly detection",
	Long:  "Maintains a rolling set of geographic localities per user from authentication events, feeding impossible-travel and new-location alerting.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
