package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seo-audit",
	Short: "SEO audit normalization and scoring engine",
	Long:  "Ingests ZIP archives of third-party SEO exports, normalizes them into a canonical audit document, and computes weighted composite scores.",
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
