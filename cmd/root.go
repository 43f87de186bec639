package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seqgeo/argplace/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "argplace",
	Short: "Spatial coordinate synthesis for ancestral recombination graphs",
	Long:  "Derives plausible 2D sample locations from tree sequence genealogies: pairwise MRCA distances, stress-majorization embedding, CRS projection, and land-constrained placement.",
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
