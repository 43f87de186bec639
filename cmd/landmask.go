package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/seqgeo/argplace/internal/landmask"
)

var landmaskCmd = &cobra.Command{
	Use:   "landmask",
	Short: "Manage the Natural Earth land mask dataset",
}

var landmaskFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the land polygon shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("component", "landmask"))

		url := cfg.LandMask.DownloadURL
		if url == "" {
			url = landmask.DefaultDownloadURL
		}
		ratePerSec := cfg.LandMask.RatePerSec
		if ratePerSec <= 0 {
			ratePerSec = 1
		}
		limiter := rate.NewLimiter(rate.Limit(ratePerSec), 1)
		client := &http.Client{Timeout: 2 * time.Minute}

		log.Info("fetching land mask",
			zap.String("url", url),
			zap.String("data_dir", cfg.LandMask.DataDir),
		)
		if err := landmask.Fetch(ctx, client, url, cfg.LandMask.DataDir, limiter); err != nil {
			return err
		}
		log.Info("land mask ready", zap.String("data_dir", cfg.LandMask.DataDir))
		return nil
	},
}

var landmaskStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the shapefile detector is usable",
	RunE: func(_ *cobra.Command, _ []string) error {
		// Probe without the rule fallback so Available reflects the
		// shapefile alone.
		probe := landmask.NewNaturalEarth(cfg.LandMask.DataDir, landmask.WithoutRuleFallback())
		if probe.Available() {
			fmt.Fprintf(os.Stdout, "land polygons loaded (data dir: %s)\n", cfg.LandMask.DataDir)
			return nil
		}
		fmt.Fprintf(os.Stdout, "no land polygons; using coordinate-rule fallback. Run 'argplace landmask fetch' to download them (data dir: %s)\n", cfg.LandMask.DataDir)
		return nil
	},
}

func init() {
	landmaskCmd.AddCommand(landmaskFetchCmd)
	landmaskCmd.AddCommand(landmaskStatusCmd)
	rootCmd.AddCommand(landmaskCmd)
}
