package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seqgeo/argplace/internal/arg"
	"github.com/seqgeo/argplace/internal/export"
	"github.com/seqgeo/argplace/internal/landmask"
	"github.com/seqgeo/argplace/internal/model"
	"github.com/seqgeo/argplace/internal/store"
	"github.com/seqgeo/argplace/internal/synth"
)

var (
	synthCRS         string
	synthSeed        int64
	synthSeedSet     bool
	synthOutDir      string
	synthFormat      string
	synthConcurrency int
	synthNoStore     bool
)

var synthCmd = &cobra.Command{
	Use:   "synth <tree-sequence.json> [more files...]",
	Short: "Synthesize spatial coordinates for tree sequence files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		synthSeedSet = cmd.Flags().Changed("seed")

		var st store.Store
		if !synthNoStore {
			var err error
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		regions, err := loadRegions()
		if err != nil {
			return err
		}
		detector := initDetector()

		return processFiles(ctx, args, st, detector, regions)
	},
}

func init() {
	synthCmd.Flags().StringVar(&synthCRS, "crs", "unit_grid", "target CRS (unit_grid, EPSG:4326, EPSG:3857)")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 0, "random seed for reproducible output")
	synthCmd.Flags().StringVar(&synthOutDir, "out-dir", ".", "directory for output files")
	synthCmd.Flags().StringVar(&synthFormat, "format", "csv", "output format (csv, xlsx, json)")
	synthCmd.Flags().IntVar(&synthConcurrency, "concurrency", 4, "max files processed concurrently")
	synthCmd.Flags().BoolVar(&synthNoStore, "no-store", false, "skip recording runs in the store")
	rootCmd.AddCommand(synthCmd)
}

// processFiles synthesizes each input file concurrently. Individual file
// failures are logged and counted without aborting the batch.
func processFiles(ctx context.Context, paths []string, st store.Store, detector landmask.Detector, regions []synth.Region) error {
	crs, recognized := model.ParseCRS(synthCRS)
	if !recognized {
		zap.L().Warn("unknown CRS, defaulting to unit grid", zap.String("crs", synthCRS))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(synthConcurrency)

	var succeeded, failed atomic.Int64

	for _, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			if err := processFile(gctx, path, crs, st, detector, regions); err != nil {
				failed.Add(1)
				log.Error("synthesis failed", zap.Error(err))
				return nil // don't abort the batch on individual failure
			}
			succeeded.Add(1)
			log.Info("synthesis complete")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "synth batch")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if failed.Load() > 0 {
		return eris.Errorf("%d of %d files failed", failed.Load(), len(paths))
	}
	return nil
}

func processFile(ctx context.Context, path string, crs model.CRS, st store.Store, detector landmask.Detector, regions []synth.Region) error {
	ts, err := arg.LoadFile(path)
	if err != nil {
		return err
	}
	if cfg.Synth.DistanceFallback > 0 {
		ts.DistanceFallback = cfg.Synth.DistanceFallback
	}

	var seed *int64
	if synthSeedSet {
		s := synthSeed
		seed = &s
	}

	var run *model.Run
	if st != nil {
		run, err = st.CreateRun(ctx, path, string(crs), seed)
		if err != nil {
			return err
		}
	}

	coords, err := synth.Synthesize(ts.Samples(), ts.PairwiseDistance, synth.Options{
		CRS:              crs,
		Seed:             seed,
		Detector:         detector,
		Regions:          regions,
		MDSMaxIterations: cfg.Synth.MDSMaxIterations,
		MDSRestarts:      cfg.Synth.MDSRestarts,
		DistanceFallback: cfg.Synth.DistanceFallback,
		LandAttempts:     cfg.Synth.LandAttempts,
		UnitGridMargin:   cfg.Synth.UnitGridMargin,
		UnitGridNoise:    cfg.Synth.UnitGridNoise,
		GeographicNoise:  cfg.Synth.GeographicNoise,
		MercatorNoise:    cfg.Synth.MercatorNoise,
	})
	if err != nil {
		if st != nil && run != nil {
			if uErr := st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); uErr != nil {
				zap.L().Warn("mark run failed", zap.String("run_id", run.ID), zap.Error(uErr))
			}
		}
		return err
	}

	if st != nil && run != nil {
		if err := st.SaveCoordinates(ctx, run.ID, coords); err != nil {
			return err
		}
		run.Status = model.RunStatusComplete
		run.SampleCount = len(coords)
	}

	return writeOutput(path, run, coords)
}

func writeOutput(inputPath string, run *model.Run, coords []model.SampleCoordinate) error {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(synthOutDir, fmt.Sprintf("%s_coordinates.%s", base, synthFormat))

	switch synthFormat {
	case "csv":
		return export.SaveCSV(out, coords)
	case "xlsx":
		return export.SaveXLSX(out, run, coords)
	case "json":
		return export.SaveJSON(out, run, coords)
	default:
		return eris.Errorf("unsupported output format: %s", synthFormat)
	}
}
