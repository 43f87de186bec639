package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/seqgeo/argplace/internal/landmask"
	"github.com/seqgeo/argplace/internal/store"
	"github.com/seqgeo/argplace/internal/synth"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "argplace.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initDetector builds the land detector from the configured data directory.
// A missing shapefile is not an error: the detector degrades to rule-based
// approximation and synthesis proceeds.
func initDetector() landmask.Detector {
	return landmask.NewNaturalEarth(cfg.LandMask.DataDir)
}

// loadRegions returns the configured region catalog override, or nil for
// the built-in catalog.
func loadRegions() ([]synth.Region, error) {
	if cfg.Synth.RegionCatalog == "" {
		return nil, nil
	}
	regions, err := synth.LoadRegions(cfg.Synth.RegionCatalog)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded region catalog override",
		zap.String("path", cfg.Synth.RegionCatalog),
		zap.Int("regions", len(regions)),
	)
	return regions, nil
}
