package store

import (
	"context"

	"github.com/seqgeo/argplace/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	CRS    string          `json:"crs,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for synthesis runs and their
// coordinate sets.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string, crs string, seed *int64) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Coordinates. SaveCoordinates also marks the run complete and records
	// its sample count; GetCoordinates returns rows in original sample
	// order.
	SaveCoordinates(ctx context.Context, runID string, coords []model.SampleCoordinate) error
	GetCoordinates(ctx context.Context, runID string) ([]model.SampleCoordinate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
