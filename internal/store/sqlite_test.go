package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqgeo/argplace/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testCoordinates() []model.SampleCoordinate {
	return []model.SampleCoordinate{
		{Sample: "s0", Coordinate: model.Coordinate{X: 0.12, Y: 0.34}},
		{Sample: "s1", Coordinate: model.Coordinate{X: 0.56, Y: 0.78}},
		{Sample: "s2", Coordinate: model.Coordinate{X: 0.9, Y: 0.1}},
	}
}

// --- Runs ---

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	seed := int64(42)
	run, err := st.CreateRun(ctx, "trees.json", "EPSG:4326", &seed)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "trees.json", got.Source)
	assert.Equal(t, "EPSG:4326", got.CRS)
	require.NotNil(t, got.Seed)
	assert.Equal(t, int64(42), *got.Seed)
	assert.Zero(t, got.SampleCount)
}

func TestSQLite_CreateRun_NilSeed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "api", "unit_grid", nil)
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Seed)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "api", "unit_grid", nil)
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nonexistent", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "a.json", "unit_grid", nil)
	require.NoError(t, err)
	b, err := st.CreateRun(ctx, "b.json", "EPSG:4326", nil)
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, b.ID, model.RunStatusFailed))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, b.ID, failed[0].ID)

	grid, err := st.ListRuns(ctx, RunFilter{CRS: "unit_grid"})
	require.NoError(t, err)
	require.Len(t, grid, 1)
	assert.Equal(t, a.ID, grid[0].ID)
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := st.CreateRun(ctx, "a.json", "unit_grid", nil)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

// --- Coordinates ---

func TestSQLite_SaveAndGetCoordinates(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "trees.json", "unit_grid", nil)
	require.NoError(t, err)

	require.NoError(t, st.SaveCoordinates(ctx, run.ID, testCoordinates()))

	coords, err := st.GetCoordinates(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, coords, 3)
	// Rows come back in the original sample order.
	assert.Equal(t, model.Sample("s0"), coords[0].Sample)
	assert.Equal(t, model.Sample("s1"), coords[1].Sample)
	assert.Equal(t, model.Sample("s2"), coords[2].Sample)
	assert.Equal(t, 0.56, coords[1].Coordinate.X)
	assert.Zero(t, coords[0].Coordinate.Z)
}

func TestSQLite_SaveCoordinates_CompletesRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "trees.json", "unit_grid", nil)
	require.NoError(t, err)

	require.NoError(t, st.SaveCoordinates(ctx, run.ID, testCoordinates()))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 3, got.SampleCount)
}

func TestSQLite_SaveCoordinates_Resave(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "trees.json", "unit_grid", nil)
	require.NoError(t, err)

	require.NoError(t, st.SaveCoordinates(ctx, run.ID, testCoordinates()))

	updated := testCoordinates()
	updated[0].Coordinate.X = 0.99
	require.NoError(t, st.SaveCoordinates(ctx, run.ID, updated))

	coords, err := st.GetCoordinates(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, coords, 3)
	assert.Equal(t, 0.99, coords[0].Coordinate.X)
}

func TestSQLite_SaveCoordinates_RunNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.SaveCoordinates(context.Background(), "nonexistent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_GetCoordinates_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	coords, err := st.GetCoordinates(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, coords)
}
