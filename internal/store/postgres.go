package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/seqgeo/argplace/internal/db"
	"github.com/seqgeo/argplace/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":        `INSERT INTO runs (id, source, crs, seed, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"update_run_status": `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"get_run":           `SELECT id, source, crs, seed, sample_count, status, created_at, updated_at FROM runs WHERE id = $1`,
	"complete_run":      `UPDATE runs SET status = $1, sample_count = $2, updated_at = $3 WHERE id = $4`,
	"get_coordinates":   `SELECT sample, x, y, z FROM sample_coordinates WHERE run_id = $1 ORDER BY position`,
}

// NewPostgres connects to PostgreSQL and returns a PostgresStore.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source       TEXT NOT NULL,
	crs          TEXT NOT NULL,
	seed         BIGINT,
	sample_count INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'running',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sample_coordinates (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	sample   TEXT NOT NULL,
	position INTEGER NOT NULL,
	x        DOUBLE PRECISION NOT NULL,
	y        DOUBLE PRECISION NOT NULL,
	z        DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, sample)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_crs ON runs(crs);
CREATE INDEX IF NOT EXISTS idx_sample_coordinates_run_id ON sample_coordinates(run_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string, crs string, seed *int64) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, crs, seed, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, source, crs, seed, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		CRS:       crs,
		Seed:      seed,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, crs, seed, sample_count, status, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)

	var r model.Run
	err := row.Scan(&r.ID, &r.Source, &r.CRS, &r.Seed, &r.SampleCount, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: get run %s: not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, crs, seed, sample_count, status, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.CRS != "" {
		args = append(args, filter.CRS)
		query += ` AND crs = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Source, &r.CRS, &r.Seed, &r.SampleCount, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

var coordinateColumns = []string{"run_id", "sample", "position", "x", "y", "z"}

func (s *PostgresStore) SaveCoordinates(ctx context.Context, runID string, coords []model.SampleCoordinate) error {
	rows := make([][]any, len(coords))
	for i, c := range coords {
		rows[i] = []any{runID, string(c.Sample), i, c.Coordinate.X, c.Coordinate.Y, c.Coordinate.Z}
	}

	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "sample_coordinates",
		Columns:      coordinateColumns,
		ConflictKeys: []string{"run_id", "sample"},
	}, rows); err != nil {
		return eris.Wrapf(err, "postgres: save coordinates for run %s", runID)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, sample_count = $2, updated_at = $3 WHERE id = $4`,
		string(model.RunStatusComplete), len(coords), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetCoordinates(ctx context.Context, runID string) ([]model.SampleCoordinate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sample, x, y, z FROM sample_coordinates WHERE run_id = $1 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get coordinates for run %s", runID)
	}
	defer rows.Close()

	var coords []model.SampleCoordinate
	for rows.Next() {
		var sc model.SampleCoordinate
		var sample string
		if err := rows.Scan(&sample, &sc.Coordinate.X, &sc.Coordinate.Y, &sc.Coordinate.Z); err != nil {
			return nil, eris.Wrap(err, "postgres: scan coordinate")
		}
		sc.Sample = model.Sample(sample)
		coords = append(coords, sc)
	}
	return coords, eris.Wrap(rows.Err(), "postgres: get coordinates iterate")
}

