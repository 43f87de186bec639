package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/seqgeo/argplace/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	crs          TEXT NOT NULL,
	seed         INTEGER,
	sample_count INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'running',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sample_coordinates (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	sample   TEXT NOT NULL,
	position INTEGER NOT NULL,
	x        REAL NOT NULL,
	y        REAL NOT NULL,
	z        REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, sample)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_crs ON runs(crs);
CREATE INDEX IF NOT EXISTS idx_sample_coordinates_run_id ON sample_coordinates(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, source string, crs string, seed *int64) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var seedVal sql.NullInt64
	if seed != nil {
		seedVal = sql.NullInt64{Int64: *seed, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, crs, seed, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, source, crs, seedVal, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
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

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, crs, seed, sample_count, status, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, crs, seed, sample_count, status, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.CRS != "" {
		query += ` AND crs = ?`
		args = append(args, filter.CRS)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveCoordinates(ctx context.Context, runID string, coords []model.SampleCoordinate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save coordinates")
	}
	defer tx.Rollback()

	for i, c := range coords {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO sample_coordinates (run_id, sample, position, x, y, z) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, string(c.Sample), i, c.Coordinate.X, c.Coordinate.Y, c.Coordinate.Z,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert coordinate for run %s", runID)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, sample_count = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), len(coords), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	if err := checkRowsAffected(res, "run", runID); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit save coordinates")
}

func (s *SQLiteStore) GetCoordinates(ctx context.Context, runID string) ([]model.SampleCoordinate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sample, x, y, z FROM sample_coordinates WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get coordinates for run %s", runID)
	}
	defer rows.Close()

	var coords []model.SampleCoordinate
	for rows.Next() {
		var sc model.SampleCoordinate
		var sample string
		if err := rows.Scan(&sample, &sc.Coordinate.X, &sc.Coordinate.Y, &sc.Coordinate.Z); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan coordinate")
		}
		sc.Sample = model.Sample(sample)
		coords = append(coords, sc)
	}
	return coords, eris.Wrap(rows.Err(), "sqlite: get coordinates iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var seed sql.NullInt64

	err := row.Scan(&r.ID, &r.Source, &r.CRS, &seed, &r.SampleCount, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if seed.Valid {
		v := seed.Int64
		r.Seed = &v
	}
	return &r, nil
}
