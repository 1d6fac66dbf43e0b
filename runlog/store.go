package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_ns INTEGER NOT NULL,
	source     TEXT NOT NULL,
	backend    TEXT NOT NULL,
	charts     INTEGER NOT NULL,
	segments   INTEGER NOT NULL,
	clusters   INTEGER NOT NULL,
	attempts   INTEGER NOT NULL,
	gap        REAL NOT NULL,
	objective  REAL NOT NULL,
	report     TEXT NOT NULL,
	stats      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_ns);
`

const selectRun = `SELECT id, started_ns, source, backend, charts, segments, clusters, attempts,
	gap, objective, report, stats FROM runs`

// Store is a run log backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run log at dsn and migrates its schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "runlog: open %s", dsn)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err = s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	klog.V(2).Infof("runlog: opened %s", dsn)

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "runlog: create schema")
	}
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return errors.Wrap(err, "runlog: read schema version")
	}
	if version > schemaVersion {
		return errors.Errorf("runlog: schema version %d is newer than %d", version, schemaVersion)
	}
	if version < schemaVersion {
		if _, err = s.db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return errors.Wrap(err, "runlog: write schema version")
		}
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts r.
func (s *Store) Record(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(id, started_ns, source, backend, charts, segments, clusters, attempts, gap, objective, report, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Started.UnixNano(), r.Source, r.Backend, r.Charts, r.Segments, r.Clusters,
		r.Attempts, r.Gap, r.Objective, string(r.Report), string(r.Stats))

	return errors.Wrapf(err, "runlog: record %s", r.ID)
}

// List returns up to limit runs, newest first. limit <= 0 lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY started_ns DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "runlog: list")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, errors.Wrap(rows.Err(), "runlog: list")
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	r, err := scan(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrNotFound, "%s", id)
	}

	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(sc scanner) (Run, error) {
	var (
		r             Run
		id            string
		started       int64
		report, stats string
	)
	err := sc.Scan(&id, &started, &r.Source, &r.Backend, &r.Charts, &r.Segments, &r.Clusters,
		&r.Attempts, &r.Gap, &r.Objective, &report, &stats)
	if err != nil {
		return Run{}, errors.Wrap(err, "runlog: scan")
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return Run{}, errors.Wrapf(err, "runlog: run id %q", id)
	}
	r.Started = time.Unix(0, started)
	r.Report, r.Stats = []byte(report), []byte(stats)

	return r, nil
}
