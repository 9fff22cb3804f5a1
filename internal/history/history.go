// Package history keeps a ledger of renders in a SQLite database.
//
// Each render, successful or not, is one row in the renders table: the full
// configuration, the output path, the wall time and the outcome. The schema
// is managed by embedded migrations applied on Open.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"

	"github.com/gogpu/multibrot"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "multibrot.db"

// timeLayout sorts lexically in time order for UTC times.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// busyTimeout is how long a writer waits for a lock, in milliseconds.
const busyTimeout = 5000

// Render outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ErrClosed is returned by a Store after Close.
var ErrClosed = errors.New("history: store is closed")

// Entry is one recorded render.
type Entry struct {
	ID        uuid.UUID
	StartedAt time.Time
	Config    multibrot.Config
	Output    string
	Duration  time.Duration
	Status    string
	Error     string
}

// NewEntry describes a render of cfg that started at start, took d and
// ended with err.
func NewEntry(cfg multibrot.Config, output string, start time.Time, d time.Duration, err error) Entry {
	e := Entry{
		ID:        uuid.New(),
		StartedAt: start,
		Config:    cfg,
		Output:    output,
		Duration:  d,
		Status:    StatusOK,
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
	}
	return e
}

// Store is an open history database.
//
// Thread safety: Record and Recent are safe for concurrent use; SQLite
// serializes writes. Close must not race with them.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies pending
// migrations. Parent directories are created as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	mdb, err := connect(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(mdb); err != nil {
		return nil, err
	}

	db, err := connect(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// connect opens one SQLite connection pool with WAL journaling.
func connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: %s: %w", p, err)
		}
	}
	return db, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Version returns the applied schema version.
func (s *Store) Version(ctx context.Context) (uint, error) {
	db, err := connect(ctx, s.path)
	if err != nil {
		return 0, err
	}
	v, dirty, err := schemaVersion(db)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("history: schema version %d is dirty", v)
	}
	return v, nil
}

// Record appends e.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s.db == nil {
		return ErrClosed
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = StatusOK
	}

	c := e.Config
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (
			id, started_at, width, height, scale, center_re, center_im,
			exponent_re, exponent_im, workers, depth, bit_depth, branch_cut,
			shape, output, duration_ms, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.StartedAt.UTC().Format(timeLayout),
		c.Width, c.Height, c.Scale, real(c.Center), imag(c.Center),
		real(c.Exponent), imag(c.Exponent), c.Workers, c.Depth, int(c.BitDepth),
		c.BranchCut.String(), c.Shape, e.Output, e.Duration.Milliseconds(),
		e.Status, e.Error,
	)
	if err != nil {
		return fmt.Errorf("history: record render: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, width, height, scale, center_re, center_im,
		       exponent_re, exponent_im, workers, depth, bit_depth, branch_cut,
		       shape, output, duration_ms, status, error
		FROM renders
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query renders: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: read renders: %w", err)
	}
	return out, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                    Entry
		id, started, cut     string
		cre, cim, ere, eim   float64
		bitDepth, durationMS int64
	)
	c := &e.Config
	err := rows.Scan(&id, &started, &c.Width, &c.Height, &c.Scale, &cre, &cim,
		&ere, &eim, &c.Workers, &c.Depth, &bitDepth, &cut,
		&c.Shape, &e.Output, &durationMS, &e.Status, &e.Error)
	if err != nil {
		return Entry{}, fmt.Errorf("history: scan render: %w", err)
	}

	if e.ID, err = uuid.Parse(id); err != nil {
		return Entry{}, fmt.Errorf("history: render id %q: %w", id, err)
	}
	if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Entry{}, fmt.Errorf("history: render time %q: %w", started, err)
	}
	if c.BranchCut, err = multibrot.ParseBranchCut(cut); err != nil {
		return Entry{}, err
	}
	c.Center = complex(cre, cim)
	c.Exponent = complex(ere, eim)
	c.BitDepth = multibrot.BitDepth(bitDepth)
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return e, nil
}

// Close closes the database. Record and Recent return ErrClosed afterwards.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
