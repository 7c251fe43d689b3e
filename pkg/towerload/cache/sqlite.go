package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps reference loads in a SQLite database, one row per
// (reference, series, site).
type SQLiteStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLiteStore returns a store over db. Call Migrate before first use.
func NewSQLiteStore(db *sql.DB, clock clockwork.Clock) *SQLiteStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SQLiteStore{db: db, clock: clock}
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// The caller closes the returned store.
func OpenSQLite(ctx context.Context, path string, clock clockwork.Clock) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	s := NewSQLiteStore(db, clock)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the cache table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reference_loads (
			name TEXT NOT NULL,
			series TEXT NOT NULL,
			seq INTEGER NOT NULL,
			label TEXT NOT NULL,
			value REAL NOT NULL,
			computed_at TEXT NOT NULL,
			PRIMARY KEY (name, series, seq)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating reference_loads table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Lookup(ctx context.Context, name string) (models.ReferenceLoads, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT series, label, value FROM reference_loads
		WHERE name = ?
		ORDER BY series, seq
	`, name)
	if err != nil {
		return models.ReferenceLoads{}, false, fmt.Errorf("query reference %s: %w", name, err)
	}
	defer rows.Close()

	var loads models.ReferenceLoads
	found := false
	for rows.Next() {
		var series, label string
		var value float64
		if err := rows.Scan(&series, &label, &value); err != nil {
			return loads, false, err
		}
		found = true
		switch models.LoadKind(series) {
		case models.Ultimate:
			loads.UL.Add(label, value)
		case models.Fatigue:
			loads.FL.Add(label, value)
		}
	}
	if err := rows.Err(); err != nil {
		return loads, false, err
	}
	if !found {
		return models.ReferenceLoads{}, false, nil
	}
	return named(name, loads), true, nil
}

func (s *SQLiteStore) Store(ctx context.Context, loads models.ReferenceLoads) error {
	if loads.Name == "" {
		return fmt.Errorf("invalid reference name %q", loads.Name)
	}
	now := s.clock.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_loads WHERE name = ?`, loads.Name); err != nil {
		return fmt.Errorf("replace reference %s: %w", loads.Name, err)
	}
	for _, ser := range []struct {
		kind   models.LoadKind
		series models.LoadSeries
	}{{models.Ultimate, loads.UL}, {models.Fatigue, loads.FL}} {
		for i, e := range ser.series.Entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reference_loads (name, series, seq, label, value, computed_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, loads.Name, string(ser.kind), i, e.Label, e.Value, now)
			if err != nil {
				return fmt.Errorf("store reference %s: %w", loads.Name, err)
			}
		}
	}
	return tx.Commit()
}

// List returns the cached references ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*), MAX(computed_at) FROM reference_loads
		WHERE series = ?
		GROUP BY name
		ORDER BY name
	`, string(models.Ultimate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.Name, &e.Sites, &at); err != nil {
			return nil, err
		}
		e.ComputedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes every cached reference and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT name) FROM reference_loads`).Scan(&n); err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reference_loads`); err != nil {
		return 0, err
	}
	return n, nil
}
