/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements hospital.SnapshotStore and hospital.EventLog using SQLite, so a
  server restart keeps its hospitals (layout plus current occupants) and the
  record of admissions, discharges and applied plans.

INTERFACES IMPLEMENTED:
  hospital.SnapshotStore: Whole-hospital layout snapshots
  hospital.EventLog:      Append-only occupancy events

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the events table
  - No DELETE statements on the events table
  - A reused event ID is rejected with hospital.ErrDuplicateEvent

KEY TABLES:
  hospitals: One row per hospital, layout stored as JSON text
  events:    Immutable log of admit/discharge/plan_applied events

TIMESTAMPS:
  Stored as fixed-width UTC strings with nanoseconds, so lexical order is
  chronological order and ORDER BY created_at needs no parsing.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/beds.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - hospital/store.go: Interface definitions
  - hospital/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/bed-engine/hospital"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements hospital.SnapshotStore and hospital.EventLog.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ hospital.SnapshotStore = (*Store)(nil)
	_ hospital.EventLog      = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Hospitals (latest layout snapshot per hospital)
	CREATE TABLE IF NOT EXISTS hospitals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		layout_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Events (append-only)
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		hospital_id TEXT NOT NULL REFERENCES hospitals(id),
		event_type TEXT NOT NULL,
		patient TEXT,
		bed TEXT,
		score_delta REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Per-hospital history (hot path for the events endpoint)
	CREATE INDEX IF NOT EXISTS idx_events_hospital_created
		ON events(hospital_id, created_at);

	-- For event type filtering
	CREATE INDEX IF NOT EXISTS idx_events_type
		ON events(event_type);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT STORE (hospital.SnapshotStore interface)
// =============================================================================

// SaveSnapshot inserts or replaces a hospital snapshot. created_at of an
// existing row is kept.
func (s *Store) SaveSnapshot(ctx context.Context, snap hospital.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO hospitals (id, name, layout_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			layout_json = excluded.layout_json,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	created, updated := snap.CreatedAt, snap.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}

	_, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.Name, string(snap.Layout), formatTime(created), formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by ID. Returns nil, nil if absent.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*hospital.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, layout_json, created_at, updated_at FROM hospitals WHERE id = ?",
		id,
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots returns all snapshots, oldest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]hospital.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, layout_json, created_at, updated_at FROM hospitals ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []hospital.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (hospital.Snapshot, error) {
	var (
		snap                 hospital.Snapshot
		layout               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&snap.ID, &snap.Name, &layout, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snap, err
		}
		return snap, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	snap.Layout = []byte(layout)
	snap.CreatedAt = parseTime(createdAt)
	snap.UpdatedAt = parseTime(updatedAt)
	return snap, nil
}

// =============================================================================
// EVENT LOG (hospital.EventLog interface)
// =============================================================================

// Append adds an event to the log.
func (s *Store) Append(ctx context.Context, e hospital.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendEvent(ctx, s.db, e)
}

func (s *Store) appendEvent(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, e hospital.Event) error {
	query := `
		INSERT INTO events (id, hospital_id, event_type, patient, bed, score_delta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.HospitalID,
		string(e.Type),
		nullString(e.Patient),
		nullString(e.Bed),
		e.ScoreDelta,
		formatTime(createdAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", hospital.ErrDuplicateEvent, e.ID)
		}
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// AppendBatch adds multiple events atomically.
func (s *Store) AppendBatch(ctx context.Context, es []hospital.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for duplicate IDs within the batch first
	ids := make(map[string]bool, len(es))
	for _, e := range es {
		if ids[e.ID] {
			return fmt.Errorf("%w: %s", hospital.ErrDuplicateEvent, e.ID)
		}
		ids[e.ID] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range es {
		if err := s.appendEvent(ctx, tx, e); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Query returns events matching f, oldest first.
func (s *Store) Query(ctx context.Context, f hospital.EventFilter) ([]hospital.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if f.HospitalID != "" {
		where = append(where, "hospital_id = ?")
		args = append(args, f.HospitalID)
	}
	if len(f.Types) > 0 {
		marks := make([]string, len(f.Types))
		for i, t := range f.Types {
			marks[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "event_type IN ("+strings.Join(marks, ", ")+")")
	}
	if f.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(*f.To))
	}

	query := `
		SELECT id, hospital_id, event_type, patient, bed, score_delta, created_at
		FROM events
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, rowid ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []hospital.Event
	for rows.Next() {
		var (
			e            hospital.Event
			eventType    string
			patient, bed sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&e.ID, &e.HospitalID, &eventType, &patient, &bed, &e.ScoreDelta, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = hospital.EventType(eventType)
		e.Patient = patient.String
		e.Bed = bed.String
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Reset deletes all data. Test use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM events; DELETE FROM hospitals;")
	return err
}

// Helper functions

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}
