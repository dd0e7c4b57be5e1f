/*
store.go - Persistence interfaces for hospital snapshots and events

PURPOSE:
  Defines the boundary between the in-process model and durable storage.
  The model itself only needs deep-copy semantics; persisting a hospital
  across process restarts and keeping a record of what was admitted where
  are collaborator concerns expressed by these interfaces.

KEY INTERFACES:
  SnapshotStore: whole-hospital layout snapshots (upsert by ID)
  EventLog:      admission/discharge/plan events (append-only)

SNAPSHOT FORMAT:
  Snapshot.Layout is an opaque encoded layout produced by package factory
  (JSON including current occupants and their length of stay). Stores do
  not interpret it.

APPEND-ONLY CONTRACT:
  EventLog has no Update or Delete. AppendBatch is all-or-nothing. An
  event whose ID already exists is rejected with ErrDuplicateEvent.

IMPLEMENTATIONS:
  - hospital/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go: SQLite
*/
package hospital

import (
	"context"
	"time"
)

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Snapshot is a persisted hospital layout.
type Snapshot struct {
	ID        string
	Name      string
	Layout    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SnapshotStore persists hospital snapshots.
type SnapshotStore interface {
	// SaveSnapshot inserts or replaces the snapshot with s.ID.
	SaveSnapshot(ctx context.Context, s Snapshot) error

	// GetSnapshot returns nil, nil when no snapshot has the ID.
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)

	// ListSnapshots returns every snapshot ordered by creation time.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
}

// =============================================================================
// EVENTS
// =============================================================================

type EventType string

const (
	EventAdmit       EventType = "admit"
	EventDischarge   EventType = "discharge"
	EventPlanApplied EventType = "plan_applied"
)

// Event records one change to a live hospital.
type Event struct {
	ID         string
	HospitalID string
	Type       EventType
	Patient    string
	Bed        string
	ScoreDelta float64
	CreatedAt  time.Time
}

// EventFilter narrows an EventLog query. Zero fields match everything.
type EventFilter struct {
	HospitalID string
	Types      []EventType
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Matches reports whether e passes the filter (ignoring Limit).
func (f EventFilter) Matches(e Event) bool {
	if f.HospitalID != "" && e.HospitalID != f.HospitalID {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == e.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// EventLog stores events. Append-only.
type EventLog interface {
	Append(ctx context.Context, e Event) error
	AppendBatch(ctx context.Context, es []Event) error
	Query(ctx context.Context, f EventFilter) ([]Event, error)
}
