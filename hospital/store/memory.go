// Package store provides in-memory SnapshotStore and EventLog implementations.
package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/warp/bed-engine/hospital"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]hospital.Snapshot
	order     []string
	events    []hospital.Event
	eventIDs  map[string]bool
}

var (
	_ hospital.SnapshotStore = (*Memory)(nil)
	_ hospital.EventLog      = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]hospital.Snapshot),
		eventIDs:  make(map[string]bool),
	}
}

// SaveSnapshot inserts or replaces a snapshot. CreatedAt of an existing
// snapshot is preserved.
func (m *Memory) SaveSnapshot(_ context.Context, s hospital.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Layout = slices.Clone(s.Layout)
	if prev, ok := m.snapshots[s.ID]; ok {
		s.CreatedAt = prev.CreatedAt
	} else {
		m.order = append(m.order, s.ID)
	}
	m.snapshots[s.ID] = s
	return nil
}

func (m *Memory) GetSnapshot(_ context.Context, id string) (*hospital.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	s.Layout = slices.Clone(s.Layout)
	return &s, nil
}

func (m *Memory) ListSnapshots(_ context.Context) ([]hospital.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]hospital.Snapshot, 0, len(m.order))
	for _, id := range m.order {
		s := m.snapshots[id]
		s.Layout = slices.Clone(s.Layout)
		result = append(result, s)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Append adds a single event. Append-only.
func (m *Memory) Append(_ context.Context, e hospital.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.eventIDs[e.ID] {
		return hospital.ErrDuplicateEvent
	}
	m.appendLocked(e)
	return nil
}

// AppendBatch adds multiple events atomically.
func (m *Memory) AppendBatch(_ context.Context, es []hospital.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all IDs first (atomic check)
	seen := make(map[string]bool, len(es))
	for _, e := range es {
		if m.eventIDs[e.ID] || seen[e.ID] {
			return hospital.ErrDuplicateEvent
		}
		seen[e.ID] = true
	}
	for _, e := range es {
		m.appendLocked(e)
	}
	return nil
}

func (m *Memory) appendLocked(e hospital.Event) {
	// Keep events ordered by CreatedAt; equal timestamps keep arrival order.
	i := sort.Search(len(m.events), func(i int) bool {
		return m.events[i].CreatedAt.After(e.CreatedAt)
	})
	m.events = slices.Insert(m.events, i, e)
	m.eventIDs[e.ID] = true
}

// Query returns matching events oldest first.
func (m *Memory) Query(_ context.Context, f hospital.EventFilter) ([]hospital.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []hospital.Event
	for _, e := range m.events {
		if !f.Matches(e) {
			continue
		}
		result = append(result, e)
		if f.Limit > 0 && len(result) == f.Limit {
			break
		}
	}
	return result, nil
}
