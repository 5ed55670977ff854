package store

import (
	"context"
	"sort"
	"sync"

	"calassist/internal/model"
)

// Memory is a mutex-guarded in-memory EventStore. It backs the demo
// binary and the test suite.
type Memory struct {
	mu     sync.RWMutex
	events map[string]model.EventRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]model.EventRecord)}
}

func (m *Memory) Get(_ context.Context, id string) (model.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ev, ok := m.events[id]
	if !ok {
		return model.EventRecord{}, ErrNotFound
	}
	return ev.Clone(), nil
}

func (m *Memory) Put(_ context.Context, ev model.EventRecord) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = ev.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

// Snapshot returns all events ordered by start time. The slice and its
// records are copies; mutating them cannot touch store state.
func (m *Memory) Snapshot(_ context.Context) ([]model.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.EventRecord, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval.Start.Before(out[j].Interval.Start)
	})
	return out, nil
}
