// Package store defines the event-store collaborator contract consumed
// by the engine, plus an in-memory implementation. Real persistence
// lives in the surrounding application; the engine only ever needs CRUD
// by id and snapshots of committed events.
package store

import (
	"context"
	"errors"

	"calassist/internal/model"
)

// ErrNotFound is returned when no event exists for an id.
var ErrNotFound = errors.New("event not found")

// EventStore is the external persistence collaborator.
type EventStore interface {
	// Get returns the event for id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.EventRecord, error)
	// Put inserts or replaces an event keyed by its ID.
	Put(ctx context.Context, ev model.EventRecord) error
	// Delete removes an event. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// Snapshot returns a copy of all committed events. Callers may
	// freely hand the result to the slot generator.
	Snapshot(ctx context.Context) ([]model.EventRecord, error)
}
