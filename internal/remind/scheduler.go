// Package remind owns the mapping from event occurrences to scheduled
// notifications. The handle table is an explicit injected instance, not
// ambient global state; all mutations for one event id happen under the
// table lock so the at-most-one-live-reminder invariant holds even off
// the UI loop.
package remind

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	appLog "calassist/internal/log"
	"calassist/internal/model"
)

// HandleState is the lifecycle of one reminder handle. Both Fired and
// Cancelled are terminal; a missed fire is never replayed.
type HandleState string

const (
	StateScheduled HandleState = "scheduled"
	StateFired     HandleState = "fired"
	StateCancelled HandleState = "cancelled"
)

// Handle links one concrete event occurrence to its pending notification.
type Handle struct {
	ID       string // surface-facing handle id
	EventID  string
	ParentID string
	FiresAt  time.Time
	State    HandleState
}

// Live reports whether the handle still awaits its fire time.
func (h *Handle) Live() bool {
	return h.State == StateScheduled
}

// Notifier is the desktop notification surface. It accepts a future
// notification and can cancel it by handle id.
type Notifier interface {
	Schedule(handleID, title, body string, firesAt time.Time) error
	Cancel(handleID string) error
}

// Scheduler keeps the process-wide table of live reminder handles.
type Scheduler struct {
	notifier Notifier
	lead     time.Duration

	// now is swappable for tests.
	now func() time.Time

	mu      sync.Mutex
	byEvent map[string]*Handle

	cron *cron.Cron
}

// NewScheduler builds a Scheduler delivering through the given surface,
// firing each reminder lead before its event start.
func NewScheduler(notifier Notifier, lead time.Duration) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		lead:     lead,
		now:      time.Now,
		byEvent:  make(map[string]*Handle),
	}
}

// Schedule registers a notification for the event at start − lead.
//
//   - An existing live reminder for the same event id is cancelled
//     first, so at most one stays live per id.
//   - A fire time already in the past is skipped silently (logged only).
func (s *Scheduler) Schedule(ev model.EventRecord) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.ID == "" {
		return fmt.Errorf("event has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelEventLocked(ev.ID)

	firesAt := ev.Interval.Start.Add(-s.lead)
	if !firesAt.After(s.now()) {
		appLog.Debug("reminder fire time already past, skipping",
			"event_id", ev.ID, "fires_at", firesAt.Format(time.RFC3339))
		return nil
	}

	h := &Handle{
		ID:       uuid.NewString(),
		EventID:  ev.ID,
		ParentID: ev.ParentID,
		FiresAt:  firesAt,
		State:    StateScheduled,
	}

	if err := s.notifier.Schedule(h.ID, ev.Title, reminderBody(ev), firesAt); err != nil {
		return fmt.Errorf("schedule notification: %w", err)
	}

	s.byEvent[ev.ID] = h
	appLog.Debug("reminder scheduled",
		"event_id", ev.ID, "fires_at", firesAt.Format(time.RFC3339))
	return nil
}

// Cancel invalidates every live reminder whose event id equals eventID,
// or whose owning event's parent id equals eventID. Cancelling by a base
// event id therefore takes its recurring children down with it.
func (s *Scheduler) Cancel(eventID string) {
	if eventID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelEventLocked(eventID)
	for id, h := range s.byEvent {
		if h.ParentID == eventID {
			s.cancelHandleLocked(id, h)
		}
	}
}

// Live returns the number of live handles. Intended for diagnostics.
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, h := range s.byEvent {
		if h.Live() {
			n++
		}
	}
	return n
}

// LiveHandle returns a copy of the live handle for an event id, if any.
func (s *Scheduler) LiveHandle(eventID string) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.byEvent[eventID]
	if !ok || !h.Live() {
		return Handle{}, false
	}
	return *h, true
}

func (s *Scheduler) cancelEventLocked(eventID string) {
	if h, ok := s.byEvent[eventID]; ok {
		s.cancelHandleLocked(eventID, h)
	}
}

func (s *Scheduler) cancelHandleLocked(eventID string, h *Handle) {
	if h.Live() {
		if err := s.notifier.Cancel(h.ID); err != nil {
			appLog.Warn("notification cancel failed",
				"event_id", eventID, "handle_id", h.ID, "reason", err.Error())
		}
		h.State = StateCancelled
	}
	delete(s.byEvent, eventID)
}

func reminderBody(ev model.EventRecord) string {
	return fmt.Sprintf("Starts at %s", ev.Interval.Start.Format("15:04"))
}
