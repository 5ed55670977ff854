package remind

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calassist/internal/model"
)

// fakeSurface records what the scheduler asks the notification surface
// to do.
type fakeSurface struct {
	mu        sync.Mutex
	scheduled map[string]time.Time // handle id -> fires at
	cancelled []string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{scheduled: make(map[string]time.Time)}
}

func (f *fakeSurface) Schedule(handleID, _, _ string, firesAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[handleID] = firesAt
	return nil
}

func (f *fakeSurface) Cancel(handleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, handleID)
	return nil
}

func (f *fakeSurface) cancelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cancelled)
}

var testNow = time.Date(2026, time.September, 7, 8, 0, 0, 0, time.UTC)

func testScheduler(surface *fakeSurface) *Scheduler {
	s := NewScheduler(surface, 15*time.Minute)
	s.now = func() time.Time { return testNow }
	return s
}

func event(id, parentID string, start time.Time) model.EventRecord {
	return model.EventRecord{
		ID:       id,
		Title:    "Standup",
		ParentID: parentID,
		Interval: model.TimeInterval{Start: start, End: start.Add(30 * time.Minute)},
	}
}

func TestScheduleCreatesLiveHandle(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	ev := event("ev-1", "", testNow.Add(2*time.Hour))
	require.NoError(t, s.Schedule(ev))

	h, ok := s.LiveHandle("ev-1")
	require.True(t, ok)
	assert.Equal(t, StateScheduled, h.State)
	assert.True(t, h.FiresAt.Equal(ev.Interval.Start.Add(-15*time.Minute)))
	assert.Equal(t, 1, s.Live())
}

func TestScheduleTwiceLeavesOneLiveHandle(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	ev := event("ev-1", "", testNow.Add(2*time.Hour))
	require.NoError(t, s.Schedule(ev))
	first, _ := s.LiveHandle("ev-1")

	// Edited event: new start, same id.
	ev.Interval.Start = testNow.Add(4 * time.Hour)
	ev.Interval.End = ev.Interval.Start.Add(30 * time.Minute)
	require.NoError(t, s.Schedule(ev))

	assert.Equal(t, 1, s.Live())
	second, ok := s.LiveHandle("ev-1")
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)

	// The old surface notification was cancelled before the new one
	// was created.
	assert.Equal(t, 1, surface.cancelCount())
	assert.Equal(t, first.ID, surface.cancelled[0])
}

func TestSchedulePastFireTimeSkipped(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	// Starts in 10 minutes; with a 15-minute lead the fire time is
	// already gone.
	ev := event("ev-1", "", testNow.Add(10*time.Minute))
	require.NoError(t, s.Schedule(ev))

	assert.Equal(t, 0, s.Live())
	assert.Empty(t, surface.scheduled)
}

func TestCancelByEventID(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	require.NoError(t, s.Schedule(event("ev-1", "", testNow.Add(2*time.Hour))))
	require.NoError(t, s.Schedule(event("ev-2", "", testNow.Add(3*time.Hour))))

	s.Cancel("ev-1")

	_, ok := s.LiveHandle("ev-1")
	assert.False(t, ok)
	_, ok = s.LiveHandle("ev-2")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Live())
}

func TestCancelByParentCascades(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	require.NoError(t, s.Schedule(event("ev-1", "", testNow.Add(2*time.Hour))))
	require.NoError(t, s.Schedule(event("ev-1-rec-1", "ev-1", testNow.Add(24*time.Hour))))
	require.NoError(t, s.Schedule(event("ev-1-rec-2", "ev-1", testNow.Add(48*time.Hour))))
	require.NoError(t, s.Schedule(event("other", "", testNow.Add(2*time.Hour))))
	require.Equal(t, 4, s.Live())

	s.Cancel("ev-1")

	assert.Equal(t, 1, s.Live())
	_, ok := s.LiveHandle("other")
	assert.True(t, ok)
	assert.Equal(t, 3, surface.cancelCount())
}

func TestCancelUnknownIDIsNoop(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	s.Cancel("ghost")
	s.Cancel("")

	assert.Equal(t, 0, surface.cancelCount())
}

func TestSweepFiresDueHandles(t *testing.T) {
	surface := newFakeSurface()
	s := testScheduler(surface)

	require.NoError(t, s.Schedule(event("due", "", testNow.Add(time.Hour))))
	require.NoError(t, s.Schedule(event("later", "", testNow.Add(48*time.Hour))))

	// Move the clock past the first fire time.
	s.now = func() time.Time { return testNow.Add(time.Hour) }
	s.Sweep()

	// Fired is terminal: the handle is gone, not rescheduled.
	_, ok := s.LiveHandle("due")
	assert.False(t, ok)
	_, ok = s.LiveHandle("later")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Live())

	// Firing is not a cancel; the surface keeps ownership of delivery.
	assert.Equal(t, 0, surface.cancelCount())
}

func TestScheduleValidatesEvent(t *testing.T) {
	s := testScheduler(newFakeSurface())

	bad := event("", "", testNow.Add(2*time.Hour))
	assert.Error(t, s.Schedule(bad))

	noTitle := event("ev-1", "", testNow.Add(2*time.Hour))
	noTitle.Title = ""
	assert.ErrorIs(t, s.Schedule(noTitle), model.ErrEmptyTitle)
}
