package remind

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "calassist/internal/log"
)

// The notification surface owns actual delivery at the fire time; this
// sweep only does table bookkeeping, moving past-due handles to Fired
// and dropping terminal entries so the table stays bounded.

const defaultSweepSpec = "@every 1m"

// Start launches the background sweep on the given cron spec (empty
// means every minute). Safe to call once per Scheduler.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = defaultSweepSpec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("reminder sweep already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return fmt.Errorf("reminder sweep spec %q: %w", spec, err)
	}

	s.cron = c
	c.Start()

	appLog.Info("reminder sweep started", "spec", spec)
	return nil
}

// Stop halts the background sweep. Pending handles stay in the table.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		ctx := c.Stop()
		<-ctx.Done()
		appLog.Info("reminder sweep stopped")
	}
}

// Sweep transitions every past-due Scheduled handle to Fired and prunes
// terminal entries. Exposed so tests and single-shot runs can drive it
// without the cron loop.
func (s *Scheduler) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, h := range s.byEvent {
		if h.Live() && !h.FiresAt.After(now) {
			h.State = StateFired
			appLog.Debug("reminder fired",
				"event_id", h.EventID, "fires_at", h.FiresAt.Format(time.RFC3339))
		}
		if !h.Live() {
			delete(s.byEvent, id)
		}
	}
}
