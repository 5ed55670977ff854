// Package engine wires the suggestion pipeline together: classify the
// activity, rank free slots against a snapshot of committed events,
// expand a chosen event into its recurring occurrences, and keep the
// reminder table in step with every create/edit/delete.
package engine

import (
	"context"
	"fmt"
	"time"

	"calassist/internal/classify"
	"calassist/internal/config"
	appLog "calassist/internal/log"
	"calassist/internal/model"
	"calassist/internal/recur"
	"calassist/internal/remind"
	"calassist/internal/slots"
	"calassist/internal/store"
)

// Engine is the application-facing facade over the scheduling core.
type Engine struct {
	cfg        *config.Config
	store      store.EventStore
	classifier *classify.Classifier
	generator  *slots.Generator
	reminders  *remind.Scheduler
}

// New assembles an Engine from its collaborators.
func New(cfg *config.Config, st store.EventStore, cl *classify.Classifier, rem *remind.Scheduler) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      st,
		classifier: cl,
		generator:  slots.New(cfg),
		reminders:  rem,
	}
}

// Suggestion is the combined result of one suggest cycle.
type Suggestion struct {
	Classification model.Classification
	Candidates     []model.SlotCandidate
}

// SuggestSlots classifies the activity and proposes ranked free windows
// starting at asOf. The slot duration comes from the preferred duration
// for the resolved category. An empty candidate list is a valid outcome.
func (e *Engine) SuggestSlots(ctx context.Context, title, description string, asOf time.Time) (Suggestion, error) {
	// Slot walks reason about wall-clock hours, so anchor the window in
	// the configured timezone.
	asOf = asOf.In(e.cfg.Location())

	cls, err := e.classifier.Classify(ctx, title, description, asOf)
	if err != nil {
		return Suggestion{}, err
	}

	existing, err := e.store.Snapshot(ctx)
	if err != nil {
		return Suggestion{}, fmt.Errorf("event snapshot: %w", err)
	}

	duration := e.cfg.PreferredDuration.Hobby
	if cls.Category == model.CategoryBusiness {
		duration = e.cfg.PreferredDuration.Business
	}

	window := e.generator.DefaultWindow(asOf)
	candidates, err := e.generator.Suggest(cls.Category, duration, existing, window)
	if err != nil {
		return Suggestion{}, err
	}

	appLog.Info("suggestion cycle completed",
		"title", title,
		"category", string(cls.Category),
		"source", string(cls.Source),
		"candidates", len(candidates))

	return Suggestion{Classification: cls, Candidates: candidates}, nil
}

// ScheduleEvent persists the event (and, when a rule is present, its
// full occurrence series) and registers one reminder per occurrence.
// Re-scheduling an existing id replaces its reminder rather than adding
// a second one.
func (e *Engine) ScheduleEvent(ctx context.Context, ev model.EventRecord, rule *model.RecurrenceRule) ([]model.EventRecord, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		return nil, fmt.Errorf("event has no id")
	}

	occurrences := []model.EventRecord{ev}
	if rule != nil {
		ev.Recurrence = rule
		var err error
		occurrences, err = recur.Expand(ev, *rule)
		if err != nil {
			return nil, err
		}
	}

	for _, occ := range occurrences {
		if err := e.store.Put(ctx, occ); err != nil {
			return nil, fmt.Errorf("persist %s: %w", occ.ID, err)
		}
		if err := e.reminders.Schedule(occ); err != nil {
			return nil, fmt.Errorf("reminder for %s: %w", occ.ID, err)
		}
	}

	appLog.Info("event scheduled",
		"id", ev.ID, "occurrences", len(occurrences), "recurring", rule != nil)
	return occurrences, nil
}

// CancelEvent deletes the event, cascades over its recurring children,
// and cancels every associated reminder.
func (e *Engine) CancelEvent(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("event id is empty")
	}

	snapshot, err := e.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("event snapshot: %w", err)
	}

	removed := 0
	for _, ev := range snapshot {
		if ev.ID == id || ev.ParentID == id {
			if err := e.store.Delete(ctx, ev.ID); err != nil {
				return fmt.Errorf("delete %s: %w", ev.ID, err)
			}
			removed++
		}
	}

	// Reminder cascade covers children through their ParentID even if
	// the store had already lost them.
	e.reminders.Cancel(id)

	appLog.Info("event cancelled", "id", id, "removed", removed)
	return nil
}
