// Package slots enumerates and ranks candidate time windows for a new
// event. Candidates honor a category-specific allowed-hours mask and
// never collide with already-committed events; ranking is a greedy
// heuristic, not a global optimum.
package slots

import (
	"sort"
	"time"

	"calassist/internal/config"
	appLog "calassist/internal/log"
	"calassist/internal/model"
)

// SearchWindow bounds the walk over candidate start times.
type SearchWindow struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the window covers no time at all.
func (w SearchWindow) Empty() bool {
	return !w.Start.Before(w.End)
}

// Generator proposes ranked slot candidates from the preferences it was
// built with.
type Generator struct {
	cfg *config.Config
}

// New builds a Generator over the given read-only preferences.
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// DefaultWindow returns the configured search window starting at from.
func (g *Generator) DefaultWindow(from time.Time) SearchWindow {
	return SearchWindow{
		Start: from,
		End:   from.AddDate(0, 0, g.cfg.Suggestions.SearchDays),
	}
}

// Suggest walks the search window at the configured granularity and
// returns up to MaxResults non-conflicting candidates, best first. An
// empty result is a valid outcome, never an error; if the first walk
// finds nothing the window is doubled once before giving up.
//
// The existing slice is only read, never mutated.
func (g *Generator) Suggest(category model.Category, durationMinutes int, existing []model.EventRecord, window SearchWindow) ([]model.SlotCandidate, error) {
	if durationMinutes <= 0 {
		return nil, model.ErrNonPositiveDuration
	}
	if !category.Valid() {
		category = model.CategoryPersonal
	}
	if window.Empty() {
		return []model.SlotCandidate{}, nil
	}

	duration := time.Duration(durationMinutes) * time.Minute

	candidates := g.walk(category, duration, existing, window)
	if len(candidates) == 0 {
		widened := SearchWindow{
			Start: window.Start,
			End:   window.Start.Add(2 * window.End.Sub(window.Start)),
		}
		appLog.Info("no slot found, widening search window once",
			"category", string(category),
			"until", widened.End.Format(time.RFC3339))
		candidates = g.walk(category, duration, existing, widened)
	}

	// Best score first; equal scores resolved by earlier start.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Interval.Start.Before(candidates[j].Interval.Start)
	})

	if limit := g.cfg.Suggestions.MaxResults; len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// walk enumerates every step-aligned interval inside the window that
// fits the mask and conflicts with nothing.
func (g *Generator) walk(category model.Category, duration time.Duration, existing []model.EventRecord, window SearchWindow) []model.SlotCandidate {
	step := time.Duration(g.cfg.Suggestions.StepMinutes) * time.Minute

	out := make([]model.SlotCandidate, 0)
	for t := alignUp(window.Start, step); t.Add(duration).Before(window.End) || t.Add(duration).Equal(window.End); t = t.Add(step) {
		iv := model.TimeInterval{Start: t, End: t.Add(duration)}

		if !fitsMask(iv, category, g.cfg) {
			continue
		}
		if conflicts(iv, existing) {
			continue
		}

		score, reasons := scoreCandidate(iv, category, existing, window.Start)
		out = append(out, model.SlotCandidate{
			Interval: iv,
			Priority: priorityFor(score),
			Score:    score,
			Reasons:  append([]string{describeSlot(iv)}, reasons...),
		})
	}
	return out
}

// conflicts reports whether the interval overlaps any committed event.
func conflicts(iv model.TimeInterval, existing []model.EventRecord) bool {
	for _, ev := range existing {
		if iv.Overlaps(ev.Interval) {
			return true
		}
	}
	return false
}

// alignUp rounds t up to the next step boundary within its day, so that
// 30-minute steps land on :00/:30 wall-clock marks.
func alignUp(t time.Time, step time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	aligned := (offset + step - 1) / step * step
	return midnight.Add(aligned)
}
