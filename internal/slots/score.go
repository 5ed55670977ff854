package slots

import (
	"fmt"
	"time"

	"calassist/internal/model"
)

// Scoring weights and the fixed priority thresholds. Hoisted here so the
// ranking policy is visible in one place.
const (
	baseScore = 50.0

	midMorningBonus     = 25.0
	earlyAfternoonBonus = 20.0
	earlyEveningBonus   = 20.0

	tightBufferPenalty = 15.0
	snugBufferPenalty  = 8.0
	clearBufferBonus   = 5.0

	earlinessMax     = 15.0
	earlinessPerDay  = 2.0
	tightBufferLimit = 30 * time.Minute
	snugBufferLimit  = 60 * time.Minute
	clearBufferLimit = 2 * time.Hour

	thresholdOptimal = 85.0
	thresholdGood    = 70.0
	thresholdFair    = 55.0
)

// scoreCandidate ranks one surviving interval. windowStart anchors the
// earliness bonus; existing is read only for buffer distances.
func scoreCandidate(iv model.TimeInterval, category model.Category, existing []model.EventRecord, windowStart time.Time) (float64, []string) {
	score := baseScore
	var reasons []string

	// Category fit.
	hour := iv.Start.Hour()
	switch category {
	case model.CategoryBusiness:
		switch {
		case hour >= 9 && hour < 11:
			score += midMorningBonus
			reasons = append(reasons, "mid-morning focus window")
		case hour >= 13 && hour < 15:
			score += earlyAfternoonBonus
			reasons = append(reasons, "early afternoon window")
		}
	default:
		if hour >= 18 && hour < 20 {
			score += earlyEveningBonus
			reasons = append(reasons, "early evening window")
		}
	}

	// Buffer to the nearest committed event.
	if gap, ok := nearestGap(iv, existing); ok {
		switch {
		case gap < tightBufferLimit:
			score -= tightBufferPenalty
			reasons = append(reasons, "back-to-back with an existing event")
		case gap < snugBufferLimit:
			score -= snugBufferPenalty
			reasons = append(reasons, "close to an existing event")
		case gap >= clearBufferLimit:
			score += clearBufferBonus
			reasons = append(reasons, "clear buffer around the slot")
		}
	} else {
		score += clearBufferBonus
		reasons = append(reasons, "no nearby commitments")
	}

	// Earlier availability wins, decaying per day.
	dayIndex := int(iv.Start.Sub(windowStart).Hours() / 24)
	if bonus := earlinessMax - earlinessPerDay*float64(dayIndex); bonus > 0 {
		score += bonus
		if dayIndex <= 1 {
			reasons = append(reasons, "available soon")
		}
	}

	return score, reasons
}

// nearestGap returns the smallest distance between the candidate and any
// existing event. ok is false when there are no events to measure against.
func nearestGap(iv model.TimeInterval, existing []model.EventRecord) (time.Duration, bool) {
	found := false
	var min time.Duration
	for _, ev := range existing {
		var gap time.Duration
		switch {
		case !ev.Interval.End.After(iv.Start):
			gap = iv.Start.Sub(ev.Interval.End)
		case !iv.End.After(ev.Interval.Start):
			gap = ev.Interval.Start.Sub(iv.End)
		default:
			// Overlapping events were filtered out before scoring.
			continue
		}
		if !found || gap < min {
			min = gap
			found = true
		}
	}
	return min, found
}

// priorityFor maps a score onto its fixed priority band.
func priorityFor(score float64) model.SlotPriority {
	switch {
	case score >= thresholdOptimal:
		return model.PriorityOptimal
	case score >= thresholdGood:
		return model.PriorityGood
	case score >= thresholdFair:
		return model.PriorityFair
	}
	return model.PriorityAvailable
}

// describeSlot produces the leading human-readable reason for a slot.
func describeSlot(iv model.TimeInterval) string {
	return fmt.Sprintf("%s for %s", iv.Start.Format("Mon Jan 2 15:04"), iv.Duration())
}
