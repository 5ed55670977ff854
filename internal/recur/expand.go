// Package recur expands a single event into its recurring occurrences
// and maps recurrence rules to and from RFC 5545 RRULE text.
package recur

import (
	"fmt"
	"time"

	"calassist/internal/model"
)

// AdditionalOccurrences is the fixed number of generated occurrences
// beyond the base event. The product exposes no end-date or count
// parameter today, so the bound stays fixed.
const AdditionalOccurrences = 30

// Expand produces the occurrence series for a base event. Element 0 is
// the base event unchanged; each following element n is a clone shifted
// by n frequency steps, with ID "{baseId}-rec-{n}" and ParentID set to
// the base id.
//
// Monthly shifts use calendar month arithmetic: a Jan 31 base lands on
// whatever time.AddDate produces for short months. No conflict checking
// happens here; that belongs to the caller.
func Expand(base model.EventRecord, rule model.RecurrenceRule) ([]model.EventRecord, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if !rule.Frequency.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidRule, rule.Frequency)
	}

	out := make([]model.EventRecord, 0, AdditionalOccurrences+1)
	out = append(out, base)

	for n := 1; n <= AdditionalOccurrences; n++ {
		occ := base.Clone()
		occ.ID = fmt.Sprintf("%s-rec-%d", base.ID, n)
		occ.ParentID = base.ID
		occ.Recurrence = nil
		occ.Interval.Start = shift(base.Interval.Start, rule.Frequency, n)
		occ.Interval.End = shift(base.Interval.End, rule.Frequency, n)
		out = append(out, occ)
	}

	return out, nil
}

// shift moves t forward by n frequency steps.
func shift(t time.Time, f model.Frequency, n int) time.Time {
	switch f {
	case model.FrequencyDaily:
		return t.AddDate(0, 0, n)
	case model.FrequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case model.FrequencyMonthly:
		return t.AddDate(0, n, 0)
	}
	return t
}
