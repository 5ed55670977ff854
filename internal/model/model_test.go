package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(t *testing.T, startHour, endHour int) TimeInterval {
	t.Helper()
	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	iv, err := NewInterval(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return iv
}

func TestIntervalValidation(t *testing.T) {
	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)

	_, err := NewInterval(start, start)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	iv, err := NewInterval(start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestIntervalOverlapsHalfOpen(t *testing.T) {
	nineToTen := interval(t, 9, 10)

	assert.True(t, nineToTen.Overlaps(interval(t, 9, 10)))
	assert.True(t, nineToTen.Overlaps(interval(t, 8, 10)))
	assert.True(t, nineToTen.Overlaps(interval(t, 9, 11)))
	assert.True(t, nineToTen.Overlaps(interval(t, 8, 12)))

	// Touching endpoints do not overlap.
	assert.False(t, nineToTen.Overlaps(interval(t, 10, 11)))
	assert.False(t, nineToTen.Overlaps(interval(t, 8, 9)))
	assert.False(t, nineToTen.Overlaps(interval(t, 12, 13)))
}

func TestIntervalContains(t *testing.T) {
	iv := interval(t, 9, 10)

	assert.True(t, iv.Contains(iv.Start))
	assert.True(t, iv.Contains(iv.Start.Add(30*time.Minute)))
	assert.False(t, iv.Contains(iv.End))
	assert.False(t, iv.Contains(iv.Start.Add(-time.Minute)))
}

func TestEventValidate(t *testing.T) {
	ev := EventRecord{
		ID:       "ev-1",
		Title:    "Team Meeting",
		Interval: interval(t, 9, 10),
	}
	require.NoError(t, ev.Validate())

	empty := ev
	empty.Title = ""
	assert.ErrorIs(t, empty.Validate(), ErrEmptyTitle)

	inverted := ev
	inverted.Interval = TimeInterval{Start: ev.Interval.End, End: ev.Interval.Start}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidInterval)
}

func TestEventCloneDoesNotAlias(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyWeekly}
	ev := EventRecord{
		ID:         "ev-1",
		Title:      "Standup",
		Interval:   interval(t, 9, 10),
		Attendees:  []string{"a@example.com"},
		Recurrence: &rule,
	}

	clone := ev.Clone()
	clone.Attendees[0] = "b@example.com"
	clone.Recurrence.Frequency = FrequencyDaily

	assert.Equal(t, "a@example.com", ev.Attendees[0])
	assert.Equal(t, FrequencyWeekly, ev.Recurrence.Frequency)
}

func TestParseCategory(t *testing.T) {
	cat, err := ParseCategory("business")
	require.NoError(t, err)
	assert.Equal(t, CategoryBusiness, cat)

	_, err = ParseCategory("Business")
	assert.Error(t, err)

	_, err = ParseCategory("gardening")
	assert.Error(t, err)
}

func TestFrequencyValid(t *testing.T) {
	assert.True(t, FrequencyDaily.Valid())
	assert.True(t, FrequencyWeekly.Valid())
	assert.True(t, FrequencyMonthly.Valid())
	assert.False(t, Frequency("yearly").Valid())
	assert.False(t, Frequency("").Valid())
}
