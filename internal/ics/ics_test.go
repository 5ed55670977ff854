package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calassist/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	weekly := model.RecurrenceRule{Frequency: model.FrequencyWeekly}

	events := []model.EventRecord{
		{
			ID:          "standup-1",
			Title:       "Team Standup",
			Description: "Weekly sync",
			Interval:    model.TimeInterval{Start: start, End: start.Add(30 * time.Minute)},
			Attendees:   []string{"dev@example.com"},
			Category:    model.CategoryBusiness,
			Recurrence:  &weekly,
		},
		{
			ID:       "guitar-1",
			Title:    "Guitar Practice",
			Interval: model.TimeInterval{Start: start.Add(9 * time.Hour), End: start.Add(10 * time.Hour)},
			Category: model.CategoryHobby,
		},
	}

	payload, err := Export(events)
	require.NoError(t, err)
	assert.Contains(t, payload, "BEGIN:VCALENDAR")
	assert.Contains(t, payload, "FREQ=WEEKLY")
	assert.Contains(t, payload, "COUNT=31")

	imported, err := Import([]byte(payload))
	require.NoError(t, err)
	require.Len(t, imported, 2)

	byID := make(map[string]model.EventRecord, len(imported))
	for _, ev := range imported {
		byID[ev.ID] = ev
	}

	standup := byID["standup-1"]
	assert.Equal(t, "Team Standup", standup.Title)
	assert.Equal(t, "Weekly sync", standup.Description)
	assert.Equal(t, model.CategoryBusiness, standup.Category)
	assert.True(t, standup.Interval.Start.Equal(start))
	assert.True(t, standup.Interval.End.Equal(start.Add(30*time.Minute)))
	require.NotNil(t, standup.Recurrence)
	assert.Equal(t, model.FrequencyWeekly, standup.Recurrence.Frequency)
	assert.Equal(t, []string{"dev@example.com"}, standup.Attendees)

	guitar := byID["guitar-1"]
	assert.Equal(t, model.CategoryHobby, guitar.Category)
	assert.Nil(t, guitar.Recurrence)
}

func TestExportSkipsRecurringChildren(t *testing.T) {
	start := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	events := []model.EventRecord{
		{
			ID:       "base",
			Title:    "Base",
			Interval: model.TimeInterval{Start: start, End: start.Add(time.Hour)},
		},
		{
			ID:       "base-rec-1",
			Title:    "Base",
			ParentID: "base",
			Interval: model.TimeInterval{Start: start.AddDate(0, 0, 7), End: start.AddDate(0, 0, 7).Add(time.Hour)},
		},
	}

	payload, err := Export(events)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(payload, "BEGIN:VEVENT"))
	assert.NotContains(t, payload, "base-rec-1")
}

func TestImportDropsUnsupportedRRule(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:yearly-1",
		"SUMMARY:Anniversary",
		"DTSTART:20260907T090000Z",
		"DTEND:20260907T100000Z",
		"RRULE:FREQ=YEARLY",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	imported, err := Import([]byte(payload))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	// Event survives as non-recurring; only the rule is dropped.
	assert.Equal(t, "Anniversary", imported[0].Title)
	assert.Nil(t, imported[0].Recurrence)
}

func TestImportSkipsInvalidEvents(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:no-summary",
		"DTSTART:20260907T100000Z",
		"DTEND:20260907T090000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:good",
		"SUMMARY:Fine",
		"DTSTART:20260907T090000Z",
		"DTEND:20260907T100000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	imported, err := Import([]byte(payload))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "good", imported[0].ID)
}

func TestImportEmptyBody(t *testing.T) {
	_, err := Import(nil)
	assert.Error(t, err)
}
