// Package ics moves event records across the iCalendar boundary so
// snapshots can be exchanged with external calendar tooling. Recurring
// series travel as a single base VEVENT carrying an RRULE; generated
// children (-rec- records) are not exported individually.
package ics

import (
	"strings"

	ical "github.com/arran4/golang-ical"

	appLog "calassist/internal/log"
	"calassist/internal/model"
	"calassist/internal/recur"
)

const prodID = "-//calassist//scheduling core//EN"

// Export renders the given events as an ICS calendar. Recurring children
// (records with a ParentID) are skipped; their base event's RRULE
// describes the whole series.
func Export(events []model.EventRecord) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, ev := range events {
		if ev.ParentID != "" {
			continue
		}
		if err := ev.Validate(); err != nil {
			appLog.Warn("skipping invalid event on export", "id", ev.ID, "reason", err.Error())
			continue
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetStartAt(ev.Interval.Start)
		ve.SetEndAt(ev.Interval.End)
		if ev.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(ev.Category)))
		}
		for _, a := range ev.Attendees {
			ve.AddAttendee(a)
		}

		if ev.Recurrence != nil {
			raw, err := recur.RuleString(*ev.Recurrence)
			if err != nil {
				appLog.Warn("skipping unsupported recurrence on export",
					"id", ev.ID, "reason", err.Error())
				continue
			}
			ve.SetProperty(ical.ComponentPropertyRrule, raw)
		}
	}

	return cal.Serialize(), nil
}
