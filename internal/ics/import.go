package ics

import (
	"bytes"
	"errors"
	"strings"

	ical "github.com/arran4/golang-ical"

	appLog "calassist/internal/log"
	"calassist/internal/model"
	"calassist/internal/recur"
)

// Import parses an ICS payload into event records.
//
//   - Events that fail validation (missing UID, empty summary, inverted
//     interval) are logged and skipped; the rest still import.
//   - A parseable RRULE with a supported frequency becomes the record's
//     recurrence rule. Unsupported rules are dropped with a log and the
//     event kept as non-recurring, so a foreign calendar never blocks
//     the whole import.
func Import(body []byte) ([]model.EventRecord, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]model.EventRecord, 0)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Warn("skipping unparseable VEVENT", "reason", perr.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics import completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.EventRecord, error) {
	var out model.EventRecord

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.ID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		if cat, err := model.ParseCategory(strings.ToLower(p.Value)); err == nil {
			out.Category = cat
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, err
	}
	out.Interval = model.TimeInterval{Start: start, End: end}

	for _, p := range ve.Attendees() {
		addr := strings.TrimPrefix(p.Value, "mailto:")
		if addr != "" {
			out.Attendees = append(out.Attendees, addr)
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		rule, rerr := recur.ParseRule(p.Value)
		if rerr != nil {
			appLog.Warn("dropping unsupported RRULE on import",
				"uid", out.ID, "rrule", p.Value, "reason", rerr.Error())
		} else {
			out.Recurrence = &rule
		}
	}

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}
