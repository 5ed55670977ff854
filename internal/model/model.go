package model

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors returned before any scheduling work begins.
var (
	ErrEmptyTitle          = errors.New("event title is empty")
	ErrInvalidInterval     = errors.New("interval start must be before end")
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrInvalidRule         = errors.New("unrecognized recurrence frequency")
)

// Category is the temporal-context classification of an activity.
type Category string

const (
	CategoryBusiness Category = "business"
	CategoryHobby    Category = "hobby"
	CategoryPersonal Category = "personal"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategoryHobby, CategoryPersonal:
		return true
	}
	return false
}

// ParseCategory maps a string (as received from the remote classifier or
// an ICS payload) onto a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryBusiness:
		return CategoryBusiness, nil
	case CategoryHobby:
		return CategoryHobby, nil
	case CategoryPersonal:
		return CategoryPersonal, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// TimeInterval is a half-open time window [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds a validated interval.
func NewInterval(start, end time.Time) (TimeInterval, error) {
	iv := TimeInterval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return iv, nil
}

// Validate enforces the start < end invariant.
func (iv TimeInterval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return ErrInvalidInterval
	}
	return nil
}

// Duration returns End - Start.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints ([9,10) vs [10,11)) do not overlap.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside [Start, End).
func (iv TimeInterval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Frequency selects the recurrence step of a RecurrenceRule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is a supported frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurrenceRule describes how an event repeats.
type RecurrenceRule struct {
	Frequency Frequency `yaml:"frequency" json:"frequency"`
}

// EventRecord is the calendar event as read from (and proposed to) the
// external event store. Recurring children reference their base event
// through ParentID.
type EventRecord struct {
	ID          string
	Title       string
	Description string
	Interval    TimeInterval
	Attendees   []string
	Category    Category
	Recurrence  *RecurrenceRule
	ParentID    string
}

// Validate performs the fail-fast checks shared by every entry point that
// accepts a caller-supplied event.
func (e EventRecord) Validate() error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if err := e.Interval.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy; the attendee slice is never shared so that
// recurrence expansion cannot alias caller state.
func (e EventRecord) Clone() EventRecord {
	out := e
	if e.Attendees != nil {
		out.Attendees = make([]string, len(e.Attendees))
		copy(out.Attendees, e.Attendees)
	}
	if e.Recurrence != nil {
		r := *e.Recurrence
		out.Recurrence = &r
	}
	return out
}

// ClassificationSource records which path produced a Classification.
type ClassificationSource string

const (
	SourceRemote ClassificationSource = "remote"
	SourceLocal  ClassificationSource = "local"
)

// Classification is the ephemeral result of classifying an activity.
// Never persisted; recomputed per request.
type Classification struct {
	Category   Category
	Confidence float64
	Rationale  string
	Source     ClassificationSource
}

// SlotPriority is the coarse ranking band attached to a slot candidate.
type SlotPriority string

const (
	PriorityOptimal   SlotPriority = "optimal"
	PriorityGood      SlotPriority = "good"
	PriorityFair      SlotPriority = "fair"
	PriorityAvailable SlotPriority = "available"
)

// SlotCandidate is one proposed time window for a new event.
type SlotCandidate struct {
	Interval TimeInterval
	Priority SlotPriority
	Score    float64
	Reasons  []string
}
