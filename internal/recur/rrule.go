package recur

import (
	"fmt"

	"github.com/teambition/rrule-go"

	"calassist/internal/model"
)

// RRULE text mapping for the ICS boundary. Expansion itself does not go
// through rrule-go: RFC 5545 monthly rules skip months without the base
// day, while this engine keeps calendar-shifted dates.

// ParseRule maps an RFC 5545 RRULE string (e.g. "FREQ=WEEKLY") onto a
// RecurrenceRule. Frequencies outside Daily/Weekly/Monthly are rejected
// with ErrInvalidRule.
func ParseRule(raw string) (model.RecurrenceRule, error) {
	opts, err := rrule.StrToROption(raw)
	if err != nil {
		return model.RecurrenceRule{}, fmt.Errorf("%w: %v", model.ErrInvalidRule, err)
	}

	switch opts.Freq {
	case rrule.DAILY:
		return model.RecurrenceRule{Frequency: model.FrequencyDaily}, nil
	case rrule.WEEKLY:
		return model.RecurrenceRule{Frequency: model.FrequencyWeekly}, nil
	case rrule.MONTHLY:
		return model.RecurrenceRule{Frequency: model.FrequencyMonthly}, nil
	}
	return model.RecurrenceRule{}, fmt.Errorf("%w: %s", model.ErrInvalidRule, raw)
}

// RuleString renders a RecurrenceRule as RRULE text carrying the fixed
// occurrence count, suitable for an exported VEVENT.
func RuleString(rule model.RecurrenceRule) (string, error) {
	var freq rrule.Frequency
	switch rule.Frequency {
	case model.FrequencyDaily:
		freq = rrule.DAILY
	case model.FrequencyWeekly:
		freq = rrule.WEEKLY
	case model.FrequencyMonthly:
		freq = rrule.MONTHLY
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidRule, rule.Frequency)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:  freq,
		Count: AdditionalOccurrences + 1,
	})
	if err != nil {
		return "", err
	}
	return r.OrigOptions.RRuleString(), nil
}
