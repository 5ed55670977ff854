package slots

import (
	"time"

	"calassist/internal/config"
	"calassist/internal/model"
)

// hourRange is an allowed [Start, End) span in whole hours of one day.
type hourRange struct {
	Start int
	End   int
}

// allowedRanges derives the allowed-hours mask for a category on a given
// day:
//
//   - Business: the configured business hours, work days only.
//   - Hobby/Personal: the configured evening span every day, plus the
//     full daytime span on non-work days.
func allowedRanges(category model.Category, day time.Time, cfg *config.Config) []hourRange {
	workDay := cfg.IsWorkDay(day.Weekday())

	if category == model.CategoryBusiness {
		if !workDay {
			return nil
		}
		return []hourRange{{Start: cfg.BusinessHours.Start, End: cfg.BusinessHours.End}}
	}

	s := cfg.Suggestions
	if !workDay {
		// Daytime span subsumes the evening when they overlap.
		if s.DayStart <= s.EveningStart && s.EveningEnd <= s.DayEnd {
			return []hourRange{{Start: s.DayStart, End: s.DayEnd}}
		}
		return []hourRange{
			{Start: s.DayStart, End: s.DayEnd},
			{Start: s.EveningStart, End: s.EveningEnd},
		}
	}
	return []hourRange{{Start: s.EveningStart, End: s.EveningEnd}}
}

// fitsMask reports whether the candidate interval lies entirely inside
// one allowed range of its start day.
func fitsMask(iv model.TimeInterval, category model.Category, cfg *config.Config) bool {
	day := iv.Start
	for _, r := range allowedRanges(category, day, cfg) {
		rangeStart := time.Date(day.Year(), day.Month(), day.Day(), r.Start, 0, 0, 0, day.Location())
		rangeEnd := time.Date(day.Year(), day.Month(), day.Day(), r.End, 0, 0, 0, day.Location())
		if !iv.Start.Before(rangeStart) && !iv.End.After(rangeEnd) {
			return true
		}
	}
	return false
}
