package schedule

import (
	"time"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/pkg/datemath"
)

// Default scheduling knobs. An explicit zero on the Resolver falls back
// to these.
const (
	DefaultDayStartHour      = 9
	DefaultEveningCutoffHour = 17
)

// Resolver turns a task's partial temporal hints into one concrete
// scheduling window. Resolve is a pure function of the task, the
// injected current time, and the two hour knobs; it never fails and
// never reads the wall clock itself.
type Resolver struct {
	DayStartHour      int // hour used for the default morning slot
	EveningCutoffHour int // from this hour on, the default slot moves to tomorrow
}

// New creates a Resolver, substituting defaults for non-positive knobs.
func New(dayStartHour, eveningCutoffHour int) Resolver {
	if dayStartHour <= 0 {
		dayStartHour = DefaultDayStartHour
	}
	if eveningCutoffHour <= 0 {
		eveningCutoffHour = DefaultEveningCutoffHour
	}
	return Resolver{DayStartHour: dayStartHour, EveningCutoffHour: eveningCutoffHour}
}

// Resolve applies the priority cascade. First matching branch wins:
//
//  1. explicit date+time
//  2. explicit date refined by a usable suggested time of day
//  3. explicit date alone: all-day window
//  4. no explicit date, usable suggested timestamp
//  5. default slot: today (or tomorrow after the evening cutoff) at the
//     day-start hour, one hour long
//
// An explicit, user-written date always outranks an inferred one; an
// inferred time of day may refine an explicit date but never move the
// task to a different day. Malformed hints degrade to the next-safest
// branch and are reported via Resolution.MalformedSuggestion so the
// caller can surface the upstream parser defect.
func (r Resolver) Resolve(task model.Task, now time.Time) Resolution {
	switch task.Due.Kind {
	case model.DueAtDateTime:
		start := task.Due.At
		end := start.Add(datemath.ParseDuration(task.SuggestedDuration))
		return Resolution{
			Window: model.ScheduledWindow{Start: start, End: end},
			Branch: BranchExplicitDateTime,
		}

	case model.DueOnDate:
		if suggested, ok := parseSuggested(task.SuggestedDateTime, task.Due.At.Location()); ok {
			start := combine(task.Due.At, suggested)
			end := start.Add(datemath.ParseDuration(task.SuggestedDuration))
			return Resolution{
				Window: model.ScheduledWindow{Start: start, End: end},
				Branch: BranchDateWithSuggestedTime,
			}
		}
		start := startOfDay(task.Due.At)
		return Resolution{
			Window:              model.ScheduledWindow{Start: start, End: start.AddDate(0, 0, 1), AllDay: true},
			Branch:              BranchDateAllDay,
			MalformedSuggestion: task.SuggestedDateTime != "",
		}

	default:
		if suggested, ok := parseSuggested(task.SuggestedDateTime, now.Location()); ok {
			end := suggested.Add(datemath.ParseDuration(task.SuggestedDuration))
			return Resolution{
				Window: model.ScheduledWindow{Start: suggested, End: end},
				Branch: BranchSuggestedDateTime,
			}
		}

		day := now
		if now.Hour() >= r.EveningCutoffHour {
			day = now.AddDate(0, 0, 1)
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), r.DayStartHour, 0, 0, 0, now.Location())
		return Resolution{
			Window:              model.ScheduledWindow{Start: start, End: start.Add(time.Hour)},
			Branch:              BranchDefaultSlot,
			MalformedSuggestion: task.SuggestedDateTime != "",
		}
	}
}

// suggestedLayouts are the timestamp shapes the LLM is expected to
// emit. Zone-less layouts are interpreted in the fallback location.
var suggestedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseSuggested(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range suggestedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// combine takes the calendar date from day and the clock time from tod,
// in day's location.
func combine(day, tod time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, day.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
