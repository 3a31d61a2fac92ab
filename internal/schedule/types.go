package schedule

import "smart-todo-scheduler/internal/model"

// Branch identifies which cascade rule produced a window.
type Branch int

const (
	// BranchExplicitDateTime: the source text carried a full date+time.
	BranchExplicitDateTime Branch = iota + 1
	// BranchDateWithSuggestedTime: explicit date refined by the
	// parser's suggested time of day.
	BranchDateWithSuggestedTime
	// BranchDateAllDay: explicit date with no usable time; all-day.
	BranchDateAllDay
	// BranchSuggestedDateTime: no explicit date, the parser's suggested
	// timestamp was usable.
	BranchSuggestedDateTime
	// BranchDefaultSlot: nothing usable; next morning default slot.
	BranchDefaultSlot
)

func (b Branch) String() string {
	switch b {
	case BranchExplicitDateTime:
		return "explicit_datetime"
	case BranchDateWithSuggestedTime:
		return "date_with_suggested_time"
	case BranchDateAllDay:
		return "date_all_day"
	case BranchSuggestedDateTime:
		return "suggested_datetime"
	case BranchDefaultSlot:
		return "default_slot"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving one task.
// MalformedSuggestion is set when a suggested timestamp was present but
// could not be parsed; that is a fallback, not an error, but it signals
// an upstream parser defect and should be logged distinctly from a
// cleanly absent hint.
type Resolution struct {
	Window              model.ScheduledWindow
	Branch              Branch
	MalformedSuggestion bool
}
