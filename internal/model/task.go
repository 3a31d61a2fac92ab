package model

import "time"

// DueKind discriminates the explicit due date variants of a Task.
type DueKind int

const (
	// DueNone means the source text carried no explicit due date.
	DueNone DueKind = iota
	// DueOnDate means an explicit calendar date without a time of day.
	DueOnDate
	// DueAtDateTime means an explicit date with a specific time of day.
	DueAtDateTime
)

// DueDate is the explicit due date extracted from the source text.
// Kind selects the variant; At is meaningful only when Kind != DueNone.
// For DueOnDate, At is midnight of that date and the time-of-day part
// carries no meaning.
type DueDate struct {
	Kind DueKind
	At   time.Time
}

// OnDate builds a date-only due date anchored at midnight.
func OnDate(year int, month time.Month, day int, loc *time.Location) DueDate {
	return DueDate{Kind: DueOnDate, At: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// AtDateTime builds a due date with a specific time of day.
func AtDateTime(t time.Time) DueDate {
	return DueDate{Kind: DueAtDateTime, At: t}
}

// Task is a single actionable item extracted from a note by the LLM
// parser. SuggestedDateTime and SuggestedDuration are free-form LLM
// output and may be malformed; consumers must treat them as hints.
type Task struct {
	Summary           string  // required, non-empty
	Priority          string  // "p0".."p3" label from the parser
	Due               DueDate // explicit date/time found in the text
	SuggestedDateTime string  // ISO-8601 timestamp hint, possibly malformed
	SuggestedDuration string  // e.g. "30 minutes", "flexible"
	SourceLine        string  // provenance: the line the task came from
	LineNumber        int     // provenance: 1-based, 0 if unknown
}
