package model

import "time"

// ScheduledWindow is the concrete [Start, End) interval a task was
// resolved to. When AllDay is set, Start is midnight of the event day
// and End is midnight of the following day.
type ScheduledWindow struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// Duration returns the length of the window.
func (w ScheduledWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Valid reports whether the window satisfies its invariants.
func (w ScheduledWindow) Valid() bool {
	if !w.End.After(w.Start) {
		return false
	}
	if w.AllDay {
		y, m, d := w.Start.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, w.Start.Location())
		return w.Start.Equal(midnight) && w.End.Equal(midnight.AddDate(0, 0, 1))
	}
	return true
}
