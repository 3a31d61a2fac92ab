// Package calendarout adapts the Google Calendar client to the
// ingestion EventMaterializer contract.
package calendarout

import (
	"context"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/pkg/gcalendar"
	pkgLog "smart-todo-scheduler/pkg/log"
)

// Materializer writes resolved tasks into a Google Calendar.
type Materializer struct {
	l          pkgLog.Logger
	calendar   *gcalendar.Client
	calendarID string
	timezone   string
}

// New creates a calendar materializer. calendarID may be empty for the
// primary calendar.
func New(l pkgLog.Logger, client *gcalendar.Client, calendarID, timezone string) *Materializer {
	return &Materializer{
		l:          l,
		calendar:   client,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// CreateEvent materializes one scheduling window as a calendar event.
func (m *Materializer) CreateEvent(ctx context.Context, summary, description string, window model.ScheduledWindow) error {
	event, err := m.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  m.calendarID,
		Summary:     summary,
		Description: description,
		StartTime:   window.Start,
		EndTime:     window.End,
		Timezone:    m.timezone,
		AllDay:      window.AllDay,
	})
	if err != nil {
		return err
	}

	m.l.Infof(ctx, "calendarout: created event %q (%s)", summary, event.HtmlLink)
	return nil
}
