package taskparser

import (
	"time"

	"smart-todo-scheduler/pkg/datemath"
	"smart-todo-scheduler/pkg/gcalendar"
	"smart-todo-scheduler/pkg/gemini"
	pkgLog "smart-todo-scheduler/pkg/log"
)

// Parser extracts structured tasks from note text via the Gemini API,
// enriching the prompt with calendar availability so suggested times
// avoid existing events.
type Parser struct {
	l          pkgLog.Logger
	llm        *gemini.Client
	calendar   *gcalendar.Client // optional; nil disables the availability digest
	dateMath   *datemath.Parser
	calendarID string
	now        func() time.Time
}

// Config is the dependency bag for New.
type Config struct {
	Logger     pkgLog.Logger
	LLM        *gemini.Client
	Calendar   *gcalendar.Client
	DateMath   *datemath.Parser
	CalendarID string
	Now        func() time.Time // injected clock; defaults to time.Now
}

// New creates a task parser.
func New(cfg Config) *Parser {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Parser{
		l:          cfg.Logger,
		llm:        cfg.LLM,
		calendar:   cfg.Calendar,
		dateMath:   cfg.DateMath,
		calendarID: cfg.CalendarID,
		now:        cfg.Now,
	}
}
