package taskparser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/pkg/gcalendar"
	"smart-todo-scheduler/pkg/gemini"
)

// ParseTasks sends the note text to Gemini and converts the response
// into domain tasks. Tasks without a summary are dropped; due-date
// strings are normalized into the explicit DueDate variant.
func (p *Parser) ParseTasks(ctx context.Context, text string) ([]model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	now := p.now().In(p.dateMath.Location())
	prompt := gemini.BuildTaskParsingPrompt(text, now.Format(time.RFC3339), p.availabilityDigest(ctx, now))

	resp, err := p.llm.GenerateContent(ctx, gemini.GenerateRequest{
		Contents: []gemini.Content{
			{Parts: []gemini.Part{{Text: prompt}}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:     0.2, // low temperature for stable JSON output
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from LLM")
	}
	responseText := resp.Candidates[0].Content.Parts[0].Text

	cleaned := sanitizeJSONResponse(responseText)

	var parsed []gemini.ParsedTask
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		p.l.Errorf(ctx, "taskparser: unparseable LLM response. raw=%q cleaned=%q", responseText, cleaned)
		return nil, fmt.Errorf("failed to parse LLM JSON response: %w", err)
	}

	tasks := make([]model.Task, 0, len(parsed))
	for _, pt := range parsed {
		summary := strings.TrimSpace(pt.Task)
		if summary == "" {
			p.l.Warnf(ctx, "taskparser: dropping task with empty summary (line %d)", pt.LineNumber)
			continue
		}
		tasks = append(tasks, model.Task{
			Summary:           summary,
			Priority:          normalizePriority(pt.Priority),
			Due:               p.normalizeDue(ctx, pt.DueDate, now),
			SuggestedDateTime: pt.SuggestedTimeOfDay,
			SuggestedDuration: pt.SuggestedDuration,
			SourceLine:        pt.SourceLine,
			LineNumber:        pt.LineNumber,
		})
	}
	return tasks, nil
}

// dueLayouts are the explicit due-date shapes accepted from the model,
// tried most to least specific.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// normalizeDue maps an LLM due-date string onto the DueDate variant:
// timestamps become DueAtDateTime, bare dates and recognized relative
// phrases become DueOnDate, anything else degrades to DueNone.
func (p *Parser) normalizeDue(ctx context.Context, s string, now time.Time) model.DueDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DueDate{}
	}

	loc := p.dateMath.Location()
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return model.AtDateTime(t)
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return model.DueDate{Kind: model.DueOnDate, At: t}
	}
	if t, err := p.dateMath.Parse(s, now); err == nil {
		return model.DueDate{Kind: model.DueOnDate, At: t}
	}

	p.l.Warnf(ctx, "taskparser: unusable due date %q from LLM, treating as absent", s)
	return model.DueDate{}
}

var priorityRe = regexp.MustCompile(`^p[0-3]$`)

func normalizePriority(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if priorityRe.MatchString(s) {
		return s
	}
	return "p2"
}

// availabilityDigest renders the next week of calendar events as one
// line per event for the prompt. Failures degrade to no digest; the
// parse must not depend on calendar reachability.
func (p *Parser) availabilityDigest(ctx context.Context, now time.Time) string {
	if p.calendar == nil {
		return ""
	}

	events, err := p.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: p.calendarID,
		TimeMin:    now,
		TimeMax:    now.AddDate(0, 0, 7),
	})
	if err != nil {
		p.l.Warnf(ctx, "taskparser: calendar availability unavailable: %v", err)
		return ""
	}

	var sb strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&sb, "%s %s-%s: %s\n",
			ev.StartTime.Format("Mon 2006-01-02"),
			ev.StartTime.Format("15:04"),
			ev.EndTime.Format("15:04"),
			ev.Summary)
	}
	return strings.TrimSpace(sb.String())
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// sanitizeJSONResponse strips markdown fences and leading/trailing
// prose that LLMs add around JSON output.
func sanitizeJSONResponse(text string) string {
	if matches := fencedJSONRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "]}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}
