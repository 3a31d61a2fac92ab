package gemini

import "fmt"

// TaskParsingSystemPrompt is the instruction block sent to Gemini for
// extracting tasks from OCRed note text.
const TaskParsingSystemPrompt = `You are a task extraction assistant. The input is text recovered from a handwritten todo list or note page; it may contain OCR noise.

RULES:
1. Extract every actionable task. Ignore headings, doodle fragments and crossed-out lines.
2. For each task produce:
   - task: short, clear task description (required)
   - priority: exactly one of "p0", "p1", "p2", "p3" (default "p2")
   - due_date: a date explicitly written in the text. Use "2006-01-02" for a bare date, RFC3339 for a date with time, a relative phrase ("tomorrow", "next friday") only when the text literally says so, or "" when no date is written.
   - suggested_time_of_day: ISO-8601 timestamp for when YOU think the task should happen, considering the calendar availability below. "" if you have no suggestion.
   - suggested_duration: how long the task likely takes, e.g. "30 minutes", "2 hours", or "flexible".
   - source_line: the original line the task came from, verbatim.
   - line_number: 1-based line number of source_line in the input.
3. Never invent a due_date that is not written in the text. Suggestions go in suggested_time_of_day.
4. Return ONLY a valid JSON array. No markdown, no code fences, no prose.

EXAMPLE OUTPUT:
[
  {
    "task": "Renew car insurance",
    "priority": "p1",
    "due_date": "2026-09-05",
    "suggested_time_of_day": "2026-09-05T10:00:00",
    "suggested_duration": "30 minutes",
    "source_line": "renew car insurance by Sep 5!!",
    "line_number": 3
  }
]`

// BuildTaskParsingPrompt assembles the full prompt: instructions,
// current-time context, calendar availability, and the note text.
func BuildTaskParsingPrompt(noteText, currentTime, availability string) string {
	prompt := TaskParsingSystemPrompt
	prompt += fmt.Sprintf("\n\nCURRENT TIME (use for resolving relative dates):\n%s\n", currentTime)
	if availability != "" {
		prompt += fmt.Sprintf("\nCALENDAR AVAILABILITY (avoid suggesting times that collide):\n%s\n", availability)
	}
	prompt += "\nNow extract tasks from the following text and return ONLY the JSON array:\n" + noteText
	return prompt
}
