package taskparser_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/internal/taskparser"
	"smart-todo-scheduler/pkg/datemath"
	"smart-todo-scheduler/pkg/gemini"
	"smart-todo-scheduler/pkg/log"
)

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) // Friday

// newParser wires a Parser against a fake Gemini endpoint returning the
// given candidate text.
func newParser(t *testing.T, llmReply string) (*taskparser.Parser, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Parts: []gemini.Part{{Text: llmReply}}}},
			},
		})
	}))

	dm, _ := datemath.NewParser("UTC")
	parser := taskparser.New(taskparser.Config{
		Logger:   log.NewNop(),
		LLM:      gemini.NewClient(gemini.Config{APIKey: "k", APIURL: server.URL, RequestsPerMinute: 6000}),
		DateMath: dm,
		Now:      func() time.Time { return testNow },
	})
	return parser, server
}

func TestParseTasksNormalization(t *testing.T) {
	reply := `[
		{"task": "Dentist", "priority": "p1", "due_date": "2026-09-05T14:00:00Z", "suggested_duration": "30 minutes", "source_line": "dentist Sep 5 2pm", "line_number": 1},
		{"task": "Pay rent", "due_date": "2026-09-01", "line_number": 2},
		{"task": "Water plants", "due_date": "tomorrow", "line_number": 3},
		{"task": "Call mum", "priority": "urgent!!", "suggested_time_of_day": "whenever-ish", "line_number": 4},
		{"task": "", "line_number": 5},
		{"task": "Mystery", "due_date": "the 32nd of Octember"}
	]`
	parser, server := newParser(t, reply)
	defer server.Close()

	tasks, err := parser.ParseTasks(context.Background(), "scanned note text")
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if len(tasks) != 5 {
		t.Fatalf("expected 5 tasks (empty summary dropped), got %d", len(tasks))
	}

	if tasks[0].Due.Kind != model.DueAtDateTime {
		t.Errorf("RFC3339 due date should be DueAtDateTime, got %v", tasks[0].Due.Kind)
	}
	if want := time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC); !tasks[0].Due.At.Equal(want) {
		t.Errorf("due = %v, want %v", tasks[0].Due.At, want)
	}

	if tasks[1].Due.Kind != model.DueOnDate {
		t.Errorf("bare date should be DueOnDate, got %v", tasks[1].Due.Kind)
	}
	if tasks[1].Priority != "p2" {
		t.Errorf("missing priority should default to p2, got %q", tasks[1].Priority)
	}

	if tasks[2].Due.Kind != model.DueOnDate {
		t.Fatalf("relative phrase should be DueOnDate, got %v", tasks[2].Due.Kind)
	}
	if want := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC); !tasks[2].Due.At.Equal(want) {
		t.Errorf("tomorrow = %v, want %v", tasks[2].Due.At, want)
	}

	if tasks[3].Due.Kind != model.DueNone {
		t.Errorf("absent due date should be DueNone")
	}
	if tasks[3].Priority != "p2" {
		t.Errorf("invalid priority should normalize to p2, got %q", tasks[3].Priority)
	}
	if tasks[3].SuggestedDateTime != "whenever-ish" {
		t.Errorf("malformed suggestion must pass through untouched, got %q", tasks[3].SuggestedDateTime)
	}

	if tasks[4].Due.Kind != model.DueNone {
		t.Errorf("unusable due date should degrade to DueNone, got %v", tasks[4].Due.Kind)
	}
}

func TestParseTasksFencedJSON(t *testing.T) {
	reply := "Here you go:\n```json\n[{\"task\": \"Buy milk\", \"line_number\": 1}]\n```\nHope that helps!"
	parser, server := newParser(t, reply)
	defer server.Close()

	tasks, err := parser.ParseTasks(context.Background(), "note")
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Summary != "Buy milk" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestParseTasksBadJSON(t *testing.T) {
	parser, server := newParser(t, "I could not find any tasks, sorry.")
	defer server.Close()

	if _, err := parser.ParseTasks(context.Background(), "note"); err == nil {
		t.Fatal("expected error for non-JSON LLM response")
	}
}

func TestParseTasksEmptyInput(t *testing.T) {
	parser, server := newParser(t, "[]")
	defer server.Close()

	tasks, err := parser.ParseTasks(context.Background(), "   \n ")
	if err != nil {
		t.Fatalf("ParseTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("blank input should yield no tasks, got %+v", tasks)
	}
}
