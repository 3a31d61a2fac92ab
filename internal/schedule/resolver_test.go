package schedule_test

import (
	"testing"
	"time"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/internal/schedule"
)

var now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) // Wednesday 10:00

func resolver() schedule.Resolver {
	return schedule.New(0, 0) // defaults: 9:00 slot, 17:00 cutoff
}

func TestResolveExplicitDateTime(t *testing.T) {
	due := time.Date(2024, 5, 3, 14, 30, 0, 0, time.UTC)
	task := model.Task{
		Summary:           "Dentist",
		Due:               model.AtDateTime(due),
		SuggestedDateTime: "2024-05-04T09:00:00Z", // must lose to the explicit datetime
		SuggestedDuration: "30 minutes",
	}

	res := resolver().Resolve(task, now)

	if res.Branch != schedule.BranchExplicitDateTime {
		t.Fatalf("branch = %v, want explicit_datetime", res.Branch)
	}
	if !res.Window.Start.Equal(due) {
		t.Errorf("start = %v, want %v", res.Window.Start, due)
	}
	if !res.Window.End.Equal(due.Add(30 * time.Minute)) {
		t.Errorf("end = %v, want %v", res.Window.End, due.Add(30*time.Minute))
	}
	if res.Window.AllDay {
		t.Errorf("explicit datetime must not be all-day")
	}
}

func TestResolveDateWithSuggestedTime(t *testing.T) {
	task := model.Task{
		Summary:           "Submit report",
		Due:               model.OnDate(2024, 5, 6, time.UTC),
		SuggestedDateTime: "2024-05-09T15:00:00", // date part must be ignored
		SuggestedDuration: "2 hours",
	}

	res := resolver().Resolve(task, now)

	if res.Branch != schedule.BranchDateWithSuggestedTime {
		t.Fatalf("branch = %v, want date_with_suggested_time", res.Branch)
	}
	want := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)
	if !res.Window.Start.Equal(want) {
		t.Errorf("start = %v, want %v", res.Window.Start, want)
	}
	if !res.Window.End.Equal(want.Add(2 * time.Hour)) {
		t.Errorf("end = %v, want %v", res.Window.End, want.Add(2*time.Hour))
	}
}

func TestResolveDateAllDayFallback(t *testing.T) {
	due := model.OnDate(2024, 5, 6, time.UTC)

	tests := []struct {
		name          string
		suggested     string
		wantMalformed bool
	}{
		{name: "Absent suggestion", suggested: "", wantMalformed: false},
		{name: "Malformed suggestion", suggested: "not-a-date", wantMalformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.Task{Summary: "Pay rent", Due: due, SuggestedDateTime: tt.suggested}
			res := resolver().Resolve(task, now)

			if res.Branch != schedule.BranchDateAllDay {
				t.Fatalf("branch = %v, want date_all_day", res.Branch)
			}
			if !res.Window.AllDay {
				t.Fatalf("expected all-day window")
			}
			if !res.Window.Start.Equal(due.At) {
				t.Errorf("start = %v, want %v", res.Window.Start, due.At)
			}
			if !res.Window.End.Equal(due.At.AddDate(0, 0, 1)) {
				t.Errorf("end = %v, want %v", res.Window.End, due.At.AddDate(0, 0, 1))
			}
			if res.MalformedSuggestion != tt.wantMalformed {
				t.Errorf("malformed = %v, want %v", res.MalformedSuggestion, tt.wantMalformed)
			}
			if !res.Window.Valid() {
				t.Errorf("window %+v violates invariants", res.Window)
			}
		})
	}
}

func TestResolveSuggestedDateTimeOnly(t *testing.T) {
	task := model.Task{
		Summary:           "Call plumber",
		SuggestedDateTime: "2024-05-02T11:00:00Z",
	}

	res := resolver().Resolve(task, now)

	if res.Branch != schedule.BranchSuggestedDateTime {
		t.Fatalf("branch = %v, want suggested_datetime", res.Branch)
	}
	want := time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC)
	if !res.Window.Start.Equal(want) {
		t.Errorf("start = %v, want %v", res.Window.Start, want)
	}
	if !res.Window.End.Equal(want.Add(time.Hour)) {
		t.Errorf("end = %v, want default 1h after start", res.Window.End)
	}
}

func TestResolveDefaultSlot(t *testing.T) {
	tests := []struct {
		name      string
		hour      int
		suggested string
		wantDay   int
	}{
		{name: "Morning stays today", hour: 10, wantDay: 1},
		{name: "Before cutoff stays today", hour: 16, wantDay: 1},
		{name: "At cutoff moves to tomorrow", hour: 17, wantDay: 2},
		{name: "Evening moves to tomorrow", hour: 18, wantDay: 2},
		{name: "Malformed suggestion", hour: 10, suggested: "9ish maybe", wantDay: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := time.Date(2024, 5, 1, tt.hour, 12, 0, 0, time.UTC)
			task := model.Task{Summary: "Tidy desk", SuggestedDateTime: tt.suggested}

			res := resolver().Resolve(task, clock)

			if res.Branch != schedule.BranchDefaultSlot {
				t.Fatalf("branch = %v, want default_slot", res.Branch)
			}
			want := time.Date(2024, 5, tt.wantDay, 9, 0, 0, 0, time.UTC)
			if !res.Window.Start.Equal(want) {
				t.Errorf("start = %v, want %v", res.Window.Start, want)
			}
			if !res.Window.End.Equal(want.Add(time.Hour)) {
				t.Errorf("end = %v, want 1h slot", res.Window.End)
			}
			if res.MalformedSuggestion != (tt.suggested != "") {
				t.Errorf("malformed = %v for suggestion %q", res.MalformedSuggestion, tt.suggested)
			}
		})
	}
}

func TestResolveDeterminism(t *testing.T) {
	tasks := []model.Task{
		{Summary: "a", Due: model.AtDateTime(now.Add(48 * time.Hour)), SuggestedDuration: "45 min"},
		{Summary: "b", Due: model.OnDate(2024, 5, 6, time.UTC), SuggestedDateTime: "2024-05-06T08:00:00Z"},
		{Summary: "c", Due: model.OnDate(2024, 5, 6, time.UTC), SuggestedDateTime: "garbage"},
		{Summary: "d", SuggestedDateTime: "2024-05-02T11:00:00Z"},
		{Summary: "e"},
	}

	r := resolver()
	for _, task := range tasks {
		first := r.Resolve(task, now)
		second := r.Resolve(task, now)
		if first != second {
			t.Errorf("Resolve(%q) not deterministic: %+v vs %+v", task.Summary, first, second)
		}
	}
}
