package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/internal/ingestion/usecase"
	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/internal/schedule"
	"smart-todo-scheduler/pkg/log"
)

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeSource struct {
	items       []model.SourceItem
	attachments map[string][]model.Attachment
	bodies      map[string]string
	listErr     error
	consumed    []string
	consumeFail bool
}

func (f *fakeSource) ListCandidateItems(context.Context) ([]model.SourceItem, error) {
	return f.items, f.listErr
}

func (f *fakeSource) FetchAttachments(_ context.Context, item model.SourceItem) ([]model.Attachment, error) {
	return f.attachments[item.ID], nil
}

func (f *fakeSource) InlineBody(_ context.Context, item model.SourceItem) (string, error) {
	return f.bodies[item.ID], nil
}

func (f *fakeSource) MarkConsumed(_ context.Context, itemID string) bool {
	if f.consumeFail {
		return false
	}
	f.consumed = append(f.consumed, itemID)
	return true
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) ExtractText(_ context.Context, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(data), nil
}

type fakeParser struct {
	tasks map[string][]model.Task // keyed by substring of the input text
	err   error
}

func (f *fakeParser) ParseTasks(_ context.Context, text string) ([]model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	for key, tasks := range f.tasks {
		if key != "" && strings.Contains(text, key) {
			return tasks, nil
		}
	}
	return nil, nil
}

type createdEvent struct {
	Summary string
	Window  model.ScheduledWindow
}

type fakeEvents struct {
	created []createdEvent
	failFor map[string]bool // summaries whose materialization fails
}

func (f *fakeEvents) CreateEvent(_ context.Context, summary, _ string, window model.ScheduledWindow) error {
	if f.failFor[summary] {
		return errors.New("calendar unavailable")
	}
	f.created = append(f.created, createdEvent{Summary: summary, Window: window})
	return nil
}

type fakeLedger struct {
	committed   map[string]struct{}
	snapshotErr error
	commitErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{committed: map[string]struct{}{}}
}

func (f *fakeLedger) Snapshot(context.Context) (map[string]struct{}, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	snap := make(map[string]struct{}, len(f.committed))
	for id := range f.committed {
		snap[id] = struct{}{}
	}
	return snap, nil
}

func (f *fakeLedger) Commit(_ context.Context, id string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed[id] = struct{}{}
	return nil
}

func (f *fakeLedger) Close() error { return nil }

// --- helpers ---

func newPipeline(source *fakeSource, parser *fakeParser, events *fakeEvents, ledger *fakeLedger) ingestion.UseCase {
	return usecase.New(
		log.NewNop(),
		source,
		&fakeExtractor{},
		parser,
		events,
		ledger,
		schedule.New(0, 0),
	)
}

func pdfItem(id, text string) (*fakeSource, string) {
	src := &fakeSource{
		items:       []model.SourceItem{{ID: id}},
		attachments: map[string][]model.Attachment{id: {{Filename: "page.pdf", Data: []byte(text)}}},
	}
	return src, text
}

// --- tests ---

func TestRunHappyPath(t *testing.T) {
	src, text := pdfItem("msg-1", "note content")
	parser := &fakeParser{tasks: map[string][]model.Task{
		text: {
			{Summary: "Dentist", Due: model.AtDateTime(testNow.Add(24 * time.Hour)), SuggestedDuration: "30 minutes"},
			{Summary: "Pay rent", Due: model.OnDate(2026, 9, 1, time.UTC)},
		},
	}}
	events := &fakeEvents{}
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, events, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Processed != 1 || out.Failed != 0 || out.Skipped != 0 {
		t.Errorf("summary = %+v", out)
	}
	if len(events.created) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events.created))
	}
	if !events.created[1].Window.AllDay {
		t.Errorf("date-only task should yield an all-day window")
	}
	if _, ok := ledger.committed["msg-1"]; !ok {
		t.Errorf("item not committed after full success")
	}
	if len(src.consumed) != 1 || src.consumed[0] != "msg-1" {
		t.Errorf("item not marked consumed: %v", src.consumed)
	}
}

func TestRunIdempotency(t *testing.T) {
	src, text := pdfItem("msg-1", "note content")
	parser := &fakeParser{tasks: map[string][]model.Task{text: {{Summary: "Buy milk"}}}}
	events := &fakeEvents{}
	ledger := newFakeLedger()
	pipeline := newPipeline(src, parser, events, ledger)

	if _, err := pipeline.Run(context.Background(), ingestion.RunInput{Now: testNow}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCount := len(events.created)

	out, err := pipeline.Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(events.created) != firstCount {
		t.Errorf("second run created %d extra events", len(events.created)-firstCount)
	}
	if out.Skipped != 1 || out.Processed != 0 {
		t.Errorf("second run summary = %+v", out)
	}
}

func TestRunPartialMaterializationNotCommitted(t *testing.T) {
	src, text := pdfItem("msg-1", "note content")
	parser := &fakeParser{tasks: map[string][]model.Task{
		text: {{Summary: "First ok"}, {Summary: "Second fails"}},
	}}
	events := &fakeEvents{failFor: map[string]bool{"Second fails": true}}
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, events, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Failed != 1 || out.Processed != 0 {
		t.Errorf("summary = %+v", out)
	}
	if _, ok := ledger.committed["msg-1"]; ok {
		t.Errorf("partially materialized item must not be committed")
	}
	if len(src.consumed) != 0 {
		t.Errorf("failed item must not be marked consumed")
	}
}

func TestRunZeroTasksNotCommitted(t *testing.T) {
	src, _ := pdfItem("msg-1", "blank page scan")
	parser := &fakeParser{} // parses nothing
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, &fakeEvents{}, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Failed != 1 {
		t.Errorf("zero-task item should count as failed, summary = %+v", out)
	}
	if _, ok := ledger.committed["msg-1"]; ok {
		t.Errorf("zero-task item must stay eligible for retry")
	}
}

func TestRunItemIsolation(t *testing.T) {
	src := &fakeSource{
		items: []model.SourceItem{{ID: "bad"}, {ID: "good"}},
		attachments: map[string][]model.Attachment{
			"bad":  {{Filename: "b.pdf", Data: []byte("bad text")}},
			"good": {{Filename: "g.pdf", Data: []byte("good text")}},
		},
	}
	parser := &fakeParser{tasks: map[string][]model.Task{
		"good text": {{Summary: "Survives"}},
	}}
	events := &fakeEvents{}
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, events, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Processed != 1 || out.Failed != 1 {
		t.Errorf("summary = %+v", out)
	}
	if _, ok := ledger.committed["good"]; !ok {
		t.Errorf("one item's failure must not affect another's commit")
	}
}

func TestRunInlineBodyFallback(t *testing.T) {
	src := &fakeSource{
		items:  []model.SourceItem{{ID: "msg-1"}},
		bodies: map[string]string{"msg-1": "inline todo list"},
	}
	parser := &fakeParser{tasks: map[string][]model.Task{"inline todo list": {{Summary: "From body"}}}}
	events := &fakeEvents{}
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, events, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Processed != 1 {
		t.Errorf("summary = %+v", out)
	}
	if len(events.created) != 1 || events.created[0].Summary != "From body" {
		t.Errorf("events = %+v", events.created)
	}
}

func TestRunDegradedCounting(t *testing.T) {
	src, text := pdfItem("msg-1", "note content")
	parser := &fakeParser{tasks: map[string][]model.Task{
		text: {
			{Summary: "Okay", Due: model.OnDate(2026, 9, 1, time.UTC)},
			{Summary: "Degraded", Due: model.OnDate(2026, 9, 1, time.UTC), SuggestedDateTime: "not-a-date"},
		},
	}}
	ledger := newFakeLedger()

	out, err := newPipeline(src, parser, &fakeEvents{}, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Degraded != 1 {
		t.Errorf("degraded = %d, want 1", out.Degraded)
	}
	// Degradation is a warning, not a failure: the item still commits.
	if out.Processed != 1 {
		t.Errorf("summary = %+v", out)
	}
}

func TestRunLedgerFailuresAreFatal(t *testing.T) {
	t.Run("Snapshot failure", func(t *testing.T) {
		src, _ := pdfItem("msg-1", "x")
		ledger := newFakeLedger()
		ledger.snapshotErr = errors.New("disk gone")

		_, err := newPipeline(src, &fakeParser{}, &fakeEvents{}, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
		if err == nil {
			t.Fatal("snapshot failure must abort the run")
		}
	})

	t.Run("Commit failure", func(t *testing.T) {
		src, text := pdfItem("msg-1", "note content")
		parser := &fakeParser{tasks: map[string][]model.Task{text: {{Summary: "T"}}}}
		ledger := newFakeLedger()
		ledger.commitErr = errors.New("disk full")

		_, err := newPipeline(src, parser, &fakeEvents{}, ledger).Run(context.Background(), ingestion.RunInput{Now: testNow})
		if err == nil {
			t.Fatal("commit failure must abort the run")
		}
	})
}

func TestLastRun(t *testing.T) {
	src, text := pdfItem("msg-1", "note content")
	parser := &fakeParser{tasks: map[string][]model.Task{text: {{Summary: "T"}}}}
	pipeline := newPipeline(src, parser, &fakeEvents{}, newFakeLedger())

	if _, ok := pipeline.LastRun(context.Background()); ok {
		t.Fatal("LastRun reported a run before any completed")
	}

	out, err := pipeline.Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	last, ok := pipeline.LastRun(context.Background())
	if !ok {
		t.Fatal("LastRun not recorded after a completed run")
	}
	if last.RunID != out.RunID {
		t.Errorf("LastRun.RunID = %s, want %s", last.RunID, out.RunID)
	}
}

func TestRunListFailure(t *testing.T) {
	src := &fakeSource{listErr: fmt.Errorf("imap down")}
	_, err := newPipeline(src, &fakeParser{}, &fakeEvents{}, newFakeLedger()).Run(context.Background(), ingestion.RunInput{Now: testNow})
	if err == nil {
		t.Fatal("list failure must surface as a run error")
	}
}
