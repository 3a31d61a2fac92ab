package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/internal/model"
)

// Run executes one full ingestion pass. Item failures never cross item
// boundaries; only ledger I/O failures abort the run.
func (uc *implUseCase) Run(ctx context.Context, input ingestion.RunInput) (ingestion.RunOutput, error) {
	if !uc.runMu.TryLock() {
		return ingestion.RunOutput{}, ingestion.ErrRunInProgress
	}
	defer uc.runMu.Unlock()

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := ingestion.RunOutput{
		RunID:     uuid.NewString(),
		StartedAt: now,
	}

	// The snapshot is read once, before any item is touched, so a
	// parallelized variant could fan out without re-claiming items.
	processed, err := uc.ledger.Snapshot(ctx)
	if err != nil {
		return out, fmt.Errorf("ledger snapshot failed, aborting run: %w", err)
	}

	items, err := uc.source.ListCandidateItems(ctx)
	if err != nil {
		return out, fmt.Errorf("listing candidate items: %w", err)
	}

	uc.l.Infof(ctx, "run %s: %d candidates, %d previously processed", out.RunID, len(items), len(processed))

	for _, item := range items {
		if _, done := processed[item.ID]; done {
			out.Skipped++
			out.Items = append(out.Items, ingestion.ItemResult{ItemID: item.ID, Status: ingestion.ItemSkipped})
			continue
		}

		result, degraded, fatal := uc.processItem(ctx, item, now)
		if fatal != nil {
			out.Items = append(out.Items, result)
			return out, fatal
		}

		out.Degraded += degraded
		out.Items = append(out.Items, result)
		switch result.Status {
		case ingestion.ItemProcessed:
			out.Processed++
		default:
			out.Failed++
		}
	}

	uc.l.Infof(ctx, "run %s done: processed=%d failed=%d skipped=%d degraded=%d",
		out.RunID, out.Processed, out.Failed, out.Skipped, out.Degraded)
	uc.recordLastRun(out)
	return out, nil
}

func (uc *implUseCase) recordLastRun(out ingestion.RunOutput) {
	uc.lastMu.Lock()
	defer uc.lastMu.Unlock()
	uc.last = &out
}

// LastRun implements ingestion.UseCase.
func (uc *implUseCase) LastRun(context.Context) (ingestion.RunOutput, bool) {
	uc.lastMu.Lock()
	defer uc.lastMu.Unlock()
	if uc.last == nil {
		return ingestion.RunOutput{}, false
	}
	return *uc.last, true
}

// processItem runs EXTRACT → PARSE → RESOLVE_ALL → MATERIALIZE_ALL →
// COMMIT for one item. The returned error is run-fatal (ledger I/O
// only); item-scoped failures are reported in the ItemResult and leave
// the ledger untouched so a future run retries the item.
func (uc *implUseCase) processItem(ctx context.Context, item model.SourceItem, now time.Time) (ingestion.ItemResult, int, error) {
	result := ingestion.ItemResult{ItemID: item.ID}

	fail := func(err error) (ingestion.ItemResult, int, error) {
		uc.l.Warnf(ctx, "item %s failed, will retry next run: %v", item.ID, err)
		result.Status = ingestion.ItemFailed
		result.Error = err.Error()
		return result, 0, nil
	}

	text, err := uc.extractContent(ctx, item)
	if err != nil {
		return fail(err)
	}

	tasks, err := uc.parser.ParseTasks(ctx, text)
	if err != nil {
		return fail(fmt.Errorf("parsing tasks: %w", err))
	}
	if len(tasks) == 0 {
		// Zero tasks may mean a transient parser defect; never commit.
		return fail(ingestion.ErrNoTasksExtracted)
	}
	result.TaskCount = len(tasks)

	// Resolve every task before materializing anything.
	degraded := 0
	windows := make([]model.ScheduledWindow, len(tasks))
	for i, task := range tasks {
		res := uc.resolver.Resolve(task, now)
		if res.MalformedSuggestion {
			// Distinct from a cleanly absent hint: upstream parser defect.
			uc.l.Warnf(ctx, "item %s task %q: malformed suggested datetime %q, degraded to %s",
				item.ID, task.Summary, task.SuggestedDateTime, res.Branch)
			degraded++
		}
		windows[i] = res.Window
	}

	for i, task := range tasks {
		if err := uc.events.CreateEvent(ctx, task.Summary, buildEventDescription(task, now), windows[i]); err != nil {
			// Partial materialization is treated as failure: the item
			// stays uncommitted, favoring duplicate events over
			// silently dropped tasks.
			result.EventCount = i
			return fail(fmt.Errorf("materializing %q: %w", task.Summary, err))
		}
	}
	result.EventCount = len(tasks)

	if err := uc.ledger.Commit(ctx, item.ID); err != nil {
		result.Status = ingestion.ItemFailed
		result.Error = err.Error()
		return result, degraded, fmt.Errorf("ledger commit failed, aborting run: %w", err)
	}

	if !uc.source.MarkConsumed(ctx, item.ID) {
		uc.l.Warnf(ctx, "item %s committed but could not be marked consumed at the source", item.ID)
	}

	result.Status = ingestion.ItemProcessed
	return result, degraded, nil
}
