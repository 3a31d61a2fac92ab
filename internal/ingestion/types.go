package ingestion

import "time"

// RunInput is the input for one pipeline run. The zero value asks for a
// run at the current wall-clock time.
type RunInput struct {
	// Now overrides the pipeline's reference time. Zero means
	// time.Now() at run start. Injected for testability.
	Now time.Time
}

// ItemStatus is the terminal state of one candidate item within a run.
type ItemStatus string

const (
	// ItemProcessed: every task materialized, ledger committed.
	ItemProcessed ItemStatus = "processed"
	// ItemFailed: a stage failed (or zero tasks were extracted); not
	// committed, eligible for retry on a future run.
	ItemFailed ItemStatus = "failed"
	// ItemSkipped: already present in the ledger snapshot.
	ItemSkipped ItemStatus = "skipped"
)

// ItemResult is the per-item diagnostic record of a run.
type ItemResult struct {
	ItemID     string     `json:"item_id"`
	Status     ItemStatus `json:"status"`
	TaskCount  int        `json:"task_count"`
	EventCount int        `json:"event_count"`
	Error      string     `json:"error,omitempty"`
}

// RunOutput is the run-level summary: the only required user-visible
// output besides per-item diagnostics.
type RunOutput struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Degraded  int          `json:"degraded"` // tasks scheduled via a malformed-hint fallback
	Items     []ItemResult `json:"items"`
}
