package ingestion

import (
	"context"

	"smart-todo-scheduler/internal/model"
)

// UseCase is the pipeline entry point.
type UseCase interface {
	// Run executes one full ingestion pass: list candidate items,
	// filter against the ledger, extract text, parse tasks, resolve
	// windows, materialize events, and commit fully-processed items.
	Run(ctx context.Context, input RunInput) (RunOutput, error)

	// LastRun returns the summary of the most recent completed run.
	// ok is false until at least one run has finished.
	LastRun(ctx context.Context) (RunOutput, bool)
}

// Source retrieves candidate items and their content from the mail
// store.
type Source interface {
	// ListCandidateItems returns items matching the configured filter,
	// processed or not; the pipeline filters against the ledger.
	ListCandidateItems(ctx context.Context) ([]model.SourceItem, error)

	// FetchAttachments downloads the item's attachment blobs.
	FetchAttachments(ctx context.Context, item model.SourceItem) ([]model.Attachment, error)

	// InlineBody returns the item's inline text body, "" when absent.
	InlineBody(ctx context.Context, item model.SourceItem) (string, error)

	// MarkConsumed flags the item consumed at the source (advisory;
	// the ledger is the idempotency source of truth). It never returns
	// an error; failures yield false.
	MarkConsumed(ctx context.Context, itemID string) bool
}

// TextExtractor turns an attachment blob into text.
type TextExtractor interface {
	// ExtractText OCRs the blob. kind is a media hint such as "pdf" or
	// "image".
	ExtractText(ctx context.Context, data []byte, kind string) (string, error)
}

// TaskParser extracts structured tasks from free text.
type TaskParser interface {
	ParseTasks(ctx context.Context, text string) ([]model.Task, error)
}

// EventMaterializer persists a resolved task as a calendar event.
type EventMaterializer interface {
	CreateEvent(ctx context.Context, summary, description string, window model.ScheduledWindow) error
}
