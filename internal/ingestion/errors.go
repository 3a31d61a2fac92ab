package ingestion

import "errors"

// Domain-specific errors for the ingestion package.
var (
	// ErrNoTasksExtracted marks an item whose content yielded zero
	// tasks; the item stays uncommitted so a future run retries it.
	ErrNoTasksExtracted = errors.New("no tasks extracted from item content")

	// ErrNoContent marks an item with neither attachments nor an
	// inline body.
	ErrNoContent = errors.New("item has no processable content")

	// ErrRunInProgress is returned when a run is requested while
	// another is still executing.
	ErrRunInProgress = errors.New("an ingestion run is already in progress")
)
