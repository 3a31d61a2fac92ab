package usecase

import (
	"sync"

	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/internal/ingestion/repository"
	"smart-todo-scheduler/internal/schedule"
	pkgLog "smart-todo-scheduler/pkg/log"
)

type implUseCase struct {
	l         pkgLog.Logger
	source    ingestion.Source
	extractor ingestion.TextExtractor
	parser    ingestion.TaskParser
	events    ingestion.EventMaterializer
	ledger    repository.Ledger
	resolver  schedule.Resolver

	runMu sync.Mutex // one run at a time

	lastMu sync.Mutex
	last   *ingestion.RunOutput
}

// New creates the ingestion pipeline UseCase. All collaborators are
// required; the resolver carries the scheduling knobs.
func New(
	l pkgLog.Logger,
	source ingestion.Source,
	extractor ingestion.TextExtractor,
	parser ingestion.TaskParser,
	events ingestion.EventMaterializer,
	ledger repository.Ledger,
	resolver schedule.Resolver,
) *implUseCase {
	return &implUseCase{
		l:         l,
		source:    source,
		extractor: extractor,
		parser:    parser,
		events:    events,
		ledger:    ledger,
		resolver:  resolver,
	}
}
