package http

import (
	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/pkg/log"
)

type handler struct {
	l  log.Logger
	uc ingestion.UseCase
}

// New creates the HTTP handler for the ingestion pipeline.
func New(l log.Logger, uc ingestion.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
