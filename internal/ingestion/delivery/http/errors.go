package http

import "errors"

var errNoRunYet = errors.New("no ingestion run has completed yet")
