package model

// SourceItem is one unit of ingestion, e.g. a single email. ID must be
// stable across runs; it is the key recorded in the processed-item
// ledger.
type SourceItem struct {
	ID      string
	Subject string
	Snippet string
}

// Attachment is a raw attachment blob fetched for a SourceItem.
type Attachment struct {
	Filename string
	Data     []byte
}

// Environment identifies the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
