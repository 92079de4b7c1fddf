package model

import "time"

// LoadStatus is the outcome of the primary fetch of an activation.
type LoadStatus string

const (
	LoadPublished LoadStatus = "published"
	LoadFailed    LoadStatus = "failed"
)

// Load is one activation of the file list as recorded in the load history.
// CompletedAt stays nil until every enrichment fetch has finished.
type Load struct {
	ID           string     `json:"id"`
	Query        string     `json:"query"`
	Status       LoadStatus `json:"status"`
	FileCount    int        `json:"file_count"`
	Enriched     int        `json:"enriched"`
	EnrichFailed int        `json:"enrich_failed"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
