// Package ingest defines types for Kafka event publishing of completed
// catalog ingestion runs.
package ingest

import (
	"time"

	"github.com/ortelius/kevsync/model"
)

// CompletedEvent is published after a pipeline run finishes successfully.
type CompletedEvent struct {
	EventType     string    `json:"event_type"` // "kev.ingest.completed"
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	RunID          string `json:"run_id"`
	CatalogVersion string `json:"catalog_version"`

	RecordsFetched int `json:"records_fetched"`
	Transformed    int `json:"transformed"`
	Skipped        int `json:"skipped"`

	Load model.LoadStats `json:"load"`
}
