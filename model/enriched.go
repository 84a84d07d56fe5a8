// Package model - enriched document shape persisted per vulnerability
package model

import "time"

// Risk tiers assigned by the normalizer, highest first.
const (
	RiskCritical = "CRITICAL"
	RiskHigh     = "HIGH"
	RiskMedium   = "MEDIUM"
)

// RansomwareKnown is the feed value marking confirmed ransomware campaign use.
const RansomwareKnown = "Known"

// ETLMetadata describes the pipeline run that produced a document.
type ETLMetadata struct {
	IngestionTimestamp time.Time `json:"ingestion_timestamp"`
	Source             string    `json:"source"`  // "cisa_kev_catalog"
	Version            string    `json:"version"` // connector schema version
	RecordID           string    `json:"record_id"`
	RunID              string    `json:"run_id"`
	DataQualityScore   float64   `json:"data_quality_score"`
}

// EnrichedKEV is the document stored in the kev collection, one per CVE ID.
// It carries the raw entry verbatim, flattened cleaned copies, and the
// derived fields computed by the normalizer.
type EnrichedKEV struct {
	Key string `json:"_key,omitempty"`

	OriginalData KEVRecord   `json:"original_data"`
	ETLMetadata  ETLMetadata `json:"etl_metadata"`

	// Flattened and whitespace-trimmed raw fields
	CveID             string `json:"cve_id"`
	VendorProject     string `json:"vendor_project"`
	Product           string `json:"product"`
	VulnerabilityName string `json:"vulnerability_name"`
	ShortDescription  string `json:"short_description"`
	RequiredAction    string `json:"required_action"`
	DateAdded         string `json:"date_added"`
	DueDate           string `json:"due_date"`
	KnownRansomware   string `json:"known_ransomware_use"`
	Notes             string `json:"notes"`

	// Parsed dates, nil when the feed value was empty or unparseable
	DateAddedParsed *time.Time `json:"date_added_parsed"`
	DueDateParsed   *time.Time `json:"due_date_parsed"`

	// Derived fields
	IsRecentAddition      bool   `json:"is_recent_addition"`
	IsOverdue             bool   `json:"is_overdue"`
	RiskLevel             string `json:"risk_level"`
	DescriptionLength     int    `json:"description_length"`
	HasNotes              bool   `json:"has_notes"`
	VendorProductCombined string `json:"vendor_product_combined"`
	DaysSinceAdded        *int   `json:"days_since_added"`
	DaysUntilDue          *int   `json:"days_until_due"`

	// Catalog metadata copied from the batch
	CatalogVersion      string `json:"catalog_version"`
	CatalogDateReleased string `json:"catalog_date_released"`
	CatalogTotalCount   int    `json:"catalog_total_count"`
}
