// Package model - per-record outcomes and run statistics
package model

import "time"

// RecordResult is the explicit outcome of transforming one raw entry.
type RecordResult struct {
	CveID   string `json:"cve_id"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// TransformReport collects the per-record outcomes of one transform batch.
type TransformReport struct {
	ProcessedAt time.Time      `json:"processed_at"`
	RunID       string         `json:"run_id"`
	Results     []RecordResult `json:"results"`
	Transformed int            `json:"transformed"`
	SkippedNum  int            `json:"skipped"`
}

// LoadStats reports what the persister did with one batch.
type LoadStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// CatalogStats is the run summary computed from the store after a load.
type CatalogStats struct {
	TotalKEVs            int        `json:"total_kevs"`
	CriticalRiskCount    int        `json:"critical_risk_count"`
	HighRiskCount        int        `json:"high_risk_count"`
	MediumRiskCount      int        `json:"medium_risk_count"`
	RansomwareKnownCount int        `json:"ransomware_known_count"`
	OverdueCount         int        `json:"overdue_count"`
	RecentAdditions      int        `json:"recent_additions"`
	LatestIngestion      *time.Time `json:"latest_ingestion"`
	AvgDaysSinceAdded    *float64   `json:"avg_days_since_added"`
}
