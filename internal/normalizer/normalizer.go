// Package normalizer turns raw KEV entries into enriched documents with
// derived risk fields. The transform is pure over its inputs plus one
// processing timestamp captured when the Normalizer is constructed, so a
// batch is reproducible and borderline day counts cannot skew mid-run.
package normalizer

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/kevsync/model"
	"github.com/ortelius/kevsync/util"
	"go.uber.org/zap"
)

const (
	// SourceTag identifies documents produced by this connector.
	SourceTag = "cisa_kev_catalog"
	// SchemaVersion of the enriched document shape.
	SchemaVersion = "1.0"

	recentWindowDays = 30
)

// Date layouts accepted by the feed, tried in order. Anything else is
// treated as "no date".
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// riskKeywords in a vulnerability name promote it to HIGH.
var riskKeywords = []string{"remote", "execution", "bypass", "privilege"}

// Normalizer transforms a batch of raw entries, order-preserving.
type Normalizer struct {
	now    time.Time
	runID  string
	logger *zap.Logger
}

// New builds a Normalizer stamped with the current UTC time and a fresh
// run ID.
func New(logger *zap.Logger) *Normalizer {
	return NewAt(logger, time.Now().UTC(), uuid.NewString())
}

// NewAt builds a Normalizer with an explicit processing timestamp and run
// ID. Tests use this to pin derived day counts.
func NewAt(logger *zap.Logger, now time.Time, runID string) *Normalizer {
	return &Normalizer{now: now, runID: runID, logger: logger}
}

// RunID returns the run identifier stamped on every document of the batch.
func (n *Normalizer) RunID() string { return n.runID }

// ProcessedAt returns the batch processing timestamp.
func (n *Normalizer) ProcessedAt() time.Time { return n.now }

// Transform enriches each raw entry, one output per accepted input, in
// input order. Entries without a CVE identifier cannot be keyed in the
// store and are skipped with a reason; everything else always transforms.
func (n *Normalizer) Transform(records []model.KEVRecord) ([]model.EnrichedKEV, model.TransformReport) {
	enriched := make([]model.EnrichedKEV, 0, len(records))
	report := model.TransformReport{
		ProcessedAt: n.now,
		RunID:       n.runID,
		Results:     make([]model.RecordResult, 0, len(records)),
	}

	for _, rec := range records {
		if util.IsEmpty(rec.CveID) {
			n.logger.Sugar().Warnf("Skipping KEV record with empty cveID (name %q)", rec.VulnerabilityName)
			report.Results = append(report.Results, model.RecordResult{
				CveID:   rec.CveID,
				Skipped: true,
				Reason:  "missing cve identifier",
			})
			report.SkippedNum++
			continue
		}

		enriched = append(enriched, n.enrich(rec))
		report.Results = append(report.Results, model.RecordResult{CveID: rec.CveID})
		report.Transformed++
	}

	n.logger.Sugar().Infof("Successfully transformed %d KEV records (%d skipped)",
		report.Transformed, report.SkippedNum)
	return enriched, report
}

func (n *Normalizer) enrich(rec model.KEVRecord) model.EnrichedKEV {
	dateAdded := ParseKEVDate(rec.DateAdded)
	dueDate := ParseKEVDate(rec.DueDate)

	isRecent := n.isRecentAddition(dateAdded)
	isOverdue := n.isOverdue(dueDate)

	ransomware := rec.KnownRansomwareCampaignUse
	if ransomware == "" {
		ransomware = "Unknown"
	}

	return model.EnrichedKEV{
		OriginalData: rec,
		ETLMetadata: model.ETLMetadata{
			IngestionTimestamp: n.now,
			Source:             SourceTag,
			Version:            SchemaVersion,
			RecordID:           rec.CveID,
			RunID:              n.runID,
			DataQualityScore:   QualityScore(rec),
		},

		CveID:             rec.CveID,
		VendorProject:     strings.TrimSpace(rec.VendorProject),
		Product:           strings.TrimSpace(rec.Product),
		VulnerabilityName: strings.TrimSpace(rec.VulnerabilityName),
		ShortDescription:  strings.TrimSpace(rec.ShortDescription),
		RequiredAction:    strings.TrimSpace(rec.RequiredAction),
		DateAdded:         rec.DateAdded,
		DueDate:           rec.DueDate,
		KnownRansomware:   ransomware,
		Notes:             strings.TrimSpace(rec.Notes),

		DateAddedParsed: dateAdded,
		DueDateParsed:   dueDate,

		IsRecentAddition:      isRecent,
		IsOverdue:             isOverdue,
		RiskLevel:             RiskLevel(ransomware, isOverdue, rec.VulnerabilityName),
		DescriptionLength:     len(rec.ShortDescription),
		HasNotes:              util.IsNotEmpty(rec.Notes),
		VendorProductCombined: strings.TrimSpace(rec.VendorProject + " " + rec.Product),
		DaysSinceAdded:        n.daysSince(dateAdded),
		DaysUntilDue:          n.daysUntil(dueDate),

		CatalogVersion:      rec.CatalogMetadata.CatalogVersion,
		CatalogDateReleased: rec.CatalogMetadata.DateReleased,
		CatalogTotalCount:   rec.CatalogMetadata.TotalCount,
	}
}

// ParseKEVDate parses a feed date string, trying YYYY-MM-DD then
// MM/DD/YYYY. Empty or unparseable strings yield nil.
func ParseKEVDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// RiskLevel classifies a record, first match wins: confirmed ransomware
// use is CRITICAL, an expired due date is HIGH, a risky keyword in the
// name is HIGH, everything else MEDIUM.
func RiskLevel(ransomwareUse string, isOverdue bool, vulnName string) string {
	switch {
	case ransomwareUse == model.RansomwareKnown:
		return model.RiskCritical
	case isOverdue:
		return model.RiskHigh
	case util.ContainsAnyFold(vulnName, riskKeywords):
		return model.RiskHigh
	default:
		return model.RiskMedium
	}
}

// QualityScore gives 1/6 credit per present required field, rounded to
// two decimals.
func QualityScore(rec model.KEVRecord) float64 {
	const totalChecks = 6
	score := 0.0

	for _, field := range []string{
		rec.CveID,
		rec.VendorProject,
		rec.Product,
		rec.VulnerabilityName,
		rec.ShortDescription,
		rec.RequiredAction,
	} {
		if field != "" {
			score += 1.0 / totalChecks
		}
	}

	return math.Round(score*100) / 100
}

func (n *Normalizer) isRecentAddition(dateAdded *time.Time) bool {
	if dateAdded == nil {
		return false
	}
	cutoff := n.now.AddDate(0, 0, -recentWindowDays)
	return dateAdded.After(cutoff)
}

func (n *Normalizer) isOverdue(dueDate *time.Time) bool {
	if dueDate == nil {
		return false
	}
	return n.now.After(*dueDate)
}

// daysSince floors the signed day difference, matching calendar-day
// semantics for negative spans as well.
func (n *Normalizer) daysSince(t *time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(math.Floor(n.now.Sub(*t).Hours() / 24))
	return &days
}

func (n *Normalizer) daysUntil(t *time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(math.Floor(t.Sub(n.now).Hours() / 24))
	return &days
}
