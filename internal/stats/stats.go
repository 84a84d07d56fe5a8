// Package stats computes the post-run summary by querying the collection
// the pipeline just wrote.
package stats

import (
	"context"
	"math"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/model"
	"go.uber.org/zap"
)

// One pass over the collection, aggregated server-side.
const statsQuery = `
	LET docs = (
		FOR d IN @@collection
			RETURN {
				risk: d.risk_level,
				ransomware: d.known_ransomware_use,
				overdue: d.is_overdue,
				recent: d.is_recent_addition,
				days: d.days_since_added,
				ingested: d.etl_metadata.ingestion_timestamp
			}
	)
	RETURN {
		total_kevs: LENGTH(docs),
		critical_risk_count: LENGTH(docs[* FILTER CURRENT.risk == "CRITICAL"]),
		high_risk_count: LENGTH(docs[* FILTER CURRENT.risk == "HIGH"]),
		medium_risk_count: LENGTH(docs[* FILTER CURRENT.risk == "MEDIUM"]),
		ransomware_known_count: LENGTH(docs[* FILTER CURRENT.ransomware == "Known"]),
		overdue_count: LENGTH(docs[* FILTER CURRENT.overdue == true]),
		recent_additions: LENGTH(docs[* FILTER CURRENT.recent == true]),
		latest_ingestion: MAX(docs[*].ingested),
		avg_days_since_added: AVERAGE(docs[* FILTER CURRENT.days != null].days)
	}
`

// Collector aggregates run statistics from the store.
type Collector struct {
	conn       database.DBConnection
	collection string
}

// New builds a Collector bound to the named collection.
func New(conn database.DBConnection, collection string) *Collector {
	return &Collector{conn: conn, collection: collection}
}

// Collect runs the aggregation and returns the summary.
func (c *Collector) Collect(ctx context.Context) (model.CatalogStats, error) {
	var result model.CatalogStats

	cursor, err := c.conn.Database.Query(ctx, statsQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@collection": c.collection,
		},
	})
	if err != nil {
		return result, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return result, err
		}
	}

	if result.AvgDaysSinceAdded != nil {
		rounded := math.Round(*result.AvgDaysSinceAdded*10) / 10
		result.AvgDaysSinceAdded = &rounded
	}

	return result, nil
}

// LogSummary emits the human-readable run summary.
func LogSummary(logger *zap.Logger, s model.CatalogStats) {
	sugar := logger.Sugar()
	sugar.Infof("Pipeline statistics: %d KEVs total", s.TotalKEVs)
	sugar.Infof("  risk tiers: %d CRITICAL, %d HIGH, %d MEDIUM",
		s.CriticalRiskCount, s.HighRiskCount, s.MediumRiskCount)
	sugar.Infof("  %d with known ransomware use, %d overdue, %d added in the last 30 days",
		s.RansomwareKnownCount, s.OverdueCount, s.RecentAdditions)
	if s.LatestIngestion != nil {
		sugar.Infof("  latest ingestion: %s", s.LatestIngestion.Format("2006-01-02T15:04:05Z07:00"))
	}
	if s.AvgDaysSinceAdded != nil {
		sugar.Infof("  average age: %.1f days since added", *s.AvgDaysSinceAdded)
	}
}
