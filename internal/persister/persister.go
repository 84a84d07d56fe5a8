// Package persister loads enriched documents into the kev collection.
package persister

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/model"
)

// upsertQuery replaces the full document for an existing cve_id and
// inserts otherwise. OLD is null only on insert.
const upsertQuery = `
	UPSERT { cve_id: @cve_id }
	INSERT @doc
	REPLACE @doc IN @@collection
	RETURN { inserted: OLD == null }
`

// Persister writes one batch of enriched records, keyed on cve_id.
type Persister struct {
	conn       database.DBConnection
	collection string
}

// New builds a Persister bound to the named collection.
func New(conn database.DBConnection, collection string) *Persister {
	return &Persister{conn: conn, collection: collection}
}

// Load ensures the secondary indexes exist, then upserts every record.
// A failing record is logged and skipped; a failing index setup fails the
// whole load. An empty batch is a no-op success.
func (p *Persister) Load(ctx context.Context, records []model.EnrichedKEV) (model.LoadStats, error) {
	var stats model.LoadStats

	if len(records) == 0 {
		p.conn.Logger.Warn("No data to load")
		return stats, nil
	}

	if err := database.EnsureIndexes(ctx, p.conn, p.collection); err != nil {
		return stats, fmt.Errorf("index setup failed: %w", err)
	}

	for _, record := range records {
		inserted, err := p.upsert(ctx, record)
		if err != nil {
			p.conn.Logger.Sugar().Warnf("Failed to persist KEV %s: %v", record.CveID, err)
			stats.Failed++
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	p.conn.Logger.Sugar().Infof("Data load completed: %d inserted, %d updated, %d failed",
		stats.Inserted, stats.Updated, stats.Failed)
	return stats, nil
}

func (p *Persister) upsert(ctx context.Context, record model.EnrichedKEV) (bool, error) {
	bindVars := map[string]interface{}{
		"@collection": p.collection,
		"cve_id":      record.CveID,
		"doc":         record,
	}

	cursor, err := p.conn.Database.Query(ctx, upsertQuery, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	var result struct {
		Inserted bool `json:"inserted"`
	}
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return false, err
		}
	}

	return result.Inserted, nil
}
