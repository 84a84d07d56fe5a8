// Package catalog implements the resolvers for KEV catalog data.
package catalog

import (
	"context"
	"strings"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/internal/stats"
)

// ResolveStats fetches the catalog summary.
func ResolveStats(conn database.DBConnection, collection string) (interface{}, error) {
	return stats.New(conn, collection).Collect(context.Background())
}

// ResolveVulnerability fetches one document by CVE identifier.
func ResolveVulnerability(conn database.DBConnection, collection, cveID string) (interface{}, error) {
	query := `
		FOR d IN @@collection
			FILTER d.cve_id == @cve_id
			LIMIT 1
			RETURN d
	`
	results, err := queryMaps(conn, query, map[string]interface{}{
		"@collection": collection,
		"cve_id":      cveID,
	})
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

// ResolveVulnerabilities fetches a list of documents with optional risk
// filtering, newest additions first.
func ResolveVulnerabilities(conn database.DBConnection, collection, riskLevel string, limit int) (interface{}, error) {
	filter := ""
	bindVars := map[string]interface{}{
		"@collection": collection,
		"limit":       limit,
	}
	if riskLevel != "" {
		filter = "FILTER d.risk_level == @risk"
		bindVars["risk"] = strings.ToUpper(riskLevel)
	}

	query := `
		FOR d IN @@collection
			` + filter + `
			SORT d.date_added DESC
			LIMIT @limit
			RETURN d
	`
	return queryMaps(conn, query, bindVars)
}

func queryMaps(conn database.DBConnection, query string, bindVars map[string]interface{}) ([]map[string]interface{}, error) {
	ctx := context.Background()

	cursor, err := conn.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	results := []map[string]interface{}{}
	for cursor.HasMore() {
		var doc map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, nil
}
