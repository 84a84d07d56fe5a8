// Package vulnerabilities implements the read-only REST handlers over the
// kev collection.
package vulnerabilities

import (
	"context"
	"strings"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/internal/stats"
	"github.com/ortelius/kevsync/model"
)

const defaultListLimit = 50

// GetStats returns the catalog summary computed from the store.
func GetStats(conn database.DBConnection, collection string) fiber.Handler {
	collector := stats.New(conn, collection)
	return func(c *fiber.Ctx) error {
		summary, err := collector.Collect(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to compute stats: " + err.Error(),
			})
		}
		return c.JSON(summary)
	}
}

// ListVulnerabilities returns enriched records, optionally filtered by
// risk_level and overdue, newest additions first.
func ListVulnerabilities(conn database.DBConnection, collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultListLimit)
		if limit <= 0 || limit > 500 {
			limit = defaultListLimit
		}

		filters := []string{}
		bindVars := map[string]interface{}{
			"@collection": collection,
			"limit":       limit,
		}

		if risk := strings.ToUpper(c.Query("risk_level")); risk != "" {
			filters = append(filters, "FILTER d.risk_level == @risk")
			bindVars["risk"] = risk
		}
		if overdue := c.Query("overdue"); overdue != "" {
			filters = append(filters, "FILTER d.is_overdue == @overdue")
			bindVars["overdue"] = overdue == "true"
		}

		query := `
			FOR d IN @@collection
				` + strings.Join(filters, "\n\t\t\t\t") + `
				SORT d.date_added DESC
				LIMIT @limit
				RETURN d
		`

		records, err := queryRecords(c.Context(), conn, query, bindVars)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to query vulnerabilities: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"count":           len(records),
			"vulnerabilities": records,
		})
	}
}

// GetVulnerability returns the single document for a CVE identifier.
func GetVulnerability(conn database.DBConnection, collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cveID := c.Params("cveid")

		query := `
			FOR d IN @@collection
				FILTER d.cve_id == @cve_id
				LIMIT 1
				RETURN d
		`
		records, err := queryRecords(c.Context(), conn, query, map[string]interface{}{
			"@collection": collection,
			"cve_id":      cveID,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to query vulnerability: " + err.Error(),
			})
		}

		if len(records) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Vulnerability not found: " + cveID,
			})
		}

		return c.JSON(records[0])
	}
}

func queryRecords(ctx context.Context, conn database.DBConnection, query string, bindVars map[string]interface{}) ([]model.EnrichedKEV, error) {
	cursor, err := conn.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	records := []model.EnrichedKEV{}
	for cursor.HasMore() {
		var record model.EnrichedKEV
		if _, err := cursor.ReadDocument(ctx, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
