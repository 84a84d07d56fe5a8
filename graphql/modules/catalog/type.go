// Package catalog defines the GraphQL types for the KEV catalog.
package catalog

import "github.com/graphql-go/graphql"

// CatalogStatsType represents the run summary over the collection.
var CatalogStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CatalogStats",
	Fields: graphql.Fields{
		"total_kevs":             &graphql.Field{Type: graphql.Int},
		"critical_risk_count":    &graphql.Field{Type: graphql.Int},
		"high_risk_count":        &graphql.Field{Type: graphql.Int},
		"medium_risk_count":      &graphql.Field{Type: graphql.Int},
		"ransomware_known_count": &graphql.Field{Type: graphql.Int},
		"overdue_count":          &graphql.Field{Type: graphql.Int},
		"recent_additions":       &graphql.Field{Type: graphql.Int},
		"latest_ingestion":       &graphql.Field{Type: graphql.DateTime},
		"avg_days_since_added":   &graphql.Field{Type: graphql.Float},
	},
})

// VulnerabilityType represents one enriched KEV document.
var VulnerabilityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vulnerability",
	Fields: graphql.Fields{
		"cve_id":                  &graphql.Field{Type: graphql.String},
		"vendor_project":          &graphql.Field{Type: graphql.String},
		"product":                 &graphql.Field{Type: graphql.String},
		"vulnerability_name":      &graphql.Field{Type: graphql.String},
		"short_description":       &graphql.Field{Type: graphql.String},
		"required_action":         &graphql.Field{Type: graphql.String},
		"date_added":              &graphql.Field{Type: graphql.String},
		"due_date":                &graphql.Field{Type: graphql.String},
		"known_ransomware_use":    &graphql.Field{Type: graphql.String},
		"notes":                   &graphql.Field{Type: graphql.String},
		"risk_level":              &graphql.Field{Type: graphql.String},
		"is_recent_addition":      &graphql.Field{Type: graphql.Boolean},
		"is_overdue":              &graphql.Field{Type: graphql.Boolean},
		"description_length":      &graphql.Field{Type: graphql.Int},
		"has_notes":               &graphql.Field{Type: graphql.Boolean},
		"vendor_product_combined": &graphql.Field{Type: graphql.String},
		"days_since_added":        &graphql.Field{Type: graphql.Int},
		"days_until_due":          &graphql.Field{Type: graphql.Int},
		"catalog_version":         &graphql.Field{Type: graphql.String},
		"catalog_date_released":   &graphql.Field{Type: graphql.String},
		"catalog_total_count":     &graphql.Field{Type: graphql.Int},
	},
})
