// Package catalog defines the GraphQL queries for the KEV catalog.
package catalog

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/kevsync/database"
)

// GetQueryFields returns the catalog queries to be mounted in the root schema
func GetQueryFields(conn database.DBConnection, collection string) graphql.Fields {
	return graphql.Fields{
		"catalogStats": &graphql.Field{
			Type: CatalogStatsType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveStats(conn, collection)
			},
		},
		"vulnerability": &graphql.Field{
			Type: VulnerabilityType,
			Args: graphql.FieldConfigArgument{
				"cveID": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				cveID := p.Args["cveID"].(string)
				return ResolveVulnerability(conn, collection, cveID)
			},
		},
		"vulnerabilities": &graphql.Field{
			Type: graphql.NewList(VulnerabilityType),
			Args: graphql.FieldConfigArgument{
				"riskLevel": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				riskLevel := p.Args["riskLevel"].(string)
				limit := p.Args["limit"].(int)
				return ResolveVulnerabilities(conn, collection, riskLevel, limit)
			},
		},
	}
}
