// Package graphql assembles the root schema from the per-module query fields.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/graphql/modules/catalog"
)

// CreateSchema builds the root query schema over the given collection.
func CreateSchema(conn database.DBConnection, collection string) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range catalog.GetQueryFields(conn, collection) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
