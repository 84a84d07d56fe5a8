// Package restapi provides the router and GraphQL handler for the read API.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/restapi/modules/vulnerabilities"
)

// SetupRoutes configures the REST routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, conn database.DBConnection, collection string, schema graphql.Schema) {
	api := app.Group("/api/v1")

	api.Get("/stats", vulnerabilities.GetStats(conn, collection))
	api.Get("/vulnerabilities", vulnerabilities.ListVulnerabilities(conn, collection))
	api.Get("/vulnerabilities/:cveid", vulnerabilities.GetVulnerability(conn, collection))

	api.Post("/graphql", GraphQLHandler(conn, schema))
}

// GraphQLHandler handles GraphQL requests
func GraphQLHandler(conn database.DBConnection, schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{
					{
						"message": "Invalid request body",
					},
				},
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
		})

		if len(result.Errors) > 0 {
			conn.Logger.Sugar().Warnf("GraphQL errors: %v", result.Errors)
		}

		return c.JSON(result)
	}
}
