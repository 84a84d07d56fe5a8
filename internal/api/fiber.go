// Package api builds the Fiber application serving the read-only API.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ortelius/kevsync/config"
	"github.com/ortelius/kevsync/database"
	gqlschema "github.com/ortelius/kevsync/graphql"
	"github.com/ortelius/kevsync/restapi"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(conn database.DBConnection, cfg config.Config) (*fiber.App, error) {
	schema, err := gqlschema.CreateSchema(conn, cfg.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL schema: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "kevsync API v1.0",
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	restapi.SetupRoutes(app, conn, cfg.CollectionName, schema)

	return app, nil
}
