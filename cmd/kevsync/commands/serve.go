package commands

import (
	"context"

	"github.com/ortelius/kevsync/config"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only catalog API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := database.InitLogger()
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		conn, err := database.InitializeDatabase(ctx, cfg, logger)
		if err != nil {
			logger.Sugar().Errorf("Failed to connect to the store: %v", err)
			return err
		}
		defer conn.Close()

		app, err := api.NewFiberApp(conn, cfg)
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Starting server on port %s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	},
}
