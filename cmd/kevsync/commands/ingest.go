package commands

import (
	"context"
	"strings"

	"github.com/ortelius/kevsync/config"
	"github.com/ortelius/kevsync/database"
	"github.com/ortelius/kevsync/events/modules/ingest"
	"github.com/ortelius/kevsync/internal/fetcher"
	"github.com/ortelius/kevsync/internal/normalizer"
	"github.com/ortelius/kevsync/internal/persister"
	"github.com/ortelius/kevsync/internal/pipeline"
	"github.com/ortelius/kevsync/internal/stats"
	"github.com/spf13/cobra"
)

// Compile-time checks that the concrete stages satisfy the pipeline.
var (
	_ pipeline.Extractor   = (*fetcher.Fetcher)(nil)
	_ pipeline.Transformer = (*normalizer.Normalizer)(nil)
	_ pipeline.Loader      = (*persister.Persister)(nil)
	_ pipeline.Summarizer  = (*stats.Collector)(nil)
	_ pipeline.Publisher   = (*ingest.Producer)(nil)
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the KEV ETL pipeline once",
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

		fetch := fetcher.New(cfg, logger)
		defer fetch.Close()

		p := &pipeline.Pipeline{
			Extractor:   fetch,
			Transformer: normalizer.New(logger),
			Loader:      persister.New(conn, cfg.CollectionName),
			Summarizer:  stats.New(conn, cfg.CollectionName),
			Logger:      logger,
		}

		if cfg.KafkaBrokers != "" {
			producer := ingest.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
			defer producer.Close() //nolint:errcheck
			p.Publisher = producer
		}

		return p.Run(ctx)
	},
}
