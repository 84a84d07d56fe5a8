// Package pipeline sequences the extract, transform and load stages of a
// single connector run.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/ortelius/kevsync/events/modules/ingest"
	"github.com/ortelius/kevsync/internal/stats"
	"github.com/ortelius/kevsync/model"
	"go.uber.org/zap"
)

// Stage failures surfaced by Run.
var (
	ErrNoDataExtracted   = errors.New("no data extracted")
	ErrNoDataTransformed = errors.New("no data transformed")
)

// Extractor retrieves the raw catalog entries.
type Extractor interface {
	Fetch(ctx context.Context) ([]model.KEVRecord, error)
}

// Transformer enriches raw entries into documents.
type Transformer interface {
	Transform(records []model.KEVRecord) ([]model.EnrichedKEV, model.TransformReport)
	RunID() string
}

// Loader persists enriched documents.
type Loader interface {
	Load(ctx context.Context, records []model.EnrichedKEV) (model.LoadStats, error)
}

// Summarizer computes the post-run statistics from the store.
type Summarizer interface {
	Collect(ctx context.Context) (model.CatalogStats, error)
}

// Publisher announces a completed run. Optional.
type Publisher interface {
	PublishCompleted(ctx context.Context, event ingest.CompletedEvent) error
}

// Pipeline wires the stages together. Summarizer and Publisher may be nil.
type Pipeline struct {
	Extractor   Extractor
	Transformer Transformer
	Loader      Loader
	Summarizer  Summarizer
	Publisher   Publisher
	Logger      *zap.Logger
}

// Run executes the strict fetch → transform → load sequence once. An
// empty result at fetch or transform aborts the run with failure. The
// summary and the run event are produced only after a successful load;
// a failure in either is logged, not fatal, since the data is already
// durable at that point.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Logger.Info("Starting KEV ETL pipeline execution",
		zap.String("run_id", p.Transformer.RunID()))
	start := time.Now()

	raw, err := p.Extractor.Fetch(ctx)
	if err != nil {
		p.Logger.Sugar().Errorf("Extraction failed, stopping pipeline: %v", err)
		return err
	}
	if len(raw) == 0 {
		p.Logger.Error("No data extracted, stopping pipeline")
		return ErrNoDataExtracted
	}

	enriched, report := p.Transformer.Transform(raw)
	if len(enriched) == 0 {
		p.Logger.Error("No data transformed, stopping pipeline")
		return ErrNoDataTransformed
	}

	loadStats, err := p.Loader.Load(ctx, enriched)
	if err != nil {
		p.Logger.Sugar().Errorf("Data load failed, stopping pipeline: %v", err)
		return err
	}

	p.Logger.Sugar().Infof("ETL pipeline completed successfully in %.2f seconds",
		time.Since(start).Seconds())

	if p.Summarizer != nil {
		if summary, err := p.Summarizer.Collect(ctx); err != nil {
			p.Logger.Sugar().Warnf("Failed to get pipeline stats: %v", err)
		} else {
			stats.LogSummary(p.Logger, summary)
		}
	}

	if p.Publisher != nil {
		event := ingest.CompletedEvent{
			RunID:          p.Transformer.RunID(),
			CatalogVersion: raw[0].CatalogMetadata.CatalogVersion,
			RecordsFetched: len(raw),
			Transformed:    report.Transformed,
			Skipped:        report.SkippedNum,
			Load:           loadStats,
		}
		if err := p.Publisher.PublishCompleted(ctx, event); err != nil {
			p.Logger.Sugar().Warnf("Failed to publish run event: %v", err)
		}
	}

	return nil
}
