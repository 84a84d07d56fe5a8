package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/ortelius/kevsync/events/modules/ingest"
	"github.com/ortelius/kevsync/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	records []model.KEVRecord
	err     error
	called  bool
}

func (f *fakeExtractor) Fetch(ctx context.Context) ([]model.KEVRecord, error) {
	f.called = true
	return f.records, f.err
}

type fakeTransformer struct {
	enriched []model.EnrichedKEV
	report   model.TransformReport
	called   bool
}

func (f *fakeTransformer) Transform(records []model.KEVRecord) ([]model.EnrichedKEV, model.TransformReport) {
	f.called = true
	return f.enriched, f.report
}

func (f *fakeTransformer) RunID() string { return "run-1" }

type fakeLoader struct {
	stats  model.LoadStats
	err    error
	got    []model.EnrichedKEV
	called bool
}

func (f *fakeLoader) Load(ctx context.Context, records []model.EnrichedKEV) (model.LoadStats, error) {
	f.called = true
	f.got = records
	return f.stats, f.err
}

type fakeSummarizer struct {
	stats  model.CatalogStats
	err    error
	called bool
}

func (f *fakeSummarizer) Collect(ctx context.Context) (model.CatalogStats, error) {
	f.called = true
	return f.stats, f.err
}

type fakePublisher struct {
	event  ingest.CompletedEvent
	err    error
	called bool
}

func (f *fakePublisher) PublishCompleted(ctx context.Context, event ingest.CompletedEvent) error {
	f.called = true
	f.event = event
	return f.err
}

func rawRecords(n int) []model.KEVRecord {
	out := make([]model.KEVRecord, n)
	for i := range out {
		out[i] = model.KEVRecord{
			CveID:           "CVE-2024-000" + string(rune('1'+i)),
			CatalogMetadata: model.CatalogMetadata{CatalogVersion: "2024.1"},
		}
	}
	return out
}

func enrichedDocs(n int) []model.EnrichedKEV {
	out := make([]model.EnrichedKEV, n)
	for i := range out {
		out[i] = model.EnrichedKEV{CveID: "CVE-2024-000" + string(rune('1'+i))}
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	ext := &fakeExtractor{records: rawRecords(2)}
	tr := &fakeTransformer{
		enriched: enrichedDocs(2),
		report:   model.TransformReport{Transformed: 2},
	}
	ld := &fakeLoader{stats: model.LoadStats{Inserted: 1, Updated: 1}}
	sum := &fakeSummarizer{}
	pub := &fakePublisher{}

	p := &Pipeline{
		Extractor:   ext,
		Transformer: tr,
		Loader:      ld,
		Summarizer:  sum,
		Publisher:   pub,
		Logger:      zap.NewNop(),
	}

	require.NoError(t, p.Run(context.Background()))
	assert.True(t, ext.called)
	assert.True(t, tr.called)
	assert.True(t, ld.called)
	assert.True(t, sum.called)
	assert.True(t, pub.called)
	assert.Len(t, ld.got, 2)

	assert.Equal(t, "run-1", pub.event.RunID)
	assert.Equal(t, "2024.1", pub.event.CatalogVersion)
	assert.Equal(t, 2, pub.event.RecordsFetched)
	assert.Equal(t, 2, pub.event.Transformed)
	assert.Equal(t, 1, pub.event.Load.Inserted)
	assert.Equal(t, 1, pub.event.Load.Updated)
}

func TestRunExtractionErrorStopsPipeline(t *testing.T) {
	wantErr := errors.New("feed down")
	tr := &fakeTransformer{}
	ld := &fakeLoader{}

	p := &Pipeline{
		Extractor:   &fakeExtractor{err: wantErr},
		Transformer: tr,
		Loader:      ld,
		Logger:      zap.NewNop(),
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.False(t, tr.called)
	assert.False(t, ld.called)
}

func TestRunEmptyExtractionIsFatal(t *testing.T) {
	tr := &fakeTransformer{}
	ld := &fakeLoader{}

	p := &Pipeline{
		Extractor:   &fakeExtractor{},
		Transformer: tr,
		Loader:      ld,
		Logger:      zap.NewNop(),
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrNoDataExtracted)
	assert.False(t, tr.called)
	assert.False(t, ld.called)
}

func TestRunEmptyTransformIsFatal(t *testing.T) {
	ld := &fakeLoader{}

	p := &Pipeline{
		Extractor:   &fakeExtractor{records: rawRecords(1)},
		Transformer: &fakeTransformer{report: model.TransformReport{SkippedNum: 1}},
		Loader:      ld,
		Logger:      zap.NewNop(),
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrNoDataTransformed)
	assert.False(t, ld.called)
}

func TestRunLoadErrorStopsPipeline(t *testing.T) {
	wantErr := errors.New("store unavailable")
	sum := &fakeSummarizer{}
	pub := &fakePublisher{}

	p := &Pipeline{
		Extractor:   &fakeExtractor{records: rawRecords(1)},
		Transformer: &fakeTransformer{enriched: enrichedDocs(1)},
		Loader:      &fakeLoader{err: wantErr},
		Summarizer:  sum,
		Publisher:   pub,
		Logger:      zap.NewNop(),
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.False(t, sum.called)
	assert.False(t, pub.called)
}

func TestRunSummaryAndPublishFailuresAreNotFatal(t *testing.T) {
	p := &Pipeline{
		Extractor:   &fakeExtractor{records: rawRecords(1)},
		Transformer: &fakeTransformer{enriched: enrichedDocs(1)},
		Loader:      &fakeLoader{},
		Summarizer:  &fakeSummarizer{err: errors.New("query failed")},
		Publisher:   &fakePublisher{err: errors.New("broker down")},
		Logger:      zap.NewNop(),
	}

	assert.NoError(t, p.Run(context.Background()))
}

func TestRunWithoutOptionalStages(t *testing.T) {
	p := &Pipeline{
		Extractor:   &fakeExtractor{records: rawRecords(1)},
		Transformer: &fakeTransformer{enriched: enrichedDocs(1)},
		Loader:      &fakeLoader{},
		Logger:      zap.NewNop(),
	}

	assert.NoError(t, p.Run(context.Background()))
}
