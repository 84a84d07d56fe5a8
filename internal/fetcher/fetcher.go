// Package fetcher extracts the KEV catalog from the upstream feed.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ortelius/kevsync/config"
	"github.com/ortelius/kevsync/model"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Fetcher performs a single GET against the configured feed URL and
// decodes the catalog. One retry on HTTP 429, nothing else.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	feedPath  string
	rateWait  time.Duration
	userAgent string
	logger    *zap.Logger
}

// New builds a Fetcher from the connector configuration.
func New(cfg config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: requestTimeout},
		baseURL:   cfg.BaseURL,
		feedPath:  cfg.FeedPath,
		rateWait:  cfg.RateLimitWait(),
		userAgent: "kevsync/1.0",
		logger:    logger,
	}
}

// Fetch retrieves the catalog and returns its entries with the
// catalog-level metadata attached to each one. Any transport, status or
// decode failure returns an error; the orchestrator treats that as fatal
// for the run.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.KEVRecord, error) {
	url := f.baseURL + f.feedPath
	f.logger.Sugar().Infof("Extracting KEV data from: %s", url)

	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		f.logger.Warn("Rate limit hit, waiting before single retry",
			zap.Duration("wait", f.rateWait*2))

		select {
		case <-time.After(f.rateWait * 2):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if resp, err = f.get(ctx, url); err != nil {
			return nil, fmt.Errorf("feed retry failed: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var catalog model.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	f.logger.Sugar().Infof("KEV Catalog version %s released %s with %d entries, extracted %d",
		catalog.CatalogVersion, catalog.DateReleased, catalog.Count, len(catalog.Vulnerabilities))

	meta := model.CatalogMetadata{
		CatalogVersion: catalog.CatalogVersion,
		DateReleased:   catalog.DateReleased,
		TotalCount:     catalog.Count,
	}
	for i := range catalog.Vulnerabilities {
		catalog.Vulnerabilities[i].CatalogMetadata = meta
	}

	return catalog.Vulnerabilities, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")
	return f.client.Do(req)
}

// Close releases the idle connections held by the HTTP session.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}
