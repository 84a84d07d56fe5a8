package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ortelius/kevsync/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const catalogBody = `{
	"title": "CISA Catalog of Known Exploited Vulnerabilities",
	"catalogVersion": "2024.06.01",
	"dateReleased": "2024-06-01",
	"count": 2,
	"vulnerabilities": [
		{"cveID": "CVE-2024-0001", "vendorProject": "Acme", "product": "Gadget"},
		{"cveID": "CVE-2024-0002", "vendorProject": "Example", "product": "Widget"}
	]
}`

func testFetcher(t *testing.T, serverURL string) *Fetcher {
	t.Helper()
	f := New(config.Config{
		BaseURL:        serverURL,
		FeedPath:       "/feed",
		RateLimitDelay: 0.01,
	}, zap.NewNop())
	t.Cleanup(f.Close)
	return f
}

func TestFetchAttachesCatalogMetadata(t *testing.T) {
	var gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	records, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "kevsync/1.0", gotAgent)

	for _, rec := range records {
		assert.Equal(t, "2024.06.01", rec.CatalogMetadata.CatalogVersion)
		assert.Equal(t, "2024-06-01", rec.CatalogMetadata.DateReleased)
		assert.Equal(t, 2, rec.CatalogMetadata.TotalCount)
	}
	assert.Equal(t, "CVE-2024-0001", records[0].CveID)
}

func TestFetchRetriesOnceOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	records, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchGivesUpAfterSecondRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"catalogVersion": "2024.06.01", "count": 0, "vulnerabilities": []}`))
	}))
	defer srv.Close()

	records, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testFetcher(t, srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed request failed")
}
