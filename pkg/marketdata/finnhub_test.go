package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/go-playground/assert/v2"
)

func newTestQuoteSource(t *testing.T, handler http.HandlerFunc) *QuoteSource {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", "test-key")
	cfg.HTTPClient = &http.Client{
		Transport: &rewriteTransport{base: srv.URL, inner: http.DefaultTransport},
	}

	return newQuoteSource(cfg, "SPY", time.Second)
}

func TestQuoteSourceFetch(t *testing.T) {
	var gotToken, gotSymbol string
	source := newTestQuoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Finnhub-Token")
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"c":590.5,"d":2.5,"dp":0.42,"h":592,"l":587.25,"o":588,"pc":588}`))
	})

	outcome := source.Fetch(context.Background(), Snapshot{Date: "2025-01-10"})

	assert.Equal(t, true, outcome.OK())
	assert.Equal(t, QuoteSourceName, outcome.Endpoint)
	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, "SPY", gotSymbol)

	var quote spotQuote
	json.Unmarshal(outcome.Payload, &quote)
	assert.Equal(t, "SPY", quote.Symbol)
	assert.Equal(t, float32(590.5), quote.Current)
	assert.Equal(t, float32(588), quote.PreviousClose)
}

func TestQuoteSourceEmptyQuote(t *testing.T) {
	source := newTestQuoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0}`))
	})

	outcome := source.Fetch(context.Background(), Snapshot{})

	assert.Equal(t, false, outcome.OK())
	assert.Equal(t, "finnhub quote: no data for SPY", outcome.Message())
}

func TestQuoteSourceUnauthorized(t *testing.T) {
	source := newTestQuoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API key"}`))
	})

	outcome := source.Fetch(context.Background(), Snapshot{})

	assert.Equal(t, false, outcome.OK())
	assert.Equal(t, QuoteSourceName, outcome.Endpoint)
}

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
