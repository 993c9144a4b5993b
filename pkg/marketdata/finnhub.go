package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const QuoteSourceName = "spot_quote"

// QuoteSource reports the latest spot quote of the underlying proxy. It has
// no notion of trading date or slot and always returns the live quote.
type QuoteSource struct {
	client  *finnhub.DefaultApiService
	symbol  string
	timeout time.Duration
}

func NewQuoteSource(apiKey, symbol string, timeout time.Duration) *QuoteSource {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return newQuoteSource(cfg, symbol, timeout)
}

func newQuoteSource(cfg *finnhub.Configuration, symbol string, timeout time.Duration) *QuoteSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &QuoteSource{
		client:  finnhub.NewAPIClient(cfg).DefaultApi,
		symbol:  symbol,
		timeout: timeout,
	}
}

func (s *QuoteSource) Name() string {
	return QuoteSourceName
}

func (s *QuoteSource) Fetch(ctx context.Context, _ Snapshot) Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	quote, _, err := s.client.Quote(ctx).Symbol(s.symbol).Execute()
	if err != nil {
		return Failed(s.Name(), fmt.Errorf("finnhub quote: %w", err))
	}

	if quote.GetC() == 0 {
		return Failed(s.Name(), fmt.Errorf("finnhub quote: no data for %s", s.symbol))
	}

	payload, err := json.Marshal(spotQuote{
		Symbol:        s.symbol,
		Current:       quote.GetC(),
		Change:        quote.GetD(),
		PercentChange: quote.GetDp(),
		High:          quote.GetH(),
		Low:           quote.GetL(),
		Open:          quote.GetO(),
		PreviousClose: quote.GetPc(),
	})
	if err != nil {
		return Failed(s.Name(), fmt.Errorf("encode quote: %w", err))
	}

	return Ok(s.Name(), payload)
}

type spotQuote struct {
	Symbol        string  `json:"symbol"`
	Current       float32 `json:"current"`
	Change        float32 `json:"change"`
	PercentChange float32 `json:"percent_change"`
	High          float32 `json:"high"`
	Low           float32 `json:"low"`
	Open          float32 `json:"open"`
	PreviousClose float32 `json:"previous_close"`
}
