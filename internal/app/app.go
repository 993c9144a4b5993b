// Package app wires configuration into the analysis pipeline. It is shared
// by the HTTP server, the Lambda entry point and the archiver job.
package app

import (
	"log/slog"
	"os"
	"strings"

	"optionsdesk/internal/analysis"
	"optionsdesk/internal/config"
	"optionsdesk/pkg/llm"
	"optionsdesk/pkg/marketdata"
)

func SetupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func NarrativeSettings(cfg *config.Config) llm.Settings {
	return llm.Settings{
		Provider:    cfg.Narrative.Provider,
		APIKey:      cfg.NarrativeKey(),
		Model:       cfg.Narrative.Model,
		MaxTokens:   cfg.Narrative.MaxTokens,
		Temperature: cfg.Narrative.Temperature,
		Timeout:     cfg.Narrative.Timeout,
	}
}

// Sources returns the configured market data sources in digest order.
func Sources(cfg *config.Config, client *marketdata.Client) []marketdata.Source {
	sources := client.Sources(marketdata.DefaultEndpoints(cfg.MarketData.Ticker))

	if cfg.MarketData.FinnhubKey != "" {
		sources = append(sources, marketdata.NewQuoteSource(
			cfg.MarketData.FinnhubKey,
			cfg.MarketData.SpotSymbol,
			cfg.MarketData.Timeout,
		))
	}

	return sources
}

func NewService(cfg *config.Config) (*analysis.Service, error) {
	narrator, err := llm.NewNarrator(NarrativeSettings(cfg))
	if err != nil {
		return nil, err
	}

	client := marketdata.NewClient(cfg.MarketData.APIKey, cfg.MarketData.BaseURL, cfg.MarketData.Timeout)
	if cfg.DebugHTTP {
		client.EnableDebugLogging()
	}

	resolver := analysis.NewResolver(client, cfg.MarketData.Ticker, analysis.ResolverOptions{
		Intraday:      cfg.Resolver.Intraday,
		AlternateDate: cfg.Resolver.AlternateDate,
	})
	aggregator := analysis.NewAggregator(Sources(cfg, client)...)

	slog.Info("analysis pipeline configured",
		"ticker", cfg.MarketData.Ticker,
		"sources", aggregator.Names(),
		"narrative_provider", cfg.Narrative.Provider,
		"narrative_model", narrator.ModelName(),
	)

	return analysis.NewService(resolver, aggregator, narrator, cfg.MarketData.Ticker, cfg.DigestCharCap), nil
}
