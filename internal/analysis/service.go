package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"optionsdesk/internal/metrics"
	"optionsdesk/internal/model"
	"optionsdesk/pkg/llm"
)

type Report struct {
	ID             string
	GeneratedAt    time.Time
	Ticker         string
	Result         Result
	Digest         Digest
	Analysis       string
	NarrativeModel string
	NarrativeErr   error
	Duration       time.Duration
}

type Service struct {
	resolver   *Resolver
	aggregator *Aggregator
	narrator   llm.Narrator
	ticker     string
	charCap    int
}

func NewService(resolver *Resolver, aggregator *Aggregator, narrator llm.Narrator, ticker string, charCap int) *Service {
	return &Service{
		resolver:   resolver,
		aggregator: aggregator,
		narrator:   narrator,
		ticker:     ticker,
		charCap:    charCap,
	}
}

// Run executes one full analysis for now. A narrator failure is folded into
// the Analysis text, so Run always produces a report.
func (s *Service) Run(ctx context.Context, now time.Time) *Report {
	start := time.Now()
	report := &Report{
		ID:             uuid.NewString(),
		GeneratedAt:    now,
		Ticker:         s.ticker,
		NarrativeModel: s.narrator.ModelName(),
	}
	logger := slog.With("request_id", report.ID, "ticker", s.ticker)

	qc := s.resolver.Resolve(ctx, now)
	report.Result = s.aggregator.Aggregate(ctx, qc)
	report.Digest = BuildDigest(report.Result, s.ticker, s.charCap)

	available, total := report.Result.AvailableCount(), report.Result.Total()
	logger.Info("market data aggregated", "available", available, "total", total, "digest_chars", len(report.Digest.Text))

	text, err := s.narrator.Narrate(ctx, llm.BuildPrompt(report.Digest.Text))
	metrics.ObserveNarrative(err == nil)
	if err != nil {
		logger.Error("narrative request failed", "error", err, "model", report.NarrativeModel)
		report.NarrativeErr = err
		text = narrativeFallback(err, available, total)
	}
	report.Analysis = text

	report.Duration = time.Since(start)
	metrics.AnalysisDuration.Observe(report.Duration.Seconds())
	logger.Info("analysis complete", "duration_ms", report.Duration.Milliseconds(), "narrative_ok", err == nil)

	return report
}

func narrativeFallback(err error, available, total int) string {
	return fmt.Sprintf(
		"Narrative generation failed: %v. Market data was available from %d of %d sources; see data_fetched for details.",
		err, available, total,
	)
}

// MarketReport converts the report into its archived form.
func (r *Report) MarketReport() model.MarketReport {
	qc := r.Result.Context
	return model.MarketReport{
		RequestID:        r.ID,
		Ticker:           r.Ticker,
		TradingDate:      qc.Date,
		TimeSlot:         qc.Slot,
		Resolution:       string(qc.Path),
		FallbackReason:   qc.Reason,
		Analysis:         r.Analysis,
		DataFetched:      r.Result.Available(),
		Errors:           r.Result.Errors,
		SourcesAvailable: r.Result.AvailableCount(),
		SourcesTotal:     r.Result.Total(),
		ModelUsed:        r.NarrativeModel,
	}
}
