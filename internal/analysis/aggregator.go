package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"optionsdesk/internal/metrics"
	"optionsdesk/pkg/marketdata"
)

// Result holds one outcome per configured source, in configuration order.
type Result struct {
	Context  QueryContext
	Outcomes []marketdata.Outcome
	Errors   []string
}

func (r Result) Available() map[string]bool {
	available := make(map[string]bool, len(r.Outcomes))
	for _, o := range r.Outcomes {
		available[o.Endpoint] = o.OK()
	}
	return available
}

func (r Result) AvailableCount() int {
	return lo.CountBy(r.Outcomes, func(o marketdata.Outcome) bool {
		return o.OK()
	})
}

func (r Result) Total() int {
	return len(r.Outcomes)
}

type Aggregator struct {
	sources []marketdata.Source
}

func NewAggregator(sources ...marketdata.Source) *Aggregator {
	return &Aggregator{sources: sources}
}

func (a *Aggregator) Names() []string {
	return lo.Map(a.sources, func(s marketdata.Source, _ int) string {
		return s.Name()
	})
}

// Aggregate calls every source once for the resolved context. A failing
// source is recorded and the remaining sources still run.
func (a *Aggregator) Aggregate(ctx context.Context, qc QueryContext) Result {
	result := Result{
		Context:  qc,
		Outcomes: make([]marketdata.Outcome, 0, len(a.sources)),
		Errors:   []string{},
	}

	snap := qc.Snapshot()
	for _, source := range a.sources {
		outcome := fetchOne(ctx, source, snap)
		metrics.ObserveSource(outcome.Endpoint, outcome.OK())

		if !outcome.OK() {
			slog.Warn("source fetch failed", "source", outcome.Endpoint, "error", outcome.Message())
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", outcome.Endpoint, outcome.Message()))
		} else {
			slog.Info("source fetched", "source", outcome.Endpoint, "bytes", len(outcome.Payload))
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}

func fetchOne(ctx context.Context, source marketdata.Source, snap marketdata.Snapshot) (outcome marketdata.Outcome) {
	name := source.Name()
	defer func() {
		if r := recover(); r != nil {
			outcome = marketdata.Failed(name, fmt.Errorf("panic: %v", r))
		}
	}()

	outcome = source.Fetch(ctx, snap)
	outcome.Endpoint = name
	return outcome
}
