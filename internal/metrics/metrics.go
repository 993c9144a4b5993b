// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "optionsdesk"

var (
	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_fetch_total",
		Help:      "Market data source calls by source and outcome.",
	}, []string{"source", "outcome"})

	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolution_total",
		Help:      "Date/slot resolutions by path taken.",
	}, []string{"path"})

	NarrativeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "narrative_requests_total",
		Help:      "Narrative service calls by outcome.",
	}, []string{"outcome"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end duration of one analysis run.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})
)

func outcomeLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func ObserveSource(source string, ok bool) {
	SourceFetches.WithLabelValues(source, outcomeLabel(ok)).Inc()
}

func ObserveNarrative(ok bool) {
	NarrativeRequests.WithLabelValues(outcomeLabel(ok)).Inc()
}
