package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"optionsdesk/internal/analysis"
)

type Analyzer interface {
	Run(ctx context.Context, now time.Time) *analysis.Report
}

type AnalysisHandler struct {
	analyzer Analyzer
	validate func() error
	now      func() time.Time
}

// NewAnalysisHandler builds the analyze endpoint. validate runs before any
// upstream call; a non-nil error is reported without touching the analyzer.
func NewAnalysisHandler(analyzer Analyzer, validate func() error) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		validate: validate,
		now:      time.Now,
	}
}

// Analyze returns either an AnalysisResponse or a FailureResponse. It does
// not panic.
func (h *AnalysisHandler) Analyze(ctx context.Context) (res any) {
	now := h.now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked", "panic", r)
			res = Failure(fmt.Sprintf("internal error: %v", r), now)
		}
	}()

	if h.validate != nil {
		if err := h.validate(); err != nil {
			slog.Error("analysis rejected", "error", err)
			return Failure(err.Error(), now)
		}
	}

	report := h.analyzer.Run(ctx, now)
	return toAnalysisResponse(report)
}

func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(http.StatusOK, h.Analyze(c.Request.Context()))
}

func Failure(message string, now time.Time) FailureResponse {
	return FailureResponse{
		Success:   false,
		Error:     message,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func toAnalysisResponse(r *analysis.Report) AnalysisResponse {
	qc := r.Result.Context

	errs := r.Result.Errors
	if errs == nil {
		errs = []string{}
	}

	var narrativeErr string
	if r.NarrativeErr != nil {
		narrativeErr = r.NarrativeErr.Error()
	}

	return AnalysisResponse{
		Success:     true,
		Timestamp:   r.GeneratedAt.UTC().Format(time.RFC3339),
		Analysis:    r.Analysis,
		DataFetched: r.Result.Available(),
		Errors:      errs,
		DebugInfo: DebugInfo{
			RequestID:        r.ID,
			Ticker:           r.Ticker,
			Date:             qc.Date,
			RequestedDate:    qc.Requested,
			TimeSlot:         qc.Slot,
			Model:            qc.Model(),
			Resolution:       string(qc.Path),
			FallbackReason:   qc.Reason,
			SourcesAvailable: r.Result.AvailableCount(),
			SourcesTotal:     r.Result.Total(),
			DigestChars:      len([]rune(r.Digest.Text)),
			NarrativeModel:   r.NarrativeModel,
			NarrativeError:   narrativeErr,
			DurationMS:       r.Duration.Milliseconds(),
		},
	}
}
