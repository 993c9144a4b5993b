package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"optionsdesk/internal/model"
)

type ReportStore interface {
	GetReports(limit, offset int) ([]model.MarketReport, error)
	GetReportTotal() (int, error)
	GetLatestReport() (*model.MarketReport, error)
}

type ReportHandler struct {
	repository ReportStore
}

func NewReportHandler(repository ReportStore) *ReportHandler {
	return &ReportHandler{repository: repository}
}

func toReportResponse(r model.MarketReport) ReportResponse {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}

	return ReportResponse{
		ID:               r.ID,
		RequestID:        r.RequestID,
		Ticker:           r.Ticker,
		TradingDate:      r.TradingDate,
		TimeSlot:         r.TimeSlot,
		Resolution:       r.Resolution,
		FallbackReason:   r.FallbackReason,
		Analysis:         r.Analysis,
		DataFetched:      r.DataFetched,
		Errors:           errs,
		SourcesAvailable: r.SourcesAvailable,
		SourcesTotal:     r.SourcesTotal,
		ModelUsed:        r.ModelUsed,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	reports, err := h.repository.GetReports(limit, offset)
	if err != nil {
		slog.Error("error fetching reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReportTotal()
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ReportsResponse{
		Reports: make([]ReportResponse, 0, len(reports)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, r := range reports {
		res.Reports = append(res.Reports, toReportResponse(r))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	report, err := h.repository.GetLatestReport()
	if err != nil {
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*report))
}

// GetHealth reports liveness. With an archive configured it also checks the
// database, like the read endpoints would.
func GetHealth(archive ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if archive == nil {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "archive": "disabled"})
			return
		}

		if _, err := archive.GetReportTotal(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"archive": "disconnected",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"archive": "connected",
		})
	}
}
