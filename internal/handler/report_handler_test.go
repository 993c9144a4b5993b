package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"optionsdesk/internal/model"
)

type fakeReportStore struct {
	reports   []model.MarketReport
	total     int
	err       error
	gotLimit  int
	gotOffset int
}

func (f *fakeReportStore) GetReports(limit, offset int) ([]model.MarketReport, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.reports, f.err
}

func (f *fakeReportStore) GetReportTotal() (int, error) {
	return f.total, f.err
}

func (f *fakeReportStore) GetLatestReport() (*model.MarketReport, error) {
	if f.err != nil || len(f.reports) == 0 {
		return nil, f.err
	}
	return &f.reports[0], nil
}

func newTestReportRouter(store ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(store)
	r.GET("/reports/latest", h.GetLatestReport)
	r.GET("/reports", h.GetReports)
	r.GET("/health", GetHealth(store))
	return r
}

func TestGetReports_DBError(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetReports_Empty(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &raw)
	assert.Equal(t, "[]", string(raw["reports"]))
}

func TestGetReports_WithResults(t *testing.T) {
	now := time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC)
	store := &fakeReportStore{
		reports: []model.MarketReport{
			{ID: 2, Ticker: "SPX", Analysis: "Later", DataFetched: map[string]bool{"depth_view": true}, CreatedAt: now},
			{ID: 1, Ticker: "SPX", Analysis: "Earlier", Errors: []string{"depth_view: HTTP 401"}, CreatedAt: now.Add(-time.Hour)},
		},
		total: 2,
	}
	r := newTestReportRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports?limit=500&offset=-3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, store.gotLimit)
	assert.Equal(t, 0, store.gotOffset)

	var res ReportsResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 2, len(res.Reports))
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "Later", res.Reports[0].Analysis)
	assert.Equal(t, "2025-01-10T21:00:00Z", res.Reports[0].CreatedAt)
	assert.Equal(t, 0, len(res.Reports[0].Errors))
	assert.Equal(t, []string{"depth_view: HTTP 401"}, res.Reports[1].Errors)
}

func TestGetLatestReport_NotFound(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/latest", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestReport(t *testing.T) {
	store := &fakeReportStore{reports: []model.MarketReport{{ID: 9, RequestID: "req-9", Analysis: "Latest"}}}
	r := newTestReportRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/latest", nil))

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), res.ID)
	assert.Equal(t, "req-9", res.RequestID)
}

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name       string
		archive    ReportStore
		wantStatus int
		wantBody   string
	}{
		{"archive disabled", nil, http.StatusOK, `{"archive":"disabled","status":"healthy"}`},
		{"archive connected", &fakeReportStore{}, http.StatusOK, `{"archive":"connected","status":"healthy"}`},
		{"archive down", &fakeReportStore{err: errors.New("DB down")}, http.StatusServiceUnavailable, `{"archive":"disconnected","status":"unhealthy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.GET("/health", GetHealth(tt.archive))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}
