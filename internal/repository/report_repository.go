package repository

import (
	"database/sql"
	"encoding/json"

	"optionsdesk/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) SaveReport(report *model.MarketReport) error {
	dataFetched, err := json.Marshal(report.DataFetched)
	if err != nil {
		return err
	}

	errs := report.Errors
	if errs == nil {
		errs = []string{}
	}
	errorsJSON, err := json.Marshal(errs)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO market_report(request_id, ticker, trading_date, time_slot, resolution, fallback_reason,
			analysis, data_fetched, errors, sources_available, sources_total, model_used)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, report.RequestID, report.Ticker, report.TradingDate, report.TimeSlot, report.Resolution, report.FallbackReason,
		report.Analysis, dataFetched, errorsJSON, report.SourcesAvailable, report.SourcesTotal, report.ModelUsed,
	).Scan(&report.ID, &report.CreatedAt)
}

const selectReportColumns = `
	SELECT id, request_id, ticker, trading_date::text, time_slot, resolution, fallback_reason,
		analysis, data_fetched, errors, sources_available, sources_total, model_used, created_at
	FROM market_report
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (model.MarketReport, error) {
	var rep model.MarketReport
	var dataFetched, errorsJSON []byte

	err := row.Scan(&rep.ID, &rep.RequestID, &rep.Ticker, &rep.TradingDate, &rep.TimeSlot, &rep.Resolution,
		&rep.FallbackReason, &rep.Analysis, &dataFetched, &errorsJSON, &rep.SourcesAvailable, &rep.SourcesTotal,
		&rep.ModelUsed, &rep.CreatedAt)
	if err != nil {
		return rep, err
	}

	if err := json.Unmarshal(dataFetched, &rep.DataFetched); err != nil {
		return rep, err
	}
	if err := json.Unmarshal(errorsJSON, &rep.Errors); err != nil {
		return rep, err
	}

	return rep, nil
}

func (r *ReportRepository) GetReports(limit, offset int) ([]model.MarketReport, error) {
	rows, err := r.db.Query(selectReportColumns+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.MarketReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetLatestReport() (*model.MarketReport, error) {
	row := r.db.QueryRow(selectReportColumns + `
		ORDER BY created_at DESC
		LIMIT 1
	`)

	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rep, nil
}

func (r *ReportRepository) GetReportTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM market_report`).Scan(&total)
	return total, err
}
