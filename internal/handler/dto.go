package handler

type AnalysisResponse struct {
	Success     bool            `json:"success"`
	Timestamp   string          `json:"timestamp"`
	Analysis    string          `json:"analysis"`
	DataFetched map[string]bool `json:"data_fetched"`
	Errors      []string        `json:"errors"`
	DebugInfo   DebugInfo       `json:"debug_info"`
}

type DebugInfo struct {
	RequestID        string `json:"request_id"`
	Ticker           string `json:"ticker"`
	Date             string `json:"date"`
	RequestedDate    string `json:"requested_date"`
	TimeSlot         string `json:"time_slot"`
	Model            string `json:"model"`
	Resolution       string `json:"resolution"`
	FallbackReason   string `json:"fallback_reason"`
	SourcesAvailable int    `json:"sources_available"`
	SourcesTotal     int    `json:"sources_total"`
	DigestChars      int    `json:"digest_chars"`
	NarrativeModel   string `json:"narrative_model"`
	NarrativeError   string `json:"narrative_error"`
	DurationMS       int64  `json:"duration_ms"`
}

type FailureResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

type ReportResponse struct {
	ID               int64           `json:"id"`
	RequestID        string          `json:"request_id"`
	Ticker           string          `json:"ticker"`
	TradingDate      string          `json:"trading_date"`
	TimeSlot         string          `json:"time_slot"`
	Resolution       string          `json:"resolution"`
	FallbackReason   string          `json:"fallback_reason"`
	Analysis         string          `json:"analysis"`
	DataFetched      map[string]bool `json:"data_fetched"`
	Errors           []string        `json:"errors"`
	SourcesAvailable int             `json:"sources_available"`
	SourcesTotal     int             `json:"sources_total"`
	ModelUsed        string          `json:"model_used"`
	CreatedAt        string          `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
