package model

import "time"

// MarketReport is one archived analysis run.
type MarketReport struct {
	ID               int64
	RequestID        string
	Ticker           string
	TradingDate      string
	TimeSlot         string
	Resolution       string
	FallbackReason   string
	Analysis         string
	DataFetched      map[string]bool
	Errors           []string
	SourcesAvailable int
	SourcesTotal     int
	ModelUsed        string
	CreatedAt        time.Time
}
