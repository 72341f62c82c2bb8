package models

import (
	"strings"
	"time"
)

// TickerStatistic is a point-in-time snapshot for one symbol.
type TickerStatistic struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Volume      float64 `json:"volume"`
	PERatio     float64 `json:"peRatio"`
	LastUpdated string  `json:"lastUpdated"` // provider timestamp, kept opaque
}

// TickerRecord is the persisted form of a statistic.
type TickerRecord struct {
	Symbol          string    `gorm:"column:symbol;primaryKey;size:32"`
	Price           float64   `gorm:"column:price"`
	Volume          float64   `gorm:"column:volume"`
	PERatio         float64   `gorm:"column:pe_ratio"`
	LastUpdatedAPI  string    `gorm:"column:last_updated_api;size:64"`
	LastFetchedTime time.Time `gorm:"column:last_fetched_time;not null"`
	SourceProvider  string    `gorm:"column:source_provider;size:64"`
}

// TableName pins the table name used by the store.
func (TickerRecord) TableName() string {
	return "ticker_statistics"
}

// NewTickerRecord stamps a statistic with its fetch time and source.
func NewTickerRecord(stat TickerStatistic, source string, fetchedAt time.Time) TickerRecord {
	return TickerRecord{
		Symbol:          stat.Symbol,
		Price:           stat.Price,
		Volume:          stat.Volume,
		PERatio:         stat.PERatio,
		LastUpdatedAPI:  stat.LastUpdated,
		LastFetchedTime: fetchedAt,
		SourceProvider:  source,
	}
}

// Statistic rebuilds the value snapshot from the record.
func (r TickerRecord) Statistic() TickerStatistic {
	return TickerStatistic{
		Symbol:      r.Symbol,
		Price:       r.Price,
		Volume:      r.Volume,
		PERatio:     r.PERatio,
		LastUpdated: r.LastUpdatedAPI,
	}
}

// IsFresh reports whether the record was fetched less than threshold before now.
func (r TickerRecord) IsFresh(now time.Time, threshold time.Duration) bool {
	return now.Sub(r.LastFetchedTime) < threshold
}

// NormalizeSymbol trims whitespace; blank input yields "".
func NormalizeSymbol(s string) string {
	return strings.TrimSpace(s)
}

// SymbolFailure explains why a symbol is missing from a batch result.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// BatchResult is the detailed outcome of a batch resolution.
type BatchResult struct {
	Succeeded []TickerStatistic `json:"succeeded"`
	Failed    []SymbolFailure   `json:"failed"`
}
