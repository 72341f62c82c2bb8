package repository

import (
	"context"
	"fmt"

	"github.com/Akash-repo/service-p/internal/domain/models"
	pkgch "github.com/Akash-repo/service-p/pkg/clickhouse"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
)

const quoteHistoryTable = "ticker_quote_history"

// QuoteHistorySchema returns the idempotent DDL for the history table.
func QuoteHistorySchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	symbol String,
	price Float64,
	volume Float64,
	pe_ratio Float64,
	last_updated_api String,
	source_provider LowCardinality(String),
	fetched_at DateTime64(3, 'UTC')
) ENGINE = MergeTree ORDER BY (symbol, fetched_at)`, database, quoteHistoryTable),
	}
}

// QuoteHistory appends every provider fetch to ClickHouse. A nil client makes it a no-op.
type QuoteHistory struct {
	client *pkgch.Client
	table  string
	log    *applogger.Logger
}

// NewQuoteHistory creates the history sink for database.
func NewQuoteHistory(client *pkgch.Client, database string, l *applogger.Logger) *QuoteHistory {
	return &QuoteHistory{
		client: client,
		table:  database + "." + quoteHistoryTable,
		log:    l.Named("quote_history"),
	}
}

// Append writes one row. Failures are logged only.
func (h *QuoteHistory) Append(ctx context.Context, rec models.TickerRecord) {
	if h == nil || h.client == nil || rec.Symbol == "" {
		return
	}

	q := fmt.Sprintf("INSERT INTO %s (symbol, price, volume, pe_ratio, last_updated_api, source_provider, fetched_at) VALUES (?, ?, ?, ?, ?, ?, ?)", h.table)
	_, err := h.client.DB().ExecContext(ctx, q,
		rec.Symbol,
		rec.Price,
		rec.Volume,
		rec.PERatio,
		rec.LastUpdatedAPI,
		rec.SourceProvider,
		rec.LastFetchedTime,
	)
	if err != nil {
		h.log.Warn("quote history append failed", applogger.String("symbol", rec.Symbol), applogger.Error(err))
	}
}
