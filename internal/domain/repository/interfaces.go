package repository

import (
	"context"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces_mock.go -package=mock

// StatisticCache is the short-lived lookup tier. Failures surface as misses.
type StatisticCache interface {
	Get(ctx context.Context, symbol string) (models.TickerStatistic, bool)
	Put(ctx context.Context, symbol string, stat models.TickerStatistic, ttl time.Duration)
}

// StatisticStore is the durable tier keyed by symbol. Failures surface as misses.
type StatisticStore interface {
	FindBySymbol(ctx context.Context, symbol string) (*models.TickerRecord, bool)
	// Upsert stamps the statistic with the current time; nil means nothing was written.
	Upsert(ctx context.Context, stat models.TickerStatistic, source string) *models.TickerRecord
}

// QuoteHistory keeps an append-only log of provider fetches.
type QuoteHistory interface {
	Append(ctx context.Context, record models.TickerRecord)
}

// QuoteSource fetches a fresh statistic from an external provider.
type QuoteSource interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (models.TickerStatistic, error)
}

// EnvelopeBroker delivers encoded envelopes to a topic in a single attempt.
type EnvelopeBroker interface {
	Send(ctx context.Context, topic, key string, payload []byte) error
	Close() error
}

// IDGenerator produces unique message identifiers.
type IDGenerator interface {
	NewID() string
}

type Metrics interface {
	RecordResolution(source string)
	RecordProviderRequest(provider, result string)
	RecordPublish(mode, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
