package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatisticStore persists ticker statistics in Postgres, one row per symbol.
type StatisticStore struct {
	db  *gorm.DB
	log *applogger.Logger
	now func() time.Time
}

// StoreOption configures StatisticStore.
type StoreOption func(*StatisticStore)

// WithStoreClock overrides the clock used to stamp last_fetched_time.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *StatisticStore) {
		s.now = now
	}
}

// NewStatisticStore creates the Postgres-backed store.
func NewStatisticStore(db *gorm.DB, l *applogger.Logger, opts ...StoreOption) *StatisticStore {
	s := &StatisticStore{db: db, log: l.Named("statistic_store"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindBySymbol loads the stored record. Lookup failures are logged and reported as a miss.
func (s *StatisticStore) FindBySymbol(ctx context.Context, symbol string) (*models.TickerRecord, bool) {
	if symbol == "" {
		return nil, false
	}

	var rec models.TickerRecord
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).Take(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("store lookup failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		return nil, false
	}
	return &rec, true
}

// Upsert inserts or overwrites the row for stat.Symbol, stamping it with the current time.
// It returns nil when nothing was written.
func (s *StatisticStore) Upsert(ctx context.Context, stat models.TickerStatistic, source string) *models.TickerRecord {
	if stat.Symbol == "" {
		return nil
	}

	rec := models.NewTickerRecord(stat, source, s.now().UTC())
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		s.log.Error("store upsert failed", applogger.String("symbol", stat.Symbol), applogger.Error(err))
		return nil
	}
	return &rec
}
