package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	pkgcache "github.com/Akash-repo/service-p/pkg/cache"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
)

// StatisticCache stores ticker statistics as JSON under the bare symbol key.
type StatisticCache struct {
	cache pkgcache.Service
	log   *applogger.Logger
}

// NewStatisticCache creates a cache tier over any pkg/cache backend.
func NewStatisticCache(c pkgcache.Service, l *applogger.Logger) *StatisticCache {
	return &StatisticCache{cache: c, log: l.Named("statistic_cache")}
}

// Get returns the cached statistic. Transport and decode failures are logged and reported as a miss.
func (s *StatisticCache) Get(ctx context.Context, symbol string) (models.TickerStatistic, bool) {
	if symbol == "" {
		return models.TickerStatistic{}, false
	}

	var stat models.TickerStatistic
	if err := s.cache.Get(ctx, symbol, &stat); err != nil {
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			s.log.Warn("cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		return models.TickerStatistic{}, false
	}
	if stat.Symbol == "" {
		s.log.Warn("cache entry without symbol ignored", applogger.String("symbol", symbol))
		return models.TickerStatistic{}, false
	}
	return stat, true
}

// Put writes the statistic with the given TTL. A non-positive TTL writes nothing.
func (s *StatisticCache) Put(ctx context.Context, symbol string, stat models.TickerStatistic, ttl time.Duration) {
	if symbol == "" || ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, symbol, stat, ttl); err != nil {
		s.log.Warn("cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
}
