package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	"github.com/Akash-repo/service-p/internal/domain/repository"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	SourceCache    = "cache"
	SourceStore    = "store"
	SourceProvider = "provider"
	SourceFailed   = "failed"

	ReasonInvalidSymbol = "invalid symbol"
	ReasonBatchTimeout  = "batch timeout"
	ReasonCancelled     = "cancelled"
)

var errInvalidSymbol = errors.New(ReasonInvalidSymbol)

// StatisticsResolver resolves ticker statistics through cache, store and provider in that order.
type StatisticsResolver struct {
	cache   repository.StatisticCache
	store   repository.StatisticStore
	source  repository.QuoteSource
	history repository.QuoteHistory
	metrics repository.Metrics
	log     *applogger.Logger

	threshold    time.Duration
	concurrency  int
	batchTimeout time.Duration
	now          func() time.Time

	flight singleflight.Group
}

// ResolverOption configures StatisticsResolver.
type ResolverOption func(*StatisticsResolver)

// WithConcurrency bounds how many symbols resolve at once. 1 resolves sequentially.
func WithConcurrency(n int) ResolverOption {
	return func(r *StatisticsResolver) {
		r.concurrency = n
	}
}

// WithBatchTimeout bounds a whole batch. Zero means unbounded.
func WithBatchTimeout(d time.Duration) ResolverOption {
	return func(r *StatisticsResolver) {
		r.batchTimeout = d
	}
}

// WithResolverClock overrides the clock used for staleness checks.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *StatisticsResolver) {
		r.now = now
	}
}

// WithQuoteHistory records every provider fetch.
func WithQuoteHistory(h repository.QuoteHistory) ResolverOption {
	return func(r *StatisticsResolver) {
		r.history = h
	}
}

// WithResolverMetrics records which tier answered each lookup.
func WithResolverMetrics(m repository.Metrics) ResolverOption {
	return func(r *StatisticsResolver) {
		r.metrics = m
	}
}

// NewStatisticsResolver creates the resolver. stalenessThreshold is both the maximum
// age of a fresh stored record and the TTL of every cache write.
func NewStatisticsResolver(
	cache repository.StatisticCache,
	store repository.StatisticStore,
	source repository.QuoteSource,
	stalenessThreshold time.Duration,
	l *applogger.Logger,
	opts ...ResolverOption,
) (*StatisticsResolver, error) {
	if cache == nil || store == nil || source == nil {
		return nil, fmt.Errorf("resolver: cache, store and quote source are required")
	}
	if stalenessThreshold < 0 {
		return nil, fmt.Errorf("resolver: staleness threshold cannot be negative, got %s", stalenessThreshold)
	}

	r := &StatisticsResolver{
		cache:       cache,
		store:       store,
		source:      source,
		log:         l.Named("resolver"),
		threshold:   stalenessThreshold,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		return nil, fmt.Errorf("resolver: concurrency must be at least 1, got %d", r.concurrency)
	}
	return r, nil
}

// ResolveBatch returns statistics for the resolvable symbols in input order.
// Unresolvable symbols are omitted; the call never fails.
func (r *StatisticsResolver) ResolveBatch(ctx context.Context, symbols []string) []models.TickerStatistic {
	return r.ResolveBatchDetailed(ctx, symbols).Succeeded
}

// ResolveBatchDetailed is ResolveBatch plus a reason for every omitted symbol.
func (r *StatisticsResolver) ResolveBatchDetailed(ctx context.Context, symbols []string) models.BatchResult {
	result := models.BatchResult{
		Succeeded: make([]models.TickerStatistic, 0, len(symbols)),
		Failed:    make([]models.SymbolFailure, 0),
	}
	if len(symbols) == 0 {
		return result
	}

	start := time.Now()
	if r.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.batchTimeout)
		defer cancel()
	}

	type outcome struct {
		stat   models.TickerStatistic
		err    error
		ctxErr error
	}
	outcomes := make([]outcome, len(symbols))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = outcome{err: err, ctxErr: err}
				return nil
			}
			stat, err := r.resolve(ctx, symbol)
			outcomes[i] = outcome{stat: stat, err: err}
			if err != nil {
				outcomes[i].ctxErr = ctx.Err()
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err == nil {
			result.Succeeded = append(result.Succeeded, o.stat)
			continue
		}
		result.Failed = append(result.Failed, models.SymbolFailure{
			Symbol: symbols[i],
			Reason: failureReason(o.err, o.ctxErr),
		})
	}

	if r.metrics != nil {
		r.metrics.RecordLatency("resolve_batch", time.Since(start).Seconds())
	}
	r.log.Debug("batch resolved",
		applogger.Int("requested", len(symbols)),
		applogger.Int("resolved", len(result.Succeeded)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return result
}

// resolve shares one in-flight resolution among concurrent callers for the same symbol.
// The shared work is detached from any single caller; the provider profile's timeout and
// retries bound it. A caller whose ctx ends stops waiting without failing the others.
func (r *StatisticsResolver) resolve(ctx context.Context, raw string) (models.TickerStatistic, error) {
	symbol := models.NormalizeSymbol(raw)
	if symbol == "" {
		return models.TickerStatistic{}, errInvalidSymbol
	}

	shared := context.WithoutCancel(ctx)
	ch := r.flight.DoChan(symbol, func() (any, error) {
		return r.resolveChain(shared, symbol)
	})

	select {
	case <-ctx.Done():
		return models.TickerStatistic{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.TickerStatistic{}, res.Err
		}
		return res.Val.(models.TickerStatistic), nil
	}
}

func (r *StatisticsResolver) resolveChain(ctx context.Context, symbol string) (models.TickerStatistic, error) {
	if stat, ok := r.cache.Get(ctx, symbol); ok {
		r.record(SourceCache)
		return stat, nil
	}

	if rec, ok := r.store.FindBySymbol(ctx, symbol); ok {
		if rec.IsFresh(r.now(), r.threshold) {
			stat := rec.Statistic()
			r.cache.Put(ctx, symbol, stat, r.threshold)
			r.record(SourceStore)
			return stat, nil
		}
		r.log.Debug("stored statistic is stale",
			applogger.String("symbol", symbol),
			applogger.String("last_fetched", rec.LastFetchedTime.Format(time.RFC3339)),
		)
	}

	stat, err := r.source.FetchQuote(ctx, symbol)
	if err != nil {
		r.record(SourceFailed)
		r.log.Warn("symbol unresolved",
			applogger.String("symbol", symbol),
			applogger.String("provider", r.source.Name()),
			applogger.Error(err),
		)
		return models.TickerStatistic{}, err
	}

	rec := r.store.Upsert(ctx, stat, r.source.Name())
	if rec == nil && r.metrics != nil {
		r.metrics.RecordError("store_upsert")
	}
	r.cache.Put(ctx, symbol, stat, r.threshold)
	if r.history != nil {
		if rec == nil {
			fallback := models.NewTickerRecord(stat, r.source.Name(), r.now().UTC())
			rec = &fallback
		}
		r.history.Append(ctx, *rec)
	}
	r.record(SourceProvider)
	if r.metrics != nil {
		r.metrics.RecordLastPrice(symbol, stat.Price)
	}
	return stat, nil
}

func (r *StatisticsResolver) record(source string) {
	if r.metrics != nil {
		r.metrics.RecordResolution(source)
	}
}

// failureReason prefers the batch context state over the resolution error.
func failureReason(err, ctxErr error) string {
	switch {
	case errors.Is(err, errInvalidSymbol):
		return ReasonInvalidSymbol
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return ReasonBatchTimeout
	case ctxErr != nil:
		return ReasonCancelled
	default:
		return "provider: " + err.Error()
	}
}
