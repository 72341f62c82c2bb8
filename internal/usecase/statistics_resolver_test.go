package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	"github.com/Akash-repo/service-p/internal/domain/repository/mock"
	"github.com/Akash-repo/service-p/internal/usecase"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const threshold = 15 * time.Minute

var fixedNow = time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)

type resolverMocks struct {
	cache   *mock.MockStatisticCache
	store   *mock.MockStatisticStore
	source  *mock.MockQuoteSource
	history *mock.MockQuoteHistory
}

func newResolver(t *testing.T, opts ...usecase.ResolverOption) (*usecase.StatisticsResolver, resolverMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := resolverMocks{
		cache:   mock.NewMockStatisticCache(ctrl),
		store:   mock.NewMockStatisticStore(ctrl),
		source:  mock.NewMockQuoteSource(ctrl),
		history: mock.NewMockQuoteHistory(ctrl),
	}
	m.source.EXPECT().Name().Return("fmp").AnyTimes()

	opts = append([]usecase.ResolverOption{
		usecase.WithResolverClock(func() time.Time { return fixedNow }),
		usecase.WithQuoteHistory(m.history),
	}, opts...)

	r, err := usecase.NewStatisticsResolver(m.cache, m.store, m.source, threshold, applogger.NewNop(), opts...)
	require.NoError(t, err)
	return r, m
}

func stat(symbol string, price float64) models.TickerStatistic {
	return models.TickerStatistic{Symbol: symbol, Price: price, Volume: 1000, PERatio: 20, LastUpdated: "1728561600"}
}

func TestNewStatisticsResolverValidation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mock.NewMockStatisticCache(ctrl)
	store := mock.NewMockStatisticStore(ctrl)
	source := mock.NewMockQuoteSource(ctrl)
	l := applogger.NewNop()

	_, err := usecase.NewStatisticsResolver(nil, store, source, threshold, l)
	require.Error(t, err)

	_, err = usecase.NewStatisticsResolver(cache, store, source, -time.Second, l)
	require.Error(t, err)

	_, err = usecase.NewStatisticsResolver(cache, store, source, threshold, l, usecase.WithConcurrency(0))
	require.Error(t, err)
}

func TestResolveBatchCacheHit(t *testing.T) {
	t.Parallel()

	// Arrange: the cache answers, so store and provider must stay untouched.
	r, m := newResolver(t)
	m.cache.EXPECT().Get(gomock.Any(), "AAPL").Return(stat("AAPL", 150), true)

	// Act
	got := r.ResolveBatch(t.Context(), []string{"AAPL"})

	// Assert
	require.Equal(t, []models.TickerStatistic{stat("AAPL", 150)}, got)
}

func TestResolveBatchFreshStoreRecord(t *testing.T) {
	t.Parallel()

	// Arrange: a record fetched 5 minutes ago is within the 15 minute threshold.
	r, m := newResolver(t)
	rec := models.NewTickerRecord(stat("MSFT", 300), "fmp", fixedNow.Add(-5*time.Minute))

	m.cache.EXPECT().Get(gomock.Any(), "MSFT").Return(models.TickerStatistic{}, false)
	m.store.EXPECT().FindBySymbol(gomock.Any(), "MSFT").Return(&rec, true)
	m.cache.EXPECT().Put(gomock.Any(), "MSFT", stat("MSFT", 300), threshold).Times(1)

	// Act
	got := r.ResolveBatch(t.Context(), []string{"MSFT"})

	// Assert
	require.Equal(t, []models.TickerStatistic{stat("MSFT", 300)}, got)
}

func TestResolveBatchStaleRecordRefetches(t *testing.T) {
	t.Parallel()

	// Arrange: a record fetched 20 minutes ago is stale.
	r, m := newResolver(t)
	old := models.NewTickerRecord(stat("TSLA", 200), "fmp", fixedNow.Add(-20*time.Minute))
	fresh := stat("TSLA", 210)
	saved := models.NewTickerRecord(fresh, "fmp", fixedNow)

	gomock.InOrder(
		m.cache.EXPECT().Get(gomock.Any(), "TSLA").Return(models.TickerStatistic{}, false),
		m.store.EXPECT().FindBySymbol(gomock.Any(), "TSLA").Return(&old, true),
		m.source.EXPECT().FetchQuote(gomock.Any(), "TSLA").Return(fresh, nil),
		m.store.EXPECT().Upsert(gomock.Any(), fresh, "fmp").Return(&saved),
		m.cache.EXPECT().Put(gomock.Any(), "TSLA", fresh, threshold),
		m.history.EXPECT().Append(gomock.Any(), saved),
	)

	// Act
	got := r.ResolveBatch(t.Context(), []string{"TSLA"})

	// Assert
	require.Equal(t, []models.TickerStatistic{fresh}, got)
}

func TestResolveBatchExactThresholdIsStale(t *testing.T) {
	t.Parallel()

	// Arrange: age equal to the threshold is not fresh.
	r, m := newResolver(t)
	old := models.NewTickerRecord(stat("IBM", 100), "fmp", fixedNow.Add(-threshold))

	m.cache.EXPECT().Get(gomock.Any(), "IBM").Return(models.TickerStatistic{}, false)
	m.store.EXPECT().FindBySymbol(gomock.Any(), "IBM").Return(&old, true)
	m.source.EXPECT().FetchQuote(gomock.Any(), "IBM").Return(stat("IBM", 101), nil)
	m.store.EXPECT().Upsert(gomock.Any(), stat("IBM", 101), "fmp").Return(nil)
	m.cache.EXPECT().Put(gomock.Any(), "IBM", stat("IBM", 101), threshold)
	m.history.EXPECT().Append(gomock.Any(), gomock.Any())

	// Act
	got := r.ResolveBatch(t.Context(), []string{"IBM"})

	// Assert
	require.Equal(t, []models.TickerStatistic{stat("IBM", 101)}, got)
}

func TestResolveBatchPartialFailure(t *testing.T) {
	t.Parallel()

	// Arrange: the middle symbol cannot be resolved by any tier.
	r, m := newResolver(t)
	providerErr := errors.New("upstream 404")

	m.cache.EXPECT().Get(gomock.Any(), "AAPL").Return(stat("AAPL", 150), true)
	m.cache.EXPECT().Get(gomock.Any(), "NOPE").Return(models.TickerStatistic{}, false)
	m.store.EXPECT().FindBySymbol(gomock.Any(), "NOPE").Return(nil, false)
	m.source.EXPECT().FetchQuote(gomock.Any(), "NOPE").Return(models.TickerStatistic{}, providerErr)
	m.cache.EXPECT().Get(gomock.Any(), "MSFT").Return(stat("MSFT", 300), true)

	// Act
	got := r.ResolveBatchDetailed(t.Context(), []string{"AAPL", "NOPE", "MSFT"})

	// Assert: input order is kept and the failure carries the provider error.
	require.Equal(t, []models.TickerStatistic{stat("AAPL", 150), stat("MSFT", 300)}, got.Succeeded)
	require.Equal(t, []models.SymbolFailure{{Symbol: "NOPE", Reason: "provider: upstream 404"}}, got.Failed)
}

func TestResolveBatchInvalidSymbol(t *testing.T) {
	t.Parallel()

	// Arrange: blank symbols never reach a tier.
	r, _ := newResolver(t)

	// Act
	got := r.ResolveBatchDetailed(t.Context(), []string{"", "   "})

	// Assert
	require.Empty(t, got.Succeeded)
	require.Equal(t, []models.SymbolFailure{
		{Symbol: "", Reason: usecase.ReasonInvalidSymbol},
		{Symbol: "   ", Reason: usecase.ReasonInvalidSymbol},
	}, got.Failed)
}

func TestResolveBatchTrimsSymbols(t *testing.T) {
	t.Parallel()

	r, m := newResolver(t)
	m.cache.EXPECT().Get(gomock.Any(), "AAPL").Return(stat("AAPL", 150), true)

	got := r.ResolveBatch(t.Context(), []string{"  AAPL "})

	require.Equal(t, []models.TickerStatistic{stat("AAPL", 150)}, got)
}

func TestResolveBatchEmptyInput(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)

	got := r.ResolveBatchDetailed(t.Context(), nil)

	require.NotNil(t, got.Succeeded)
	require.Empty(t, got.Succeeded)
	require.Empty(t, got.Failed)
}

func TestResolveBatchTimeout(t *testing.T) {
	t.Parallel()

	// Arrange: the provider stays busy past the batch deadline.
	r, m := newResolver(t, usecase.WithBatchTimeout(20*time.Millisecond))
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	m.cache.EXPECT().Get(gomock.Any(), "SLOW").Return(models.TickerStatistic{}, false)
	m.store.EXPECT().FindBySymbol(gomock.Any(), "SLOW").Return(nil, false)
	m.source.EXPECT().FetchQuote(gomock.Any(), "SLOW").
		DoAndReturn(func(context.Context, string) (models.TickerStatistic, error) {
			<-release
			return models.TickerStatistic{}, errors.New("provider still busy")
		})

	// Act
	got := r.ResolveBatchDetailed(t.Context(), []string{"SLOW", "NEXT"})

	// Assert: the symbol queued behind the deadline fails without being attempted.
	require.Empty(t, got.Succeeded)
	require.Equal(t, []models.SymbolFailure{
		{Symbol: "SLOW", Reason: usecase.ReasonBatchTimeout},
		{Symbol: "NEXT", Reason: usecase.ReasonBatchTimeout},
	}, got.Failed)
}

func TestResolveBatchCancelled(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got := r.ResolveBatchDetailed(ctx, []string{"AAPL"})

	require.Empty(t, got.Succeeded)
	require.Equal(t, []models.SymbolFailure{{Symbol: "AAPL", Reason: usecase.ReasonCancelled}}, got.Failed)
}

// memoryTiers is an in-process cache, store and source for concurrency tests.
type memoryTiers struct {
	mu      sync.Mutex
	cached  map[string]models.TickerStatistic
	ttls    map[string]time.Duration
	fetches atomic.Int32
	delay   func(symbol string) time.Duration
}

func newMemoryTiers() *memoryTiers {
	return &memoryTiers{
		cached: make(map[string]models.TickerStatistic),
		ttls:   make(map[string]time.Duration),
		delay:  func(string) time.Duration { return 0 },
	}
}

func (m *memoryTiers) Get(_ context.Context, symbol string) (models.TickerStatistic, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.cached[symbol]
	return s, ok
}

func (m *memoryTiers) Put(_ context.Context, symbol string, s models.TickerStatistic, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached[symbol] = s
	m.ttls[symbol] = ttl
}

func (m *memoryTiers) FindBySymbol(context.Context, string) (*models.TickerRecord, bool) {
	return nil, false
}

func (m *memoryTiers) Upsert(_ context.Context, s models.TickerStatistic, source string) *models.TickerRecord {
	rec := models.NewTickerRecord(s, source, fixedNow)
	return &rec
}

func (m *memoryTiers) Name() string { return "memory" }

func (m *memoryTiers) FetchQuote(ctx context.Context, symbol string) (models.TickerStatistic, error) {
	m.fetches.Add(1)
	select {
	case <-time.After(m.delay(symbol)):
	case <-ctx.Done():
		return models.TickerStatistic{}, ctx.Err()
	}
	return stat(symbol, float64(len(symbol))), nil
}

func TestResolveBatchConcurrentKeepsInputOrder(t *testing.T) {
	t.Parallel()

	// Arrange: earlier symbols take longer so completions arrive out of order.
	tiers := newMemoryTiers()
	delays := map[string]time.Duration{"A": 40 * time.Millisecond, "BB": 20 * time.Millisecond, "CCC": 0}
	tiers.delay = func(s string) time.Duration { return delays[s] }

	r, err := usecase.NewStatisticsResolver(tiers, tiers, tiers, threshold, applogger.NewNop(), usecase.WithConcurrency(3))
	require.NoError(t, err)

	// Act
	got := r.ResolveBatch(t.Context(), []string{"A", "BB", "CCC"})

	// Assert
	require.Equal(t, []models.TickerStatistic{stat("A", 1), stat("BB", 2), stat("CCC", 3)}, got)
}

func TestResolveBatchRepeatedCallsHitCache(t *testing.T) {
	t.Parallel()

	// Arrange
	tiers := newMemoryTiers()
	r, err := usecase.NewStatisticsResolver(tiers, tiers, tiers, threshold, applogger.NewNop())
	require.NoError(t, err)

	// Act: the second call must be answered from the cache.
	first := r.ResolveBatch(t.Context(), []string{"AAPL"})
	second := r.ResolveBatch(t.Context(), []string{"AAPL"})

	// Assert
	require.Equal(t, first, second)
	require.EqualValues(t, 1, tiers.fetches.Load())
	require.Equal(t, threshold, tiers.ttls["AAPL"])
}

func TestResolveBatchDuplicatesResolvedPerOccurrence(t *testing.T) {
	t.Parallel()

	// Arrange: concurrent duplicates share one provider call.
	tiers := newMemoryTiers()
	tiers.delay = func(string) time.Duration { return 30 * time.Millisecond }
	r, err := usecase.NewStatisticsResolver(tiers, tiers, tiers, threshold, applogger.NewNop(), usecase.WithConcurrency(4))
	require.NoError(t, err)

	// Act
	got := r.ResolveBatch(t.Context(), []string{"AAPL", "AAPL", "AAPL"})

	// Assert: every occurrence is reported.
	require.Len(t, got, 3)
	require.LessOrEqual(t, tiers.fetches.Load(), int32(3))
	for _, s := range got {
		require.Equal(t, "AAPL", s.Symbol)
	}
}

func TestResolveBatchCancelledCallerLeavesSharedFetchRunning(t *testing.T) {
	t.Parallel()

	// Arrange: the first caller owns the in-flight fetch; a second caller joins it.
	tiers := newMemoryTiers()
	tiers.delay = func(string) time.Duration { return 100 * time.Millisecond }
	r, err := usecase.NewStatisticsResolver(tiers, tiers, tiers, threshold, applogger.NewNop())
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(t.Context())
	doneA := make(chan models.BatchResult, 1)
	go func() { doneA <- r.ResolveBatchDetailed(ctxA, []string{"AAPL"}) }()
	require.Eventually(t, func() bool { return tiers.fetches.Load() == 1 }, time.Second, time.Millisecond)

	doneB := make(chan []models.TickerStatistic, 1)
	go func() { doneB <- r.ResolveBatch(t.Context(), []string{"AAPL"}) }()
	time.Sleep(20 * time.Millisecond)

	// Act
	cancelA()
	gotA := <-doneA
	gotB := <-doneB

	// Assert: only the cancelled caller misses the symbol.
	require.Empty(t, gotA.Succeeded)
	require.Equal(t, []models.SymbolFailure{{Symbol: "AAPL", Reason: usecase.ReasonCancelled}}, gotA.Failed)
	require.Equal(t, []models.TickerStatistic{stat("AAPL", 4)}, gotB)
	require.EqualValues(t, 1, tiers.fetches.Load())
}
