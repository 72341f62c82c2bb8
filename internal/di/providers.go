package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	"github.com/Akash-repo/service-p/internal/domain/repository"
	"github.com/Akash-repo/service-p/internal/handler/api"
	internalrepo "github.com/Akash-repo/service-p/internal/repository"
	"github.com/Akash-repo/service-p/internal/service/idgen"
	"github.com/Akash-repo/service-p/internal/service/ratelimit"
	"github.com/Akash-repo/service-p/internal/service/rest"
	"github.com/Akash-repo/service-p/internal/usecase"
	pkgcache "github.com/Akash-repo/service-p/pkg/cache"
	pkgch "github.com/Akash-repo/service-p/pkg/clickhouse"
	"github.com/Akash-repo/service-p/pkg/config"
	xhttp "github.com/Akash-repo/service-p/pkg/http"
	pkgkafka "github.com/Akash-repo/service-p/pkg/kafka"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
	"github.com/Akash-repo/service-p/pkg/metrics"
	"github.com/Akash-repo/service-p/pkg/postgres"
	"github.com/Akash-repo/service-p/pkg/server"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

const schemaTimeout = 10 * time.Second

// InfraSet provides infrastructure clients.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),
	ProvideCacheService,
	ProvidePostgresClient,
	ProvideClickHouseClient,
	ProvideKafkaProducer,
)

// RepositorySet provides the domain repository implementations.
var RepositorySet = wire.NewSet(
	ProvideStatisticCache,
	ProvideStatisticStore,
	ProvideQuoteHistory,
	ProvideEnvelopeBroker,
	ProvideIDGenerator,
	ProvideRateLimiter,
	ProvideRestClient,
	ProvideQuoteSource,
)

// UsecaseSet provides use cases, transport and the application.
var UsecaseSet = wire.NewSet(
	ProvideStatisticsResolver,
	ProvideAnalysisPublisher,
	ProvideTickerHandler,
	ProvideHTTPServer,
	ProvideApp,
)

// ProvideLogger creates the root logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCacheService creates the cache backend selected by cache.backend.
func ProvideCacheService(cfg *config.Config, l *applogger.Logger) (pkgcache.Service, func(), error) {
	var svc pkgcache.Service
	switch cfg.Cache.Backend {
	case "memory":
		svc = pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
			pkgcache.WithMemoryCleanup(cfg.Cache.Memory.CleanupInterval),
		)
	case "redis", "layered":
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = rc
		if cfg.Cache.Backend == "layered" {
			svc = pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize))
		}
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvidePostgresClient connects the statistic store and migrates its table.
func ProvidePostgresClient(cfg *config.Config, l *applogger.Logger) (*postgres.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()

	pg := cfg.Postgres
	client, err := postgres.New(ctx, postgres.Option{
		Host:            pg.Host,
		Port:            pg.Port,
		User:            pg.User,
		Password:        pg.Password,
		Database:        pg.Database,
		SSLMode:         pg.SSLMode,
		ConnString:      pg.DSN,
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: pg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("postgres client: %w", err)
	}

	if pg.AutoMigrate {
		if err := client.AutoMigrate(ctx, &models.TickerRecord{}); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("postgres close error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideClickHouseClient creates the quote history client. It returns nil when history is disabled.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}

	ch := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.QuoteHistorySchema(ch.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideKafkaProducer creates a Kafka producer. Retries are owned by the publisher,
// whose drain also closes the producer; the cleanup covers a failed build.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(1),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.AutoCreateTopics),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	cleanup := func() {
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideStatisticCache wraps the cache backend as the statistic tier.
func ProvideStatisticCache(svc pkgcache.Service, l *applogger.Logger) repository.StatisticCache {
	return internalrepo.NewStatisticCache(svc, l)
}

// ProvideStatisticStore creates the Postgres statistic store.
func ProvideStatisticStore(client *postgres.Client, l *applogger.Logger) repository.StatisticStore {
	return internalrepo.NewStatisticStore(client.DB(), l)
}

// ProvideQuoteHistory creates the ClickHouse history sink, or nil without a client.
func ProvideQuoteHistory(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.QuoteHistory {
	if client == nil {
		return nil
	}
	return internalrepo.NewQuoteHistory(client, cfg.ClickHouse.Database, l)
}

// ProvideEnvelopeBroker adapts the producer to the publisher's broker port.
func ProvideEnvelopeBroker(producer *pkgkafka.Producer) repository.EnvelopeBroker {
	return internalrepo.NewKafkaEnvelopeBroker(producer)
}

// ProvideIDGenerator creates the message ID generator.
func ProvideIDGenerator() repository.IDGenerator {
	return idgen.NewUUIDGenerator()
}

// ProvideRateLimiter creates the shared provider rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideRestClient creates the provider client over every configured profile.
func ProvideRestClient(cfg *config.Config, limiter *ratelimit.Limiter, m repository.Metrics, l *applogger.Logger) *rest.Client {
	return rest.New(cfg.Providers, l,
		rest.WithLimiter(limiter),
		rest.WithMetrics(m),
	)
}

// ProvideQuoteSource binds the quote source to the active provider profile.
func ProvideQuoteSource(client *rest.Client, cfg *config.Config) repository.QuoteSource {
	return rest.NewFMPQuoteSource(client, cfg.Resolver.Provider)
}

// ProvideStatisticsResolver creates the resolution use case.
func ProvideStatisticsResolver(
	cache repository.StatisticCache,
	store repository.StatisticStore,
	source repository.QuoteSource,
	history repository.QuoteHistory,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) (*usecase.StatisticsResolver, error) {
	profile, ok := cfg.Profile(cfg.Resolver.Provider)
	if !ok {
		return nil, fmt.Errorf("resolver: %w: %s", rest.ErrProviderNotConfigured, cfg.Resolver.Provider)
	}

	return usecase.NewStatisticsResolver(cache, store, source, profile.StalenessThreshold(), l,
		usecase.WithConcurrency(cfg.Resolver.Concurrency),
		usecase.WithBatchTimeout(cfg.Resolver.BatchTimeout),
		usecase.WithQuoteHistory(history),
		usecase.WithResolverMetrics(m),
	)
}

// ProvideAnalysisPublisher creates the publish use case.
func ProvideAnalysisPublisher(
	broker repository.EnvelopeBroker,
	ids repository.IDGenerator,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) (*usecase.AnalysisPublisher, error) {
	opts := []usecase.PublisherOption{usecase.WithPublisherMetrics(m)}
	if t := cfg.Publisher.FaultInjectionTicker; t != "" {
		l.Warn("publisher fault injection enabled", applogger.String("ticker", t))
		opts = append(opts, usecase.WithFaultInjector(usecase.SentinelFaultInjector{Ticker: t}))
	}

	return usecase.NewAnalysisPublisher(broker, ids, usecase.PublisherConfig{
		Topic:      cfg.Publisher.Topic,
		DLTTopic:   cfg.Publisher.DLTTopic,
		MaxRetries: cfg.Publisher.MaxRetries,
		RetryDelay: cfg.Publisher.RetryDelay,
	}, l, opts...)
}

// ProvideTickerHandler creates the HTTP handler.
func ProvideTickerHandler(
	l *applogger.Logger,
	resolver *usecase.StatisticsResolver,
	publisher *usecase.AnalysisPublisher,
) *api.TickerHandler {
	return api.NewTickerHandler(l, resolver, publisher)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.TickerHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithLogger(l),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequestThreshold(cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp assembles the application. The publisher drains before the infrastructure cleanup runs.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	publisher *usecase.AnalysisPublisher,
	l *applogger.Logger,
) *server.App {
	return server.New(srv, l,
		server.WithDrainer(publisher),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout+cfg.Publisher.RetryDelay*2),
	)
}
