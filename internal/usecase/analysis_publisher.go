package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/models"
	"github.com/Akash-repo/service-p/internal/domain/repository"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
)

const (
	DefaultFaultTicker = "PRODUCER_FAIL"

	ModeSync  = "sync"
	ModeAsync = "async"

	OutcomeDelivered    = "delivered"
	OutcomeExhausted    = "exhausted"
	OutcomeDeadLettered = "dead_lettered"
	OutcomeLost         = "lost"
)

var (
	// ErrPublishExhausted is returned by PublishSync once every attempt has failed.
	ErrPublishExhausted = errors.New("publish: retries exhausted")
	// ErrInjectedFault is the failure produced by a FaultInjector.
	ErrInjectedFault = errors.New("publish: injected fault")
)

// FaultInjector decides whether a main-topic send should fail without reaching the broker.
type FaultInjector interface {
	Inject(env models.AnalysisEnvelope) error
}

// SentinelFaultInjector fails every envelope that carries Ticker.
type SentinelFaultInjector struct {
	Ticker string
}

func (s SentinelFaultInjector) Inject(env models.AnalysisEnvelope) error {
	if s.Ticker != "" && env.HasTicker(s.Ticker) {
		return fmt.Errorf("%w: sentinel ticker %s", ErrInjectedFault, s.Ticker)
	}
	return nil
}

// PublisherConfig holds topic and retry settings.
type PublisherConfig struct {
	Topic      string
	DLTTopic   string
	MaxRetries int           // total attempts for PublishSync
	RetryDelay time.Duration // pause between sync attempts; each sync attempt is bounded by twice this
}

// AnalysisPublisher hands analysis envelopes to the broker.
type AnalysisPublisher struct {
	broker  repository.EnvelopeBroker
	ids     repository.IDGenerator
	cfg     PublisherConfig
	faults  FaultInjector
	metrics repository.Metrics
	log     *applogger.Logger

	inflight sync.WaitGroup
}

// PublisherOption configures AnalysisPublisher.
type PublisherOption func(*AnalysisPublisher)

// WithFaultInjector installs a fault injector on the main-topic path.
func WithFaultInjector(f FaultInjector) PublisherOption {
	return func(p *AnalysisPublisher) {
		p.faults = f
	}
}

// WithPublisherMetrics records publish outcomes.
func WithPublisherMetrics(m repository.Metrics) PublisherOption {
	return func(p *AnalysisPublisher) {
		p.metrics = m
	}
}

// NewAnalysisPublisher creates the publisher.
func NewAnalysisPublisher(
	broker repository.EnvelopeBroker,
	ids repository.IDGenerator,
	cfg PublisherConfig,
	l *applogger.Logger,
	opts ...PublisherOption,
) (*AnalysisPublisher, error) {
	if broker == nil || ids == nil {
		return nil, fmt.Errorf("publisher: broker and id generator are required")
	}
	if cfg.Topic == "" || cfg.DLTTopic == "" {
		return nil, fmt.Errorf("publisher: topic and dead-letter topic are required")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("publisher: max retries must be at least 1, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("publisher: retry delay cannot be negative")
	}

	p := &AnalysisPublisher{
		broker: broker,
		ids:    ids,
		cfg:    cfg,
		log:    l.Named("publisher"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PublishSync sends the envelope to the main topic with bounded retry.
// It returns the message ID in every case and ErrPublishExhausted when no attempt succeeded.
func (p *AnalysisPublisher) PublishSync(ctx context.Context, req models.AnalysisRequest) (string, error) {
	env, payload, err := p.envelope(req)
	if err != nil {
		return env.MessageID, err
	}

	var lastErr error
	attempts := 0
	for attempts < p.cfg.MaxRetries {
		attempts++
		lastErr = p.attemptSync(ctx, env, payload)
		if lastErr == nil {
			p.log.Info("analysis request published",
				applogger.String("message_id", env.MessageID),
				applogger.String("topic", p.cfg.Topic),
				applogger.Int("attempt", attempts),
			)
			p.record(ModeSync, OutcomeDelivered)
			return env.MessageID, nil
		}

		p.log.Warn("publish attempt failed",
			applogger.String("message_id", env.MessageID),
			applogger.Int("attempt", attempts),
			applogger.Int("max_attempts", p.cfg.MaxRetries),
			applogger.Error(lastErr),
		)
		if attempts == p.cfg.MaxRetries {
			break
		}
		if err := wait(ctx, p.cfg.RetryDelay); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}

	p.log.Error("publish retries exhausted",
		applogger.String("message_id", env.MessageID),
		applogger.Int("attempts", attempts),
		applogger.Error(lastErr),
	)
	p.record(ModeSync, OutcomeExhausted)
	return env.MessageID, fmt.Errorf("%w: message %s after %d attempts: %w", ErrPublishExhausted, env.MessageID, attempts, lastErr)
}

// PublishAsync returns the message ID at once and sends in the background, detached
// from ctx cancellation. A failed send is rerouted once to the dead-letter topic.
// Async sends are bounded by the broker's write timeout only.
func (p *AnalysisPublisher) PublishAsync(ctx context.Context, req models.AnalysisRequest) string {
	env, payload, err := p.envelope(req)
	if err != nil {
		p.log.Critical("analysis request lost", applogger.String("message_id", env.MessageID), applogger.Error(err))
		p.record(ModeAsync, OutcomeLost)
		return env.MessageID
	}

	bg := context.WithoutCancel(ctx)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.deliverAsync(bg, env, payload)
	}()
	return env.MessageID
}

func (p *AnalysisPublisher) deliverAsync(ctx context.Context, env models.AnalysisEnvelope, payload []byte) {
	err := p.sendMain(ctx, env, payload)
	if err == nil {
		p.log.Info("analysis request published",
			applogger.String("message_id", env.MessageID),
			applogger.String("topic", p.cfg.Topic),
		)
		p.record(ModeAsync, OutcomeDelivered)
		return
	}

	p.log.Warn("async publish failed, routing to dead-letter topic",
		applogger.String("message_id", env.MessageID),
		applogger.String("dlt_topic", p.cfg.DLTTopic),
		applogger.Error(err),
	)

	if dltErr := p.send(ctx, p.cfg.DLTTopic, env.MessageID, payload); dltErr != nil {
		p.log.Critical("analysis request lost",
			applogger.String("message_id", env.MessageID),
			applogger.Int("tickers", len(env.Tickers)),
			applogger.Error(errors.Join(err, dltErr)),
		)
		p.record(ModeAsync, OutcomeLost)
		return
	}

	p.log.Info("analysis request dead-lettered",
		applogger.String("message_id", env.MessageID),
		applogger.String("dlt_topic", p.cfg.DLTTopic),
	)
	p.record(ModeAsync, OutcomeDeadLettered)
}

// Close waits for in-flight async sends, then closes the broker.
func (p *AnalysisPublisher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.log.Warn("publisher closed with sends in flight", applogger.Error(ctx.Err()))
		return ctx.Err()
	}
	return p.broker.Close()
}

func (p *AnalysisPublisher) envelope(req models.AnalysisRequest) (models.AnalysisEnvelope, []byte, error) {
	env := models.NewAnalysisEnvelope(p.ids.NewID(), req)
	payload, err := json.Marshal(env)
	if err != nil {
		return env, nil, fmt.Errorf("publish: encode envelope %s: %w", env.MessageID, err)
	}
	return env, payload, nil
}

// attemptSync makes one main-topic attempt bounded by twice the retry delay.
func (p *AnalysisPublisher) attemptSync(ctx context.Context, env models.AnalysisEnvelope, payload []byte) error {
	if p.cfg.RetryDelay > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*p.cfg.RetryDelay)
		defer cancel()
	}
	return p.sendMain(ctx, env, payload)
}

func (p *AnalysisPublisher) sendMain(ctx context.Context, env models.AnalysisEnvelope, payload []byte) error {
	if p.faults != nil {
		if err := p.faults.Inject(env); err != nil {
			return err
		}
	}
	return p.send(ctx, p.cfg.Topic, env.MessageID, payload)
}

func (p *AnalysisPublisher) send(ctx context.Context, topic, key string, payload []byte) error {
	return p.broker.Send(ctx, topic, key, payload)
}

func (p *AnalysisPublisher) record(mode, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordPublish(mode, outcome)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
