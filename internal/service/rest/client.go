package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/repository"
	"github.com/Akash-repo/service-p/internal/service/ratelimit"
	"github.com/Akash-repo/service-p/pkg/config"
	xhttp "github.com/Akash-repo/service-p/pkg/http"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
)

var (
	ErrProviderNotConfigured = errors.New("rest: provider not configured")
	ErrRetriesExhausted      = errors.New("rest: retries exhausted")
	ErrMissingPathVariable   = errors.New("rest: missing path variable")
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Client calls external providers described by named profiles.
type Client struct {
	profiles map[string]config.ProviderProfile
	http     *xhttp.Client
	limiter  *ratelimit.Limiter
	metrics  repository.Metrics
	log      *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLimiter enables per-profile rate limiting.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithMetrics records one sample per attempt.
func WithMetrics(m repository.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a provider client over the given profiles.
func New(profiles map[string]config.ProviderProfile, l *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		profiles: make(map[string]config.ProviderProfile, len(profiles)),
		log:      l.Named("rest"),
	}
	for name, p := range profiles {
		p.Name = name
		c.profiles[name] = p
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient()
	}
	return c
}

// Get performs a GET against the provider's resource path and decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, provider string, pathVars, queryParams map[string]string, dest any) error {
	return c.execute(ctx, provider, xhttp.MethodGet, pathVars, queryParams, nil, dest)
}

// Post sends body as JSON to the provider's resource path and decodes the JSON response into dest.
func (c *Client) Post(ctx context.Context, provider string, pathVars map[string]string, body, dest any) error {
	return c.execute(ctx, provider, xhttp.MethodPost, pathVars, nil, body, dest)
}

func (c *Client) execute(ctx context.Context, provider, method string, pathVars, queryParams map[string]string, body, dest any) error {
	p, ok := c.profiles[provider]
	if !ok {
		c.log.Error("provider profile missing", applogger.String("provider", provider))
		return fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}

	endpoint, err := BuildURL(p.BaseURL, p.ResourcePath, pathVars)
	if err != nil {
		c.log.Error("provider url invalid", applogger.String("provider", provider), applogger.Error(err))
		return err
	}

	req := &xhttp.RequestOptions{
		Method:      method,
		URL:         endpoint,
		QueryParams: queryValues(p, queryParams),
		Body:        body,
	}

	attempts := p.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.RetryDelay); err != nil {
				return c.abort(provider, endpoint, attempt-1, err)
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, provider, p.RateLimit.Capacity, p.RateLimit.RefillPerSecond); err != nil {
				return c.abort(provider, endpoint, attempt-1, err)
			}
		}

		start := time.Now()
		lastErr = c.attempt(ctx, p.Timeout, req, dest)
		c.observe(provider, lastErr, time.Since(start))
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return c.abort(provider, endpoint, attempt, ctx.Err())
		}
		if !Retryable(lastErr) {
			c.log.Error("provider request failed",
				applogger.String("provider", provider),
				applogger.String("method", method),
				applogger.String("url", endpoint),
				applogger.Int("attempt", attempt),
				applogger.Error(lastErr),
			)
			return lastErr
		}
		c.log.Warn("provider request attempt failed",
			applogger.String("provider", provider),
			applogger.String("method", method),
			applogger.String("url", endpoint),
			applogger.Int("attempt", attempt),
			applogger.Int("max_attempts", attempts),
			applogger.Error(lastErr),
		)
	}

	c.log.Error("provider retries exhausted",
		applogger.String("provider", provider),
		applogger.String("url", endpoint),
		applogger.Int("attempts", attempts),
		applogger.Error(lastErr),
	)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, timeout time.Duration, req *xhttp.RequestOptions, dest any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.http.SendAndParse(ctx, req, dest)
}

func (c *Client) abort(provider, endpoint string, attempts int, err error) error {
	c.log.Warn("provider request cancelled",
		applogger.String("provider", provider),
		applogger.String("url", endpoint),
		applogger.Int("attempts", attempts),
		applogger.Error(err),
	)
	return fmt.Errorf("rest: %s cancelled: %w", provider, err)
}

func (c *Client) observe(provider string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	result := "ok"
	var se *xhttp.StatusError
	switch {
	case err == nil:
	case errors.As(err, &se):
		result = fmt.Sprintf("%dxx", se.StatusCode/100)
	case errors.Is(err, xhttp.ErrDecode):
		result = "decode_error"
	default:
		result = "transport_error"
	}
	c.metrics.RecordProviderRequest(provider, result)
	c.metrics.RecordLatency("provider_request", d.Seconds())
}

// Retryable reports whether err is a server error, a connection failure, or a timeout.
func Retryable(err error) bool {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return errors.Is(err, xhttp.ErrTransport)
}

// BuildURL joins base and resourcePath, substituting every {name} with the path-escaped pathVars value.
func BuildURL(base, resourcePath string, pathVars map[string]string) (string, error) {
	var missing []string
	path := placeholder.ReplaceAllStringFunc(resourcePath, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := pathVars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingPathVariable, strings.Join(missing, ", "))
	}

	u, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("rest: parse url: %w", err)
	}
	return u.String(), nil
}

func queryValues(p config.ProviderProfile, params map[string]string) map[string][]string {
	q := make(map[string][]string, len(params)+1)
	for k, v := range params {
		q[k] = []string{v}
	}
	if p.APIKey != "" {
		name := p.APIKeyParam
		if name == "" {
			name = "apikey"
		}
		q[name] = []string{p.APIKey}
	}
	return q
}

func sleep(ctx context.Context, d time.Duration) error {
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
