package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Akash-repo/service-p/internal/domain/repository/mock"
	"github.com/Akash-repo/service-p/internal/service/ratelimit"
	"github.com/Akash-repo/service-p/internal/service/rest"
	"github.com/Akash-repo/service-p/pkg/config"
	xhttp "github.com/Akash-repo/service-p/pkg/http"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const provider = "fmp"

func profile(baseURL string) config.ProviderProfile {
	return config.ProviderProfile{
		BaseURL:      baseURL,
		APIKey:       "secret",
		APIKeyParam:  "apikey",
		ResourcePath: "/quote/{ticker}",
		MaxRetries:   2,
		RetryDelay:   time.Millisecond,
		Timeout:      time.Second,
	}
}

func newClient(t *testing.T, p config.ProviderProfile, opts ...rest.Option) *rest.Client {
	t.Helper()
	return rest.New(map[string]config.ProviderProfile{provider: p}, applogger.NewNop(), opts...)
}

type quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestClientGet(t *testing.T) {
	t.Parallel()

	// Arrange: the server checks path substitution and query parameters.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/quote/AAPL", r.URL.Path)
		require.Equal(t, "secret", r.URL.Query().Get("apikey"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		_ = json.NewEncoder(w).Encode(quote{Symbol: "AAPL", Price: 150})
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	// Act
	var got quote
	err := c.Get(t.Context(), provider, map[string]string{"ticker": "AAPL"}, map[string]string{"format": "json"}, &got)

	// Assert
	require.NoError(t, err)
	require.Equal(t, quote{Symbol: "AAPL", Price: 150}, got)
}

func TestClientGetEscapesPathVariables(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote/BRK%2FB", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	require.NoError(t, c.Get(t.Context(), provider, map[string]string{"ticker": "BRK/B"}, nil, &quote{}))
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	// Arrange: the first attempt gets a 503.
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"symbol":"AAPL","price":1}`))
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	// Act
	var got quote
	err := c.Get(t.Context(), provider, map[string]string{"ticker": "AAPL"}, nil, &got)

	// Assert
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
	require.Equal(t, "AAPL", got.Symbol)
}

func TestClientRetriesExhausted(t *testing.T) {
	t.Parallel()

	// Arrange
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	// Act
	err := c.Get(t.Context(), provider, map[string]string{"ticker": "AAPL"}, nil, &quote{})

	// Assert: one initial attempt plus MaxRetries.
	require.ErrorIs(t, err, rest.ErrRetriesExhausted)
	var se *xhttp.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)
	require.EqualValues(t, 3, calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	err := c.Get(t.Context(), provider, map[string]string{"ticker": "NOPE"}, nil, &quote{})

	var se *xhttp.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.NotErrorIs(t, err, rest.ErrRetriesExhausted)
	require.EqualValues(t, 1, calls.Load())
}

func TestClientDecodeErrorIsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	err := c.Get(t.Context(), provider, map[string]string{"ticker": "AAPL"}, nil, &quote{})

	require.ErrorIs(t, err, xhttp.ErrDecode)
	require.EqualValues(t, 1, calls.Load())
}

func TestClientPerAttemptTimeoutIsRetried(t *testing.T) {
	t.Parallel()

	// Arrange: every attempt outlives the profile timeout.
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	p := profile(srv.URL)
	p.Timeout = 20 * time.Millisecond
	c := newClient(t, p)

	// Act
	err := c.Get(t.Context(), provider, map[string]string{"ticker": "AAPL"}, nil, &quote{})

	// Assert
	require.ErrorIs(t, err, rest.ErrRetriesExhausted)
	require.ErrorIs(t, err, xhttp.ErrTransport)
	require.EqualValues(t, 3, calls.Load())
}

func TestClientAbortsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	// Arrange: the caller cancels while the client waits to retry.
	ctx, cancel := context.WithCancel(t.Context())
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := profile(srv.URL)
	p.RetryDelay = time.Hour
	c := newClient(t, p)

	// Act
	err := c.Get(ctx, provider, map[string]string{"ticker": "AAPL"}, nil, &quote{})

	// Assert
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 1, calls.Load())
}

func TestClientPost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "AAPL", body["ticker"])
		_, _ = w.Write([]byte(`{"symbol":"AAPL","price":2}`))
	}))
	defer srv.Close()

	c := newClient(t, profile(srv.URL))

	var got quote
	err := c.Post(t.Context(), provider, map[string]string{"ticker": "AAPL"}, map[string]string{"ticker": "AAPL"}, &got)

	require.NoError(t, err)
	require.Equal(t, 2.0, got.Price)
}

func TestClientUnknownProvider(t *testing.T) {
	t.Parallel()

	c := newClient(t, profile("http://127.0.0.1:1"))

	err := c.Get(t.Context(), "alphavantage", nil, nil, &quote{})

	require.ErrorIs(t, err, rest.ErrProviderNotConfigured)
}

func TestClientMissingPathVariable(t *testing.T) {
	t.Parallel()

	c := newClient(t, profile("http://127.0.0.1:1"))

	err := c.Get(t.Context(), provider, map[string]string{}, nil, &quote{})

	require.ErrorIs(t, err, rest.ErrMissingPathVariable)
}

func TestClientRecordsMetricsAndRateLimits(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	metrics := mock.NewMockMetrics(ctrl)
	metrics.EXPECT().RecordProviderRequest(provider, "ok").Times(2)
	metrics.EXPECT().RecordLatency("provider_request", gomock.Any()).Times(2)

	p := profile(srv.URL)
	p.RateLimit.Capacity = 1
	p.RateLimit.RefillPerSecond = 50
	c := newClient(t, p, rest.WithMetrics(metrics), rest.WithLimiter(ratelimit.New()))

	// Act: the second call waits for a refilled token.
	start := time.Now()
	require.NoError(t, c.Get(t.Context(), provider, map[string]string{"ticker": "A"}, nil, &quote{}))
	require.NoError(t, c.Get(t.Context(), provider, map[string]string{"ticker": "B"}, nil, &quote{}))

	// Assert
	require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		base     string
		path     string
		vars     map[string]string
		expected string
		err      error
	}{
		{name: "simple", base: "https://api.example.com/v3", path: "/quote/{ticker}", vars: map[string]string{"ticker": "AAPL"}, expected: "https://api.example.com/v3/quote/AAPL"},
		{name: "trailing slash", base: "https://api.example.com/v3/", path: "quote/{ticker}", vars: map[string]string{"ticker": "MSFT"}, expected: "https://api.example.com/v3/quote/MSFT"},
		{name: "escaped", base: "https://api.example.com", path: "/quote/{ticker}", vars: map[string]string{"ticker": "BRK B"}, expected: "https://api.example.com/quote/BRK%20B"},
		{name: "multiple", base: "https://api.example.com", path: "/{kind}/{ticker}", vars: map[string]string{"kind": "quote", "ticker": "IBM"}, expected: "https://api.example.com/quote/IBM"},
		{name: "missing", base: "https://api.example.com", path: "/quote/{ticker}", vars: nil, err: rest.ErrMissingPathVariable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := rest.BuildURL(tc.base, tc.path, tc.vars)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	require.True(t, rest.Retryable(&xhttp.StatusError{StatusCode: http.StatusBadGateway}))
	require.False(t, rest.Retryable(&xhttp.StatusError{StatusCode: http.StatusTooManyRequests}))
	require.True(t, rest.Retryable(errors.Join(xhttp.ErrTransport, context.DeadlineExceeded)))
	require.False(t, rest.Retryable(xhttp.ErrDecode))
	require.False(t, rest.Retryable(errors.New("other")))
}
