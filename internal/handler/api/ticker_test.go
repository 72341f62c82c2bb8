package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Akash-repo/service-p/internal/domain/models"
	"github.com/Akash-repo/service-p/internal/handler/api"
	xhttp "github.com/Akash-repo/service-p/pkg/http"
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	requested []string
	result    models.BatchResult
}

func (f *fakeResolver) ResolveBatch(ctx context.Context, symbols []string) []models.TickerStatistic {
	return f.ResolveBatchDetailed(ctx, symbols).Succeeded
}

func (f *fakeResolver) ResolveBatchDetailed(_ context.Context, symbols []string) models.BatchResult {
	f.requested = symbols
	return f.result
}

type fakePublisher struct {
	id        string
	err       error
	syncReqs  []models.AnalysisRequest
	asyncReqs []models.AnalysisRequest
}

func (f *fakePublisher) PublishSync(_ context.Context, req models.AnalysisRequest) (string, error) {
	f.syncReqs = append(f.syncReqs, req)
	return f.id, f.err
}

func (f *fakePublisher) PublishAsync(_ context.Context, req models.AnalysisRequest) string {
	f.asyncReqs = append(f.asyncReqs, req)
	return f.id
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, r *fakeResolver, p *fakePublisher, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	h := api.NewTickerHandler(applogger.NewNop(), r, p)
	srv := xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithMetricsPath(""))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, &fakeResolver{}, &fakePublisher{}, http.MethodGet, "/health-check", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "service-p is alive", rec.Body.String())
}

func TestTickerStatistics(t *testing.T) {
	t.Parallel()

	// Arrange: only one of the two symbols resolves.
	r := &fakeResolver{result: models.BatchResult{
		Succeeded: []models.TickerStatistic{{Symbol: "AAPL", Price: 227.52, Volume: 10, PERatio: 34.6, LastUpdated: "1728561600"}},
		Failed:    []models.SymbolFailure{{Symbol: "NOPE", Reason: "provider: not found"}},
	}}

	// Act
	rec, env := serve(t, r, &fakePublisher{}, http.MethodPost, "/v1/ticker-statistics", `{"tickers":["AAPL","NOPE"]}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"AAPL", "NOPE"}, r.requested)
	require.JSONEq(t,
		`{"tickerStatistics":[{"symbol":"AAPL","price":227.52,"volume":10,"peRatio":34.6,"lastUpdated":"1728561600"}]}`,
		string(env.Data),
	)
}

func TestTickerStatisticsEmptyList(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{result: models.BatchResult{Succeeded: []models.TickerStatistic{}}}

	rec, env := serve(t, r, &fakePublisher{}, http.MethodPost, "/v1/ticker-statistics", `{"tickers":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"tickerStatistics":[]}`, string(env.Data))
}

func TestTickerStatisticsRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"tickers":`, `{"tickers":"AAPL"}`} {
		r := &fakeResolver{}

		rec, env := serve(t, r, &fakePublisher{}, http.MethodPost, "/v1/ticker-statistics", body)

		require.Equalf(t, http.StatusBadRequest, rec.Code, "body %s", body)
		require.Equal(t, http.StatusBadRequest, env.Status)
		require.Nil(t, r.requested)
	}
}

func TestTickerStatisticsDetailed(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{result: models.BatchResult{
		Succeeded: []models.TickerStatistic{},
		Failed:    []models.SymbolFailure{{Symbol: " ", Reason: "invalid symbol"}},
	}}

	rec, env := serve(t, r, &fakePublisher{}, http.MethodPost, "/v1/ticker-statistics/detailed", `{"tickers":[" "]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"succeeded":[],"failed":[{"symbol":" ","reason":"invalid symbol"}]}`, string(env.Data))
}

func TestAnalysisSync(t *testing.T) {
	t.Parallel()

	// Arrange
	p := &fakePublisher{id: "msg-1"}

	// Act
	rec, env := serve(t, &fakeResolver{}, p, http.MethodPost, "/v1/ticker-analysis-sync",
		`{"tickers":[{"ticker":"AAPL","query":"outlook"}],"email":"analyst@example.com"}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"messageId":"msg-1"}`, string(env.Data))
	require.Equal(t, []models.AnalysisRequest{{
		Tickers: []models.TickerQuery{{Ticker: "AAPL", Query: "outlook"}},
		Email:   "analyst@example.com",
	}}, p.syncReqs)
}

func TestAnalysisSyncFailureReportsMessageID(t *testing.T) {
	t.Parallel()

	p := &fakePublisher{id: "msg-2", err: errors.New("retries exhausted")}

	rec, env := serve(t, &fakeResolver{}, p, http.MethodPost, "/v1/ticker-analysis-sync",
		`{"tickers":[{"ticker":"AAPL"}]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errs []xhttp.AppError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.Len(t, errs, 1)
	require.Equal(t, "ERR_PUBLISH_FAILED", errs[0].Code)
	require.Equal(t, "msg-2", errs[0].Params["messageId"])
}

func TestAnalysisAsync(t *testing.T) {
	t.Parallel()

	p := &fakePublisher{id: "msg-3"}

	rec, env := serve(t, &fakeResolver{}, p, http.MethodPost, "/v1/ticker-analysis-async",
		`{"tickers":[{"ticker":"MSFT","query":"risks"}]}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.JSONEq(t, `{"messageId":"msg-3"}`, string(env.Data))
	require.Len(t, p.asyncReqs, 1)
	require.Empty(t, p.syncReqs)
}

func TestAnalysisRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/v1/ticker-analysis-sync", "/v1/ticker-analysis-async"} {
		for _, body := range []string{`{}`, `{"tickers":[]}`, `{"tickers":[{"query":"no ticker"}]}`} {
			p := &fakePublisher{id: "unused"}

			rec, _ := serve(t, &fakeResolver{}, p, http.MethodPost, path, body)

			require.Equalf(t, http.StatusBadRequest, rec.Code, "%s %s", path, body)
			require.Empty(t, p.syncReqs)
			require.Empty(t, p.asyncReqs)
		}
	}
}
