package api

import (
	"context"
	"net/http"

	"github.com/Akash-repo/service-p/internal/domain/models"
	xhttp "github.com/Akash-repo/service-p/pkg/http"
	xlogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/labstack/echo/v4"
)

const healthMessage = "service-p is alive"

// StatisticsResolver is the resolution use case consumed by the handler.
type StatisticsResolver interface {
	ResolveBatch(ctx context.Context, symbols []string) []models.TickerStatistic
	ResolveBatchDetailed(ctx context.Context, symbols []string) models.BatchResult
}

// AnalysisPublisher is the publish use case consumed by the handler.
type AnalysisPublisher interface {
	PublishSync(ctx context.Context, req models.AnalysisRequest) (string, error)
	PublishAsync(ctx context.Context, req models.AnalysisRequest) string
}

// TickerStatisticsRequest lists the symbols to resolve.
type TickerStatisticsRequest struct {
	Tickers []string `json:"tickers" validate:"required"`
}

// TickerStatisticsResponse wraps the resolved statistics.
type TickerStatisticsResponse struct {
	TickerStatistics []models.TickerStatistic `json:"tickerStatistics"`
}

// PublishResponse carries the correlation ID of a published analysis request.
type PublishResponse struct {
	MessageID string `json:"messageId"`
}

// TickerHandler serves statistics lookups and analysis publishing.
type TickerHandler struct {
	logger    *xlogger.Logger
	resolver  StatisticsResolver
	publisher AnalysisPublisher
}

func NewTickerHandler(logger *xlogger.Logger, resolver StatisticsResolver, publisher AnalysisPublisher) *TickerHandler {
	return &TickerHandler{logger: logger.Named("api"), resolver: resolver, publisher: publisher}
}

func (h *TickerHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health-check", h.Health)

	g := e.Group("/v1")
	g.POST("/ticker-statistics", h.Statistics)
	g.POST("/ticker-statistics/detailed", h.StatisticsDetailed)
	g.POST("/ticker-analysis-sync", h.AnalysisSync)
	g.POST("/ticker-analysis-async", h.AnalysisAsync)
}

func (h *TickerHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, healthMessage)
}

func (h *TickerHandler) Statistics(c echo.Context) error {
	req := &TickerStatisticsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stats := h.resolver.ResolveBatch(c.Request().Context(), req.Tickers)
	return xhttp.SuccessResponse(c, TickerStatisticsResponse{TickerStatistics: stats})
}

func (h *TickerHandler) StatisticsDetailed(c echo.Context) error {
	req := &TickerStatisticsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	return xhttp.SuccessResponse(c, h.resolver.ResolveBatchDetailed(c.Request().Context(), req.Tickers))
}

func (h *TickerHandler) AnalysisSync(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	id, err := h.publisher.PublishSync(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("sync publish failed", xlogger.String("message_id", id), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.PublishFailedError(id).WithError(err))
	}
	return xhttp.SuccessResponse(c, PublishResponse{MessageID: id})
}

func (h *TickerHandler) AnalysisAsync(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	id := h.publisher.PublishAsync(c.Request().Context(), *req)
	return xhttp.AcceptedResponse(c, PublishResponse{MessageID: id})
}
