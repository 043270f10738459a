package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/usecase"
	xhttp "ForecastAI/pkg/http"
	xlogger "ForecastAI/pkg/logger"
)

// ForecastEchoHandler serves the stateless endpoints: the caller sends the whole series.
type ForecastEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
}

func NewForecastEchoHandler(logger *xlogger.Logger, forecaster *usecase.Forecaster) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, forecaster: forecaster}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/forecast", h.Forecast)
	g.POST("/advisory", h.Advisory)
}

// Forecast returns the historical fit and the four projected periods.
func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.forecaster.Project(req.Series))
}

// Advisory runs one synchronous advisory call.
func (h *ForecastEchoHandler) Advisory(c echo.Context) error {
	start := time.Now()
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.Analyze(c.Request().Context(), req.Series)
	if err != nil {
		h.logger.Warn("advisory request failed",
			xlogger.Int("points", len(req.Series)),
			xlogger.Duration("took", time.Since(start)),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, ToAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}
