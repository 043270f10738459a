package api

import (
	"github.com/labstack/echo/v4"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/usecase"
	xhttp "ForecastAI/pkg/http"
	xlogger "ForecastAI/pkg/logger"
)

// SessionsEchoHandler exposes the server-owned dashboard sessions.
type SessionsEchoHandler struct {
	logger *xlogger.Logger
	dash   *usecase.Dashboard
}

func NewSessionsEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard) *SessionsEchoHandler {
	return &SessionsEchoHandler{logger: logger, dash: dash}
}

func (h *SessionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/rows", h.AddRow)
	g.PATCH("/:id/rows/:index", h.UpdateRow)
	g.DELETE("/:id/rows/:index", h.RemoveRow)
	g.GET("/:id/forecast", h.Forecast)
	g.POST("/:id/advisory", h.RequestAdvisory)
	g.GET("/:id/advisory", h.AdvisoryState)
}

func (h *SessionsEchoHandler) Create(c echo.Context) error {
	req := &models.CreateSessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.CreateSession(c.Request().Context(), req.Series)
	if err != nil {
		return h.fail(c, "create session", err)
	}
	return xhttp.CreatedResponse(c, sess)
}

func (h *SessionsEchoHandler) Get(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.GetSession(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "get session", err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *SessionsEchoHandler) AddRow(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.AddRow(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "add row", err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *SessionsEchoHandler) UpdateRow(c echo.Context) error {
	req := &models.UpdateRowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.UpdateRow(c.Request().Context(), req.ID, req.Index, req.Label, req.Value)
	if err != nil {
		return h.fail(c, "update row", err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *SessionsEchoHandler) RemoveRow(c echo.Context) error {
	req := &models.RowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.RemoveRow(c.Request().Context(), req.ID, req.Index)
	if err != nil {
		return h.fail(c, "remove row", err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *SessionsEchoHandler) Forecast(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	proj, err := h.dash.Forecast(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "forecast", err)
	}
	return xhttp.SuccessResponse(c, proj)
}

// RequestAdvisory answers 202 once the call is issued; the result arrives on the
// session and its event stream.
func (h *SessionsEchoHandler) RequestAdvisory(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, err := h.dash.RequestAdvisory(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "request advisory", err)
	}
	return xhttp.AcceptedResponse(c, sess)
}

func (h *SessionsEchoHandler) AdvisoryState(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	state, err := h.dash.AdvisoryState(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "advisory state", err)
	}
	return xhttp.SuccessResponse(c, state)
}

func (h *SessionsEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := ToAppError(err)
	if appErr.Status >= 500 {
		h.logger.Error(op+" failed", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.String("code", appErr.Code), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
