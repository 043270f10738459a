package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/handler/api"
	xhttp "ForecastAI/pkg/http"
	xlogger "ForecastAI/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 << 10
)

// SessionReader loads the session a subscriber asks for.
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

// Handler upgrades /api/sessions/:id/events to a websocket streaming session events.
// The first message is always a session.snapshot.
type Handler struct {
	hub      *Hub
	sessions SessionReader
	upgrader websocket.Upgrader
	logger   *xlogger.Logger
}

// NewHandler creates the events handler. Origins lists the allowed browser
// origins; empty or "*" allows any.
func NewHandler(hub *Hub, sessions SessionReader, logger *xlogger.Logger, origins ...string) *Handler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &Handler{
		hub:      hub,
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin(origins),
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/sessions/:id/events", h.Events)
}

func (h *Handler) Events(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if _, err := h.sessions.GetSession(c.Request().Context(), req.ID); err != nil {
		return xhttp.AppErrorResponse(c, api.ToAppError(err))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered the request.
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	sub := h.hub.subscribe(req.ID)
	if sub == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}

	// The snapshot is read after subscribing so no change falls between the two.
	if sess, err := h.sessions.GetSession(context.Background(), req.ID); err == nil {
		if b, err := json.Marshal(models.SessionEvent{
			Type:      models.EventSnapshot,
			SessionID: sess.ID,
			Session:   sess,
			At:        time.Now().UTC(),
		}); err == nil {
			h.hub.deliver(req.ID, sub, b)
		}
	}

	h.logger.Debug("event subscriber connected", xlogger.String("session_id", req.ID))
	go h.writePump(conn, sub)
	h.readPump(conn)

	h.hub.unsubscribe(req.ID, sub)
	h.logger.Debug("event subscriber disconnected", xlogger.String("session_id", req.ID))
	return nil
}

// writePump sends queued events and keeps the connection alive with pings.
// It owns all writes to conn.
func (h *Handler) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and returns when the connection goes away.
func (h *Handler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", xlogger.Error(err))
			}
			return
		}
	}
}

func checkOrigin(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
