package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/request"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Handler struct {
	broker   *live.Broker
	profiles profile.Service
	events   event.Repository
	upgrader websocket.Upgrader
}

// NewHandler creates the live feed handler.
// An empty allowedOrigins list accepts any origin.
func NewHandler(broker *live.Broker, profiles profile.Service, events event.Repository, allowedOrigins []string) *Handler {
	return &Handler{
		broker:   broker,
		profiles: profiles,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Stream upgrades the request to a websocket and forwards notifications for one event
// until the client goes away.
func (h *Handler) Stream(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profiles.RequireProfile(ctx, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.events.GetByID(ctx, uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		slog.WarnContext(ctx, "websocket upgrade failed", slog.String("event_id", uri.ID), slog.Any("error", err))
		return
	}

	ch := h.broker.Subscribe(uri.ID)
	defer h.broker.Unsubscribe(uri.ID, ch)

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, ch, done)
}

// readPump discards client messages and keeps the read deadline alive on pongs.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, ch <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
