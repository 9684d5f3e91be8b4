package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/service"
	ws "github.com/acadrec/acadrec-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams batch compute progress over WebSocket.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// BatchProgressStream godoc
// WS /ws/v1/batches/:job_id/progress
// Relays the Redis progress channel for one batch compute run. The
// connection closes after the terminal "done" event.
func (h *WSHandler) BatchProgressStream(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.BatchProgressChannel(jobID.String()))
	defer sub.Close()

	wsLog := h.log.With().Str("job_id", jobID.String()).Logger()
	wsLog.Info().Msg("Progress stream connected")

	// Drain client frames so pings get answered and a client close
	// tears the stream down.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-clientGone:
			wsLog.Debug().Msg("Client disconnected")
			return

		case msg, ok := <-events:
			if !ok {
				return
			}

			var ev service.BatchProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				wsLog.Error().Err(err).Msg("Invalid progress payload")
				continue
			}

			if ev.Stage == "done" {
				ws.WriteTyped(conn, ws.DoneResponse{
					Event: ws.EventDone,
					JobID: ev.JobID,
					Total: ev.Total,
				})
				wsLog.Info().Msg("Progress stream finished")
				return
			}

			if err := ws.WriteTyped(conn, ws.ProgressResponse{
				Event:  ws.EventProgress,
				JobID:  ev.JobID,
				RollNo: ev.RollNo,
				Index:  ev.Index,
				Total:  ev.Total,
				Stage:  ev.Stage,
				Error:  ev.Error,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing stream")
				return
			}
		}
	}
}
