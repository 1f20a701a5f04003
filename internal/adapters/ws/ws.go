// Package ws adapts the proctoring hub to gorilla/websocket transport.
//
// Monitors connect to the school endpoint, send a join-monitor message
// naming an exam room, and receive student-event messages until they
// disconnect.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeduel/arena/internal/hub"
	"github.com/codeduel/arena/pkg/logger"
)

// Connection timing constants. The ping period stays under the read
// deadline so healthy connections never hit it.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512

	readBufferSize  = 1024
	writeBufferSize = 1024
)

// Inbound message types.
const (
	msgJoinMonitor = "join-monitor"
)

// Outbound message types.
const (
	msgStudentEvent = "student-event"
)

// inboundMessage is the envelope monitors send on the school channel.
type inboundMessage struct {
	Type   string `json:"type"`
	ExamID string `json:"examId"`
}

// outboundEvent wraps a student event with its message type.
type outboundEvent struct {
	Type string `json:"type"`
	hub.StudentEvent
}

// Server upgrades HTTP requests into monitor connections.
type Server struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewServer creates a websocket server for the given hub.
func NewServer(h *hub.Hub) *Server {
	return &Server{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checks belong to the deployment's proxy layer.
				return true
			},
		},
		logger: logger.Get().Named("ws"),
	}
}

// ServeSchool handles GET /ws/school, the monitor-facing channel.
func (s *Server) ServeSchool(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	m := s.hub.Connect()
	c := &client{
		conn:    conn,
		monitor: m,
		hub:     s.hub,
		logger:  s.logger,
	}

	go c.writePump()
	go c.readPump()
}

// client pairs one websocket connection with its hub monitor.
type client struct {
	conn    *websocket.Conn
	monitor *hub.Monitor
	hub     *hub.Hub
	logger  logger.Logger
}

// readPump consumes inbound messages until the connection drops. The
// deferred disconnect is the single cleanup path: it cancels the
// monitor's emitter and membership whether or not a join ever happened.
func (c *client) readPump() {
	ctx := context.Background()
	defer func() {
		c.hub.Disconnect(c.monitor)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn(ctx, "websocket read error",
					logger.String("monitorID", c.monitor.ID()),
					logger.Error(err),
				)
			}
			return
		}

		c.handleMessage(ctx, message)
	}
}

// handleMessage dispatches one inbound message. Malformed input is
// logged and dropped so one misbehaving client cannot take down its
// connection handling, let alone other monitors.
func (c *client) handleMessage(ctx context.Context, message []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn(ctx, "ignoring malformed message",
			logger.String("monitorID", c.monitor.ID()),
			logger.Error(err),
		)
		return
	}

	switch msg.Type {
	case msgJoinMonitor:
		if err := c.hub.Join(c.monitor, msg.ExamID); err != nil {
			c.logger.Warn(ctx, "join rejected",
				logger.String("monitorID", c.monitor.ID()),
				logger.String("examID", msg.ExamID),
				logger.Error(err),
			)
		}
	default:
		c.logger.Debug(ctx, "ignoring unknown message type",
			logger.String("monitorID", c.monitor.ID()),
			logger.String("type", msg.Type),
		)
	}
}

// writePump forwards hub events to the connection and keeps it alive
// with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.monitor.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the monitor; tell the peer and stop.
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			payload, err := json.Marshal(outboundEvent{Type: msgStudentEvent, StudentEvent: ev})
			if err != nil {
				c.logger.Error(context.Background(), "marshal event failed", logger.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
