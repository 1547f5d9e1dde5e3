package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketMessage represents a message sent over WebSocket.
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WebSocket message types.
const (
	wsTypeReport   = "report"
	wsTypeSnapshot = "snapshot"
	wsTypeError    = "error"
)

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// reportWebSocketHandler streams the run report every StreamInterval.
// Clients may send {"type":"snapshot"} to get a report immediately.
func (s *Server) reportWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// Increment active connections metric
	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.streamReports(conn)
}

// streamReports owns all writes to conn. The read loop runs in its own
// goroutine and forwards snapshot requests.
func (s *Server) streamReports(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	requests := make(chan string, 1)
	done := make(chan struct{})
	go s.readWebSocketRequests(conn, requests, done)

	if err := s.sendReport(conn, wsTypeReport); err != nil {
		return
	}

	ticker := time.NewTicker(s.config.StreamInterval)
	defer ticker.Stop()
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.sendReport(conn, wsTypeReport); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case msgType := <-requests:
			var err error
			if msgType == wsTypeSnapshot {
				err = s.sendReport(conn, wsTypeSnapshot)
			} else {
				err = s.sendWebSocketError(conn, "Unsupported message type: "+msgType)
			}
			if err != nil {
				return
			}
		}
	}
}

// readWebSocketRequests reads client messages until the connection fails.
func (s *Server) readWebSocketRequests(conn *websocket.Conn, requests chan<- string, done chan<- struct{}) {
	defer close(done)
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			return
		}

		// Record message metric
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType != websocket.TextMessage {
			continue
		}
		var msg WebSocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg.Type = "invalid"
		}
		select {
		case requests <- msg.Type:
		default:
			// A request is already pending and will carry a fresh report.
		}
	}
}

// sendReport writes the current run report.
func (s *Server) sendReport(conn WebSocketConnWriter, msgType string) error {
	return s.sendWebSocketMessage(conn, WebSocketMessage{Type: msgType, Payload: s.run.ReportData()})
}

// sendWebSocketError writes an error message.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, message string) error {
	return s.sendWebSocketMessage(conn, WebSocketMessage{Type: wsTypeError, Payload: message})
}

func (s *Server) sendWebSocketMessage(conn WebSocketConnWriter, msg WebSocketMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal websocket message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("WebSocket write failed", "error", err)
		return err
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return nil
}
