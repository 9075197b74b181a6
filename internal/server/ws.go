package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	log "log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"jarvis/internal/metrics"
	"jarvis/pkg/protocol"
)

var upgrader = websocket.Upgrader{
	// the daemon listens on localhost; any local page may talk to it
	CheckOrigin: func(*http.Request) bool { return true },
}

type safeConn struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

func (c *safeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *safeConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.mu.Unlock()
		err = c.conn.Close()
		c.closed.Store(true)
	})
	return err
}

// Hub tracks connected websocket clients.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*safeConn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*safeConn)}
}

func (h *Hub) add(id string, c *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast pushes an event frame to every client.
func (h *Hub) Broadcast(f protocol.Frame) {
	h.mu.Lock()
	conns := make([]*safeConn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(f); err != nil {
			log.Debug("Broadcast failed", "err", err)
		}
	}
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.conns {
		_ = c.Close()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("WS upgrade failed", "err", err)
		return
	}

	id := uuid.NewString()
	sc := &safeConn{conn: conn}
	s.hub.add(id, sc)
	metrics.WSConnected()
	log.Info("WS connected", "session", id, "remote", r.RemoteAddr)

	defer func() {
		s.hub.remove(id)
		metrics.WSDisconnected()
		_ = sc.Close()
		log.Info("WS disconnected", "session", id)
	}()

	ctx := r.Context()
	go func() {
		<-ctx.Done()
		_ = sc.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || sc.closed.Load() {
				log.Debug("WS closed", "session", id, "err", err)
			} else {
				log.Warn("WS read failed", "session", id, "err", err)
			}
			return
		}

		f, err := protocol.Parse(data)
		if err != nil || f.Kind != protocol.KindCommand {
			var probe struct {
				ID string `json:"id"`
			}
			_ = json.Unmarshal(data, &probe)
			reason := "expected a command frame"
			if err != nil {
				reason = err.Error()
			}
			_ = sc.WriteJSON(protocol.Error(probe.ID, reason))
			continue
		}

		reply := s.Router.Route(ctx, f.Text)
		out := protocol.Frame{
			ID:       f.ID,
			Kind:     protocol.KindReply,
			Text:     reply.Text,
			Language: reply.Language,
			Intent:   reply.Intent,
		}
		if err := sc.WriteJSON(out); err != nil {
			log.Warn("WS write failed", "session", id, "err", err)
			return
		}
	}
}
