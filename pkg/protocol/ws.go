package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "log/slog"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var ErrClosed = errors.New("connection closed")

type Config struct {
	URL string
	// Reconn is the pause between reconnect attempts.
	Reconn time.Duration
	// EmitOut receives frames nobody is waiting for.
	EmitOut func(Frame)
}

// Client sends commands and waits for the matching reply. Run must be
// running for replies to be delivered.
type Client struct {
	cfg Config

	connMu sync.Mutex
	conn   *ws.Conn

	waiterMu sync.Mutex
	waiters  map[string]chan Frame
}

func Dial(ctx context.Context, cfg Config) (*Client, error) {
	log.Debug("Dialing websocket", "url", cfg.URL)

	conn, _, err := ws.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	if cfg.Reconn <= 0 {
		cfg.Reconn = time.Second
	}

	return &Client{
		cfg:     cfg,
		conn:    conn,
		waiters: make(map[string]chan Frame),
	}, nil
}

func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *Client) write(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	log.Debug("Write ws", "frame", f)
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// Ask sends text as a command and blocks for its reply.
func (c *Client) Ask(ctx context.Context, text string) (Frame, error) {
	id := uuid.NewString()
	w := c.installWaiter(id)
	defer c.clearWaiter(id)

	if err := c.write(Command(id, text)); err != nil {
		return Frame{}, fmt.Errorf("send: %w", err)
	}

	select {
	case f, ok := <-w:
		if !ok {
			return Frame{}, ErrClosed
		}
		if f.Kind == KindError {
			return f, errors.New(f.Text)
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Run reads frames until ctx is done, reconnecting when the daemon goes away.
func (c *Client) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		_, data, err := c.current().ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				c.failWaiters()
				return
			}
			if isClosed(err) {
				log.Warn("Connection lost, reconnecting", "url", c.cfg.URL)
				c.failWaiters()
				if !c.reconnect(ctx) {
					return
				}
				log.Info("Reconnected")
				continue
			}
			log.Error("Failed to read", "err", err)
			c.failWaiters()
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		f, err := Parse(data)
		if err != nil {
			log.Warn("Failed to parse", "msg", string(data), "err", err)
			continue
		}

		if w := c.waiter(f.ID); w != nil {
			select {
			case w <- f:
			default:
				log.Debug("Duplicate reply dropped", "id", f.ID)
			}
		} else if c.cfg.EmitOut != nil {
			c.cfg.EmitOut(f)
		}
	}
}

func (c *Client) current() *ws.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

func (c *Client) reconnect(ctx context.Context) bool {
	for {
		conn, _, err := ws.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
		if err == nil {
			c.connMu.Lock()
			c.conn = conn
			c.connMu.Unlock()
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.cfg.Reconn):
		}
	}
}

func (c *Client) installWaiter(id string) chan Frame {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()

	w := make(chan Frame, 1)
	c.waiters[id] = w
	return w
}

func (c *Client) clearWaiter(id string) {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()
	delete(c.waiters, id)
}

func (c *Client) waiter(id string) chan Frame {
	if id == "" {
		return nil
	}
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()
	return c.waiters[id]
}

// failWaiters wakes every pending Ask after the connection dropped.
func (c *Client) failWaiters() {
	c.waiterMu.Lock()
	defer c.waiterMu.Unlock()

	for id, w := range c.waiters {
		close(w)
		delete(c.waiters, id)
	}
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
