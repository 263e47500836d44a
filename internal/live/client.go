package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 8 << 20 // canvases may carry data URL images
	sendBuffer = 256
)

// Client is one websocket connection and the editor session mounted for it.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *engine.Session
	log     *slog.Logger
	ID      string

	mu     sync.Mutex
	send   chan []byte
	closed bool

	writeDone chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		ID:        clientID,
		send:      make(chan []byte, sendBuffer),
		writeDone: make(chan struct{}),
	}
}

// mount starts the editor session. Saves and asynchronous redraws are
// pushed to the connection.
func (c *Client) mount(data document.CanvasData, opts engine.SessionOptions, logger *slog.Logger) {
	opts.Save = func(d document.CanvasData) { c.sendPayload(TypeSave, d) }
	opts.Invalidate = func(e *engine.Editor) { c.sendPayload(TypeRender, Snapshot(e)) }
	c.log = logger.With("client", c.ID)
	opts.Logger = c.log
	c.session = engine.NewSession(data, opts)
}

// ReadPump feeds incoming frames to the hub until the connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.log.Debug("read error", "error", err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("invalid message", "error", err)
			c.sendError(0, "invalid message")
			continue
		}
		msg.ClientID = c.ID
		msg.SessionID = c.session.ID()

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send buffer onto the connection and keeps it alive
// with pings. It returns once the buffer is closed and drained.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
		close(c.writeDone)
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg. A full buffer drops the message rather than stall the
// editor loop.
func (c *Client) Send(msg *Message) {
	msg.ClientID = c.ID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}

func (c *Client) sendPayload(typ string, v any) {
	msg, err := newMessage(typ, v)
	if err != nil {
		c.log.Error("build message", "error", err)
		return
	}
	c.Send(msg)
}

func (c *Client) sendError(seq int64, text string) {
	msg, err := newMessage(TypeError, ErrorPayload{Message: text})
	if err != nil {
		return
	}
	msg.Seq = seq
	c.Send(msg)
}

// closeSend stops accepting messages and lets WritePump finish.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
