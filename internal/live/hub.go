// Package live serves editor sessions over websockets. Each connection
// mounts its own session; the page sends raw input and commands and
// receives draw buffers and saves back.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/engine"
)

// ErrStopped is returned when connecting to a stopped hub.
var ErrStopped = errors.New("hub stopped")

// Hub tracks the mounted sessions.
type Hub struct {
	opts engine.SessionOptions
	log  *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool
}

// NewHub creates a hub mounting sessions with opts. Save and Invalidate are
// set per connection.
func NewHub(opts engine.SessionOptions, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		opts:    opts,
		log:     logger,
		clients: make(map[string]*Client),
	}
}

// Serve mounts a session for conn and blocks until the connection closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, data document.CanvasData) error {
	c := newClient(h, conn, uuid.New().String())
	if err := h.register(c, data); err != nil {
		conn.Close(websocket.StatusTryAgainLater, "shutting down")
		return err
	}

	c.sendPayload(TypeWelcome, WelcomePayload{
		SessionID: c.session.ID(),
		ClientID:  c.ID,
		Canvas:    data,
	})
	c.pushRender()

	go c.WritePump(ctx)
	c.ReadPump(ctx)
	return nil
}

// Len returns the number of mounted sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client, data document.CanvasData) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return ErrStopped
	}
	c.mount(data, h.opts, h.log)
	h.clients[c.ID] = c
	c.log.Info("session mounted", "session", c.session.ID(), "objects", len(data.Objects))
	return nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()
	if !ok {
		return
	}

	c.session.Close()
	c.closeSend()
	c.log.Info("session unmounted")
}

// Stop saves what every session still holds, then unmounts them. It waits
// for the final saves to be written or for ctx to expire.
func (h *Hub) Stop(ctx context.Context) {
	h.mu.Lock()
	h.stopped = true
	clients := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.session.Flush(); err != nil {
			c.log.Warn("flush session", "error", err)
		}
		c.session.Close()
		c.closeSend()
	}
	for _, c := range clients {
		select {
		case <-c.writeDone:
		case <-ctx.Done():
			return
		}
	}
	h.log.Info("hub stopped", "sessions", len(clients))
}

func (h *Hub) handleMessage(c *Client, msg *Message) {
	var err error
	switch msg.Type {
	case TypeCanvasLoad:
		err = h.handleLoad(c, msg)
	case TypeCanvasFlush:
		err = c.session.SaveNow()
	case TypeInputPointer:
		err = h.handlePointer(c, msg)
	case TypeInputWheel:
		err = h.handleWheel(c, msg)
	case TypeInputKey:
		err = h.handleKey(c, msg)
	case TypeCommand:
		err = h.handleCommand(c, msg)
	default:
		c.log.Warn("unknown message type", "type", msg.Type)
		c.sendError(msg.Seq, "unknown message type: "+msg.Type)
		return
	}
	if err != nil {
		c.log.Debug("message rejected", "type", msg.Type, "error", err)
		c.sendError(msg.Seq, err.Error())
	}
}

func (h *Hub) handleLoad(c *Client, msg *Message) error {
	data, err := document.Parse(msg.Payload)
	if err != nil {
		return err
	}
	if err := c.session.Load(data); err != nil {
		return err
	}
	c.pushRender()
	return nil
}

func (h *Hub) handlePointer(c *Client, msg *Message) error {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return err
	}
	ev, err := p.Event()
	if err != nil {
		return err
	}
	return c.do(func(e *engine.Editor) { e.Pointer(ev, p.Modifiers) })
}

func (h *Hub) handleWheel(c *Client, msg *Message) error {
	var p WheelPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return err
	}
	return c.do(func(e *engine.Editor) { e.Wheel(p.X, p.Y, p.DeltaY) })
}

func (h *Hub) handleKey(c *Client, msg *Message) error {
	var ev engine.KeyEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return err
	}
	return c.do(func(e *engine.Editor) { e.Key(ev) })
}

func (h *Hub) handleCommand(c *Client, msg *Message) error {
	cmd, err := engine.ParseCommand(msg.Payload)
	if err != nil {
		return err
	}
	var (
		res    engine.Result
		cmdErr error
	)
	if err := c.do(func(e *engine.Editor) { res, cmdErr = e.Apply(cmd) }); err != nil {
		return err
	}
	if cmdErr != nil {
		return cmdErr
	}
	out, err := newMessage(TypeCommandResult, res)
	if err != nil {
		return err
	}
	out.Seq = msg.Seq
	c.Send(out)
	return nil
}

// do runs fn on the session loop and sends the resulting render.
func (c *Client) do(fn func(e *engine.Editor)) error {
	return c.session.Do(func(e *engine.Editor) {
		fn(e)
		c.sendPayload(TypeRender, Snapshot(e))
	})
}

func (c *Client) pushRender() {
	c.session.Do(func(e *engine.Editor) { c.sendPayload(TypeRender, Snapshot(e)) })
}
