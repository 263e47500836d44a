package live

import (
	"encoding/json"
	"fmt"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/engine"
	"github.com/invitely/invitely/editor-go/internal/gesture"
	"github.com/invitely/invitely/editor-go/internal/render"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypeCanvasLoad   = "canvas.load"
	TypeCanvasFlush  = "canvas.saveNow"
	TypeInputPointer = "input.pointer"
	TypeInputWheel   = "input.wheel"
	TypeInputKey     = "input.key"
	TypeCommand      = "command"

	// Server to client
	TypeWelcome       = "session.welcome"
	TypeRender        = "canvas.render"
	TypeSave          = "canvas.save"
	TypeCommandResult = "command.result"
	TypeError         = "error"
)

// WelcomePayload is sent once the session is mounted.
type WelcomePayload struct {
	SessionID string              `json:"sessionId"`
	ClientID  string              `json:"clientId"`
	Canvas    document.CanvasData `json:"canvas"`
}

// PointerPayload is one pointer sample in screen coordinates.
type PointerPayload struct {
	ID        int              `json:"id"`
	Phase     string           `json:"phase"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Modifiers engine.Modifiers `json:"modifiers"`
}

var phases = map[string]gesture.Phase{
	"down":   gesture.PhaseDown,
	"move":   gesture.PhaseMove,
	"up":     gesture.PhaseUp,
	"cancel": gesture.PhaseCancel,
}

// Event converts the payload into a gesture sample.
func (p PointerPayload) Event() (gesture.PointerEvent, error) {
	phase, ok := phases[p.Phase]
	if !ok {
		return gesture.PointerEvent{}, fmt.Errorf("unknown pointer phase %q", p.Phase)
	}
	return gesture.PointerEvent{ID: p.ID, Phase: phase, X: p.X, Y: p.Y}, nil
}

// WheelPayload is a wheel rotation over the canvas.
type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

// RenderPayload is everything the page redraws from: the draw buffer plus
// the panel state derived from the editor.
type RenderPayload struct {
	Surface    render.Surface  `json:"surface"`
	State      string          `json:"state"`
	SelectedID string          `json:"selectedId,omitempty"`
	CanUndo    bool            `json:"canUndo"`
	CanRedo    bool            `json:"canRedo"`
	Layers     []engine.Layer  `json:"layers"`
	Fill       engine.FillMode `json:"fill"`
	FontFamily string          `json:"fontFamily"`
}

// Snapshot captures what the page redraws from.
func Snapshot(e *engine.Editor) RenderPayload {
	return RenderPayload{
		Surface:    e.Render(),
		State:      e.State().String(),
		SelectedID: e.SelectedID(),
		CanUndo:    e.CanUndo(),
		CanRedo:    e.CanRedo(),
		Layers:     e.Layers(),
		Fill:       e.FillMode(),
		FontFamily: e.FontFamily(),
	}
}

// ErrorPayload reports a rejected message.
type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, v any) (*Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return &Message{Type: typ, Payload: payload}, nil
}
