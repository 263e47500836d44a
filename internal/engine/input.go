package engine

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/gesture"
	"github.com/invitely/invitely/editor-go/internal/render"
)

// ZoomStep is the toolbar zoom increment.
const ZoomStep = 0.1

// Modifiers are the keyboard modifiers held during an input event.
type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Meta  bool `json:"meta,omitempty"`
	Alt   bool `json:"alt,omitempty"`
}

// Pointer feeds one pointer sample in screen coordinates.
func (e *Editor) Pointer(ev gesture.PointerEvent, mods Modifiers) {
	for _, g := range e.gestures.Handle(ev) {
		e.gesture(g, mods)
	}
}

func (e *Editor) gesture(g gesture.Event, mods Modifiers) {
	switch g.Kind {
	case gesture.Press:
		e.press(g)
	case gesture.DragStart:
		// The dead zone is crossed; the following Drag carries the motion.
	case gesture.Drag:
		if g.PointerID != e.act.pointer {
			return
		}
		switch e.act.kind {
		case actionDrag:
			e.dragTo(g.X, g.Y)
		case actionTransform:
			e.transformTo(g.X, g.Y, mods.Shift)
		case actionPan:
			e.panX = e.act.panX + g.X - e.act.startX
			e.panY = e.act.panY + g.Y - e.act.startY
		}
	case gesture.Release:
		if g.PointerID == e.act.pointer {
			e.finishInteraction()
		}
	case gesture.PinchStart:
		e.finishInteraction()
		e.act = interaction{kind: actionPinch}
	case gesture.Pinch:
		if e.act.kind == actionPinch {
			e.pinch(g)
		}
	case gesture.PinchEnd:
		if e.act.kind == actionPinch {
			e.act = interaction{}
		}
	}
}

// press routes a pointer down: a handle of the selection starts a
// transform, an unlocked object is selected and armed for dragging, and
// anything else pans the view.
func (e *Editor) press(g gesture.Event) {
	e.finishInteraction()
	cx, cy := e.toCanvas(g.X, g.Y)

	if o, ok := e.Selected(); ok && !o.Locked() {
		handles := render.Handles(o.Bounds(), o.X, o.Y, o.Rotation, e.zoom)
		if h := render.HandleAt(handles, cx, cy, e.zoom); h != render.HandleNone {
			e.beginTransform(o, h, g.PointerID, g.X, g.Y)
			return
		}
	}

	id := render.HitTest(e.scene, cx, cy)
	if id == "" {
		e.Deselect()
		e.beginPan(g.PointerID, g.X, g.Y)
		return
	}
	o, _ := e.scene.Find(id)
	if o.Locked() {
		e.beginPan(g.PointerID, g.X, g.Y)
		return
	}
	e.Select(id)
	e.beginDrag(o, g.PointerID, g.X, g.Y)
}

// pinch zooms by the distance ratio, keeping the canvas point under the
// previous midpoint under the current one.
func (e *Editor) pinch(g gesture.Event) {
	prevX, prevY := g.X-g.DX, g.Y-g.DY
	e.zoomAround(e.zoom*g.Scale, prevX, prevY, g.X, g.Y)
}

// Wheel zooms around the pointer at (x, y) in screen coordinates. It is
// ignored while a pointer gesture is in progress, whose positions are
// anchored to the view at press.
func (e *Editor) Wheel(x, y, deltaY float64) {
	if math.IsNaN(deltaY) || math.IsInf(deltaY, 0) || e.act.kind != actionNone {
		return
	}
	e.zoomAround(e.zoom*math.Pow(1.1, -deltaY/100), x, y, x, y)
}

// zoomAround sets the zoom to z. The canvas point at screen (fromX, fromY)
// ends up at screen (toX, toY).
func (e *Editor) zoomAround(z, fromX, fromY, toX, toY float64) {
	old := e.zoom
	z = gesture.ClampZoom(z, e.opts.ZoomMin, e.opts.ZoomMax, old)
	cx := (fromX - e.panX) / old
	cy := (fromY - e.panY) / old
	e.zoom = z
	e.panX = toX - cx*z
	e.panY = toY - cy*z
}

// SetZoom sets the zoom around the top-left corner of the view.
func (e *Editor) SetZoom(z float64) {
	e.zoom = gesture.ClampZoom(z, e.opts.ZoomMin, e.opts.ZoomMax, e.zoom)
}

func (e *Editor) ZoomIn()  { e.SetZoom(e.zoom + ZoomStep) }
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom - ZoomStep) }

// ResetView restores zoom 1 with no pan.
func (e *Editor) ResetView() {
	e.zoom = gesture.ClampZoom(1, e.opts.ZoomMin, e.opts.ZoomMax, 1)
	e.panX, e.panY = 0, 0
}
