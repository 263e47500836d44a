package engine

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// RotationSnap is the step used for rotation while Shift is held.
const RotationSnap = 15

type actionKind int

const (
	actionNone actionKind = iota
	actionDrag
	actionTransform
	actionPan
	actionPinch
)

// interaction is the pointer gesture in progress. Drags and transforms only
// touch preview; the scene is written once when the gesture ends.
type interaction struct {
	kind    actionKind
	pointer int

	id     string
	handle render.Handle
	origin scene.Object
	// preview is the live geometry, nil until the pointer moved.
	preview *scene.Object
	started bool

	// screen position and pan at press
	startX, startY float64
	panX, panY     float64
}

func (e *Editor) beginDrag(o scene.Object, pointer int, x, y float64) {
	e.act = interaction{
		kind:    actionDrag,
		pointer: pointer,
		id:      o.ID,
		origin:  o,
		startX:  x,
		startY:  y,
	}
}

func (e *Editor) beginTransform(o scene.Object, h render.Handle, pointer int, x, y float64) {
	e.act = interaction{
		kind:    actionTransform,
		pointer: pointer,
		id:      o.ID,
		handle:  h,
		origin:  o,
		startX:  x,
		startY:  y,
	}
}

func (e *Editor) beginPan(pointer int, x, y float64) {
	e.act = interaction{
		kind:    actionPan,
		pointer: pointer,
		startX:  x,
		startY:  y,
		panX:    e.panX,
		panY:    e.panY,
	}
}

// dragTo moves the preview so the object follows the pointer.
func (e *Editor) dragTo(x, y float64) {
	o := e.act.origin
	o.X += (x - e.act.startX) / e.zoom
	o.Y += (y - e.act.startY) / e.zoom
	e.act.started = true
	e.act.preview = &o
}

// transformTo updates the preview for the grabbed handle with the pointer
// at screen position (x, y).
func (e *Editor) transformTo(x, y float64, snap bool) {
	cx, cy := e.toCanvas(x, y)
	var next scene.Object
	var ok bool
	if e.act.handle == render.HandleRotate {
		next, ok = rotateTo(e.act.origin, cx, cy, snap), true
	} else {
		next, ok = resizeTo(e.act.origin, e.act.handle, cx, cy, e.opts.MinBoxSize)
	}
	e.act.started = true
	if !ok {
		// Degenerate box: keep the last valid preview.
		return
	}
	e.act.preview = &next
}

// resizeTo drags the edges named by h to the canvas point (cx, cy). The
// point is taken into the object's unrotated frame so edges move along the
// object's own axes. Boxes thinner than minSize are rejected.
func resizeTo(o scene.Object, h render.Handle, cx, cy, minSize float64) (scene.Object, bool) {
	lx, ly := scene.RotatePoint(cx, cy, o.X, o.Y, -o.Rotation)
	box := o.Bounds()
	l, t := box.X, box.Y
	r, b := box.X+box.Width, box.Y+box.Height

	switch h {
	case render.HandleNW:
		l, t = lx, ly
	case render.HandleN:
		t = ly
	case render.HandleNE:
		r, t = lx, ly
	case render.HandleE:
		r = lx
	case render.HandleSE:
		r, b = lx, ly
	case render.HandleS:
		b = ly
	case render.HandleSW:
		l, b = lx, ly
	case render.HandleW:
		l = lx
	default:
		return o, false
	}

	nb := scene.Rect{X: l, Y: t, Width: r - l, Height: b - t}
	if !(nb.Width >= minSize) || !(nb.Height >= minSize) {
		return o, false
	}

	next := o.ApplyBox(nb)
	// ApplyBox placed the origin in the unrotated frame around o's origin.
	next.X, next.Y = scene.RotatePoint(next.X, next.Y, o.X, o.Y, o.Rotation)
	return next, true
}

// rotateTo turns o so its top points at the canvas point (cx, cy), keeping
// the visual centre in place.
func rotateTo(o scene.Object, cx, cy float64, snap bool) scene.Object {
	box := o.Bounds()
	bx, by := box.Center()
	wx, wy := scene.RotatePoint(bx, by, o.X, o.Y, o.Rotation)

	angle := math.Atan2(cy-wy, cx-wx)*180/math.Pi + 90
	if snap {
		angle = math.Round(angle/RotationSnap) * RotationSnap
	}
	angle = math.Mod(angle+360, 360)
	if angle == 360 {
		angle = 0
	}

	// The centre sits at origin + R(angle)·d; solve for the origin.
	rx, ry := scene.RotatePoint(bx, by, o.X, o.Y, angle)
	o.X = wx - (rx - o.X)
	o.Y = wy - (ry - o.Y)
	o.Rotation = angle
	return o
}

// finishInteraction commits the gesture in progress and returns to rest.
func (e *Editor) finishInteraction() {
	act := e.act
	e.act = interaction{}
	if act.preview == nil || act.id == "" {
		return
	}
	p := *act.preview
	var patch scene.Patch
	switch {
	case act.kind == actionDrag:
		patch = scene.Move(p.X, p.Y)
	case act.handle == render.HandleRotate:
		patch = scene.Move(p.X, p.Y)
		patch.Rotation = scene.Float(p.Rotation)
	default:
		patch = p.GeometryPatch()
	}
	e.commit(e.scene.Update(act.id, patch))
}

// toCanvas converts a screen position into canvas units.
func (e *Editor) toCanvas(x, y float64) (float64, float64) {
	return (x - e.panX) / e.zoom, (y - e.panY) / e.zoom
}
