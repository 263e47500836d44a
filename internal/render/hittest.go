package render

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// HitTest returns the ID of the topmost visible object containing the
// canvas point (x, y), or the empty string.
func HitTest(s scene.Scene, x, y float64) string {
	// Traverse in reverse order (front to back) to get topmost hit
	for i := s.Len() - 1; i >= 0; i-- {
		o := s.At(i)
		if !o.Visible || !o.Valid() {
			continue
		}
		if o.ContainsPoint(x, y) {
			return o.ID
		}
	}
	return ""
}

// Handle identifies a transform handle on the selection box.
type Handle string

const (
	HandleNone   Handle = ""
	HandleNW     Handle = "nw"
	HandleN      Handle = "n"
	HandleNE     Handle = "ne"
	HandleE      Handle = "e"
	HandleSE     Handle = "se"
	HandleS      Handle = "s"
	HandleSW     Handle = "sw"
	HandleW      Handle = "w"
	HandleRotate Handle = "rotate"
)

// Resize handles in drawing order.
var resizeHandles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

// HandlePoint is a handle position in canvas space.
type HandlePoint struct {
	Handle Handle
	X, Y   float64
}

// HandleSize is the handle edge length in screen pixels.
const HandleSize = 10

// RotateOffset is the distance of the rotate handle above the top edge, in
// screen pixels.
const RotateOffset = 30

// Handles lays out the eight resize handles and the rotate handle around
// box, rotated by rotation degrees around (ox, oy). zoom converts the
// screen-space offsets to canvas units.
func Handles(box scene.Rect, ox, oy, rotation, zoom float64) []HandlePoint {
	if zoom <= 0 {
		zoom = 1
	}
	l, t := box.X, box.Y
	r, b := box.X+box.Width, box.Y+box.Height
	cx, cy := box.Center()

	local := map[Handle][2]float64{
		HandleNW:     {l, t},
		HandleN:      {cx, t},
		HandleNE:     {r, t},
		HandleE:      {r, cy},
		HandleSE:     {r, b},
		HandleS:      {cx, b},
		HandleSW:     {l, b},
		HandleW:      {l, cy},
		HandleRotate: {cx, t - RotateOffset/zoom},
	}

	out := make([]HandlePoint, 0, len(local))
	for _, h := range append(append([]Handle(nil), resizeHandles...), HandleRotate) {
		p := local[h]
		x, y := scene.RotatePoint(p[0], p[1], ox, oy, rotation)
		out = append(out, HandlePoint{Handle: h, X: x, Y: y})
	}
	return out
}

// HandleAt returns the handle under the canvas point (x, y), if any.
func HandleAt(handles []HandlePoint, x, y, zoom float64) Handle {
	if zoom <= 0 {
		zoom = 1
	}
	half := HandleSize / 2 / zoom
	// Rotate is last; check it first so it wins over an overlapping n handle
	// on tiny boxes.
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		if math.Abs(x-h.X) <= half && math.Abs(y-h.Y) <= half {
			return h.Handle
		}
	}
	return HandleNone
}

// SelectionOverlay draws the selection outline and its handles for o.
func SelectionOverlay(o scene.Object, box scene.Rect, zoom float64) []DrawCommand {
	if zoom <= 0 {
		zoom = 1
	}
	m := FromTransform(o.X, o.Y, 1, 1, o.Rotation, 0, 0)
	local := scene.Rect{X: box.X - o.X, Y: box.Y - o.Y, Width: box.Width, Height: box.Height}

	out := []DrawCommand{{
		Op:          OpPath,
		Role:        RoleSelection,
		ObjectID:    o.ID,
		Transform:   m.ToSlice(),
		Path:        rectPath(local.X, local.Y, local.Width, local.Height),
		Stroke:      "#9b87f5",
		StrokeWidth: 1 / zoom,
		Opacity:     1,
	}}

	size := HandleSize / zoom
	for _, h := range Handles(box, o.X, o.Y, o.Rotation, zoom) {
		var path []PathCommand
		if h.Handle == HandleRotate {
			path = ellipsePath(0, 0, size/2, size/2)
		} else {
			path = rectPath(-size/2, -size/2, size, size)
		}
		hm := FromTransform(h.X, h.Y, 1, 1, o.Rotation, 0, 0)
		out = append(out, DrawCommand{
			Op:          OpPath,
			Role:        RoleHandle,
			ObjectID:    string(h.Handle),
			Transform:   hm.ToSlice(),
			Path:        path,
			Fill:        "#ffffff",
			Stroke:      "#9b87f5",
			StrokeWidth: 1 / zoom,
			Opacity:     1,
		})
	}
	return out
}
