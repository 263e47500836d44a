// Package gesture turns raw pointer streams into press, drag and pinch
// gestures. It works in screen coordinates and knows nothing about the scene.
package gesture

import "math"

// DefaultDeadZone is the distance in pixels a pointer must travel before a
// press becomes a drag.
const DefaultDeadZone = 3.0

// Phase is the pointer transition carried by a PointerEvent.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	// PhaseCancel aborts the pointer, as when the browser steals a touch.
	PhaseCancel
)

// PointerEvent is one raw pointer sample.
type PointerEvent struct {
	ID    int
	Phase Phase
	X, Y  float64
}

// Kind identifies a recognised gesture step.
type Kind int

const (
	// Press fires when the first pointer goes down.
	Press Kind = iota + 1
	// DragStart fires once the pressed pointer leaves the dead zone.
	DragStart
	// Drag fires for every move while dragging.
	Drag
	// Release fires when the single pointer lifts. Dragged tells whether it
	// had become a drag.
	Release
	PinchStart
	Pinch
	PinchEnd
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case DragStart:
		return "dragStart"
	case Drag:
		return "drag"
	case Release:
		return "release"
	case PinchStart:
		return "pinchStart"
	case Pinch:
		return "pinch"
	case PinchEnd:
		return "pinchEnd"
	default:
		return "none"
	}
}

// Event is a recognised gesture step.
type Event struct {
	Kind      Kind
	PointerID int

	// Pointer position (single pointer) or pinch midpoint.
	X, Y float64
	// Position where the gesture started.
	StartX, StartY float64
	// Movement since the previous event of the same gesture.
	DX, DY float64

	// Dragged is set on Release when the press had turned into a drag.
	Dragged bool
	// Canceled is set on Release and PinchEnd produced by PhaseCancel.
	Canceled bool

	// Scale is currentDistance / previousDistance for Pinch events.
	Scale float64
	// Distance is the current inter-pointer distance.
	Distance float64
}

// --- Per-pointer state ---

type pointerState struct {
	id       int
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	// consumed pointers outlived a pinch and are ignored until lifted.
	consumed bool
}

// --- Pinch state ---

type pinchState struct {
	active     bool
	pointer0   int
	pointer1   int
	prevDist   float64
	prevCenter [2]float64
}

// Tracker disambiguates single-pointer drags from two-pointer pinches.
// It is not safe for concurrent use.
type Tracker struct {
	DeadZone float64

	pointers []*pointerState
	pinch    pinchState
}

// NewTracker creates a tracker with the default dead zone.
func NewTracker() *Tracker {
	return &Tracker{DeadZone: DefaultDeadZone}
}

// Active returns the number of pointers currently down.
func (t *Tracker) Active() int { return len(t.pointers) }

// Pinching reports whether a two-pointer gesture is in progress.
func (t *Tracker) Pinching() bool { return t.pinch.active }

// Reset clears every accumulator so the next gesture starts clean.
func (t *Tracker) Reset() {
	t.pointers = t.pointers[:0]
	t.pinch = pinchState{}
}

// Handle feeds one pointer sample and returns the gesture steps it produced.
func (t *Tracker) Handle(ev PointerEvent) []Event {
	if !finite(ev.X) || !finite(ev.Y) {
		return nil
	}
	switch ev.Phase {
	case PhaseDown:
		return t.down(ev)
	case PhaseMove:
		return t.move(ev)
	case PhaseUp, PhaseCancel:
		return t.up(ev, ev.Phase == PhaseCancel)
	default:
		return nil
	}
}

func (t *Tracker) down(ev PointerEvent) []Event {
	if t.find(ev.ID) != nil {
		return nil
	}
	ps := &pointerState{id: ev.ID, startX: ev.X, startY: ev.Y, lastX: ev.X, lastY: ev.Y}
	t.pointers = append(t.pointers, ps)

	switch len(t.pointers) {
	case 1:
		return []Event{{Kind: Press, PointerID: ev.ID, X: ev.X, Y: ev.Y, StartX: ev.X, StartY: ev.Y}}
	case 2:
		var out []Event
		first := t.pointers[0]
		if !first.consumed {
			// The single-pointer gesture ends where the pinch begins.
			out = append(out, t.releaseEvent(first, first.lastX, first.lastY, false))
		}
		return append(out, t.startPinch())
	default:
		// Third and later pointers are ignored but tracked until lifted.
		ps.consumed = true
		return nil
	}
}

func (t *Tracker) move(ev PointerEvent) []Event {
	ps := t.find(ev.ID)
	if ps == nil || (ev.X == ps.lastX && ev.Y == ps.lastY) {
		return nil
	}
	prevX, prevY := ps.lastX, ps.lastY
	ps.lastX, ps.lastY = ev.X, ev.Y

	if t.pinch.active {
		if ev.ID != t.pinch.pointer0 && ev.ID != t.pinch.pointer1 {
			return nil
		}
		if e, ok := t.pinchMove(); ok {
			return []Event{e}
		}
		return nil
	}

	if ps.consumed || len(t.pointers) != 1 {
		return nil
	}

	var out []Event
	if !ps.dragging {
		dx, dy := ev.X-ps.startX, ev.Y-ps.startY
		if math.Hypot(dx, dy) <= t.DeadZone {
			return nil
		}
		ps.dragging = true
		out = append(out, Event{
			Kind: DragStart, PointerID: ps.id,
			X: ev.X, Y: ev.Y, StartX: ps.startX, StartY: ps.startY,
			DX: ev.X - ps.startX, DY: ev.Y - ps.startY,
		})
		prevX, prevY = ps.startX, ps.startY
	}
	return append(out, Event{
		Kind: Drag, PointerID: ps.id,
		X: ev.X, Y: ev.Y, StartX: ps.startX, StartY: ps.startY,
		DX: ev.X - prevX, DY: ev.Y - prevY,
	})
}

func (t *Tracker) up(ev PointerEvent, canceled bool) []Event {
	i := t.index(ev.ID)
	if i < 0 {
		return nil
	}
	ps := t.pointers[i]
	if ev.Phase == PhaseUp {
		ps.lastX, ps.lastY = ev.X, ev.Y
	}
	t.pointers = append(t.pointers[:i], t.pointers[i+1:]...)

	var out []Event
	switch {
	case t.pinch.active && (ev.ID == t.pinch.pointer0 || ev.ID == t.pinch.pointer1):
		cx, cy := t.pinch.prevCenter[0], t.pinch.prevCenter[1]
		out = append(out, Event{Kind: PinchEnd, PointerID: ev.ID, X: cx, Y: cy, Canceled: canceled})
		t.pinch = pinchState{}
		// Survivors must lift before a new single-pointer gesture.
		for _, p := range t.pointers {
			p.consumed = true
		}
	case !ps.consumed && !t.pinch.active:
		out = append(out, t.releaseEvent(ps, ps.lastX, ps.lastY, canceled))
	}

	if len(t.pointers) == 0 {
		t.Reset()
	}
	return out
}

func (t *Tracker) releaseEvent(ps *pointerState, x, y float64, canceled bool) Event {
	e := Event{
		Kind: Release, PointerID: ps.id,
		X: x, Y: y, StartX: ps.startX, StartY: ps.startY,
		Dragged: ps.dragging, Canceled: canceled,
	}
	ps.consumed = true
	ps.dragging = false
	return e
}

func (t *Tracker) startPinch() Event {
	p0, p1 := t.pointers[0], t.pointers[1]
	cx, cy, dist := pair(p0, p1)
	t.pinch = pinchState{
		active:     true,
		pointer0:   p0.id,
		pointer1:   p1.id,
		prevDist:   dist,
		prevCenter: [2]float64{cx, cy},
	}
	p0.dragging, p1.dragging = false, false
	return Event{Kind: PinchStart, X: cx, Y: cy, StartX: cx, StartY: cy, Distance: dist, Scale: 1}
}

// pinchMove reports false when the frame must be skipped: a zero previous
// distance or a lost pointer would make the ratio meaningless.
func (t *Tracker) pinchMove() (Event, bool) {
	p0, p1 := t.find(t.pinch.pointer0), t.find(t.pinch.pointer1)
	if p0 == nil || p1 == nil {
		return Event{}, false
	}
	cx, cy, dist := pair(p0, p1)
	prevCX, prevCY := t.pinch.prevCenter[0], t.pinch.prevCenter[1]

	if t.pinch.prevDist <= 0 || !finite(dist) {
		t.pinch.prevDist = dist
		t.pinch.prevCenter = [2]float64{cx, cy}
		return Event{}, false
	}

	scale := dist / t.pinch.prevDist
	t.pinch.prevDist = dist
	t.pinch.prevCenter = [2]float64{cx, cy}
	if !finite(scale) || scale <= 0 {
		return Event{}, false
	}
	return Event{
		Kind: Pinch,
		X:    cx, Y: cy,
		DX: cx - prevCX, DY: cy - prevCY,
		Scale:    scale,
		Distance: dist,
	}, true
}

func pair(a, b *pointerState) (cx, cy, dist float64) {
	cx = (a.lastX + b.lastX) / 2
	cy = (a.lastY + b.lastY) / 2
	dist = math.Hypot(b.lastX-a.lastX, b.lastY-a.lastY)
	return cx, cy, dist
}

func (t *Tracker) find(id int) *pointerState {
	if i := t.index(id); i >= 0 {
		return t.pointers[i]
	}
	return nil
}

func (t *Tracker) index(id int) int {
	for i, p := range t.pointers {
		if p.id == id {
			return i
		}
	}
	return -1
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ClampZoom keeps z inside [lo, hi]. Non-finite values fall back to fallback.
func ClampZoom(z, lo, hi, fallback float64) float64 {
	if !finite(z) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, z))
}
