package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/invitely/invitely/editor-go/internal/gesture"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

func down(id int, x, y float64) gesture.PointerEvent {
	return gesture.PointerEvent{ID: id, Phase: gesture.PhaseDown, X: x, Y: y}
}

func move(id int, x, y float64) gesture.PointerEvent {
	return gesture.PointerEvent{ID: id, Phase: gesture.PhaseMove, X: x, Y: y}
}

func up(id int, x, y float64) gesture.PointerEvent {
	return gesture.PointerEvent{ID: id, Phase: gesture.PhaseUp, X: x, Y: y}
}

func square(id string, x, y, size float64) scene.Object {
	return scene.New(id, x, y, scene.Rectangle{Width: size, Height: size})
}

func TestDragPreviewsThenCommitsOnce(t *testing.T) {
	e, obs := newTestEditor(t, square("r", 100, 100, 80))
	var none Modifiers

	e.Pointer(down(1, 140, 140), none)
	if e.SelectedID() != "r" || e.State() != StateSelected {
		t.Fatalf("after press: selected %q state %v", e.SelectedID(), e.State())
	}

	e.Pointer(move(1, 170, 140), none)
	e.Pointer(move(1, 190, 150), none)
	if e.State() != StateDragging {
		t.Fatalf("state = %v", e.State())
	}
	if o, _ := e.Scene().Find("r"); o.X != 100 {
		t.Fatal("drag frames reached the committed scene")
	}
	if box, _ := e.SelectionBox(); box.X != 150 || box.Y != 110 {
		t.Fatalf("preview box = %+v", box)
	}
	if obs.changes != 0 {
		t.Fatalf("changes during drag = %d", obs.changes)
	}

	e.Pointer(up(1, 190, 150), none)
	o, _ := e.Scene().Find("r")
	if o.X != 150 || o.Y != 110 {
		t.Fatalf("committed at (%v, %v)", o.X, o.Y)
	}
	if obs.changes != 1 || e.State() != StateSelected {
		t.Fatalf("changes = %d state = %v", obs.changes, e.State())
	}
}

func TestDragAccountsForZoom(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	e.SetZoom(2)
	var none Modifiers

	e.Pointer(down(1, 280, 280), none)
	e.Pointer(move(1, 380, 280), none)
	e.Pointer(up(1, 380, 280), none)

	if o, _ := e.Scene().Find("r"); o.X != 150 {
		t.Fatalf("x = %v, want 150", o.X)
	}
}

func TestClickWithoutMoveDoesNotCommit(t *testing.T) {
	e, obs := newTestEditor(t, square("r", 100, 100, 80))
	var none Modifiers
	e.Pointer(down(1, 140, 140), none)
	e.Pointer(move(1, 141, 141), none) // inside the dead zone
	e.Pointer(up(1, 141, 141), none)
	if obs.changes != 0 {
		t.Fatalf("changes = %d", obs.changes)
	}
	if e.SelectedID() != "r" {
		t.Fatal("click did not select")
	}
}

func TestEmptyPressDeselectsAndPans(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	var none Modifiers
	e.Select("r")

	e.Pointer(down(1, 500, 500), none)
	if e.SelectedID() != "" {
		t.Fatal("empty click kept the selection")
	}
	e.Pointer(move(1, 530, 520), none)
	e.Pointer(up(1, 530, 520), none)

	if x, y := e.Pan(); x != 30 || y != 20 {
		t.Fatalf("pan = (%v, %v)", x, y)
	}
	if o, _ := e.Scene().Find("r"); o.X != 100 {
		t.Fatal("pan moved an object")
	}
}

func TestLockedPressKeepsSelection(t *testing.T) {
	e, _ := newTestEditor(t, square("a", 0, 0, 50), square("locked", 200, 200, 50))
	e.ToggleLock("locked")
	e.Select("a")
	var none Modifiers

	e.Pointer(down(1, 225, 225), none)
	e.Pointer(move(1, 260, 260), none)
	e.Pointer(up(1, 260, 260), none)

	if e.SelectedID() != "a" {
		t.Fatalf("selected = %q", e.SelectedID())
	}
	if o, _ := e.Scene().Find("locked"); o.X != 200 {
		t.Fatal("locked object moved")
	}
}

func TestResizeRejectsDegenerateBox(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	e.Select("r")
	var none Modifiers

	// se handle sits on the bottom-right corner.
	e.Pointer(down(1, 180, 180), none)
	if e.State() != StateTransforming {
		t.Fatalf("state = %v", e.State())
	}
	e.Pointer(move(1, 220, 200), none)
	e.Pointer(move(1, 102, 102), none) // 2x2: rejected
	e.Pointer(up(1, 102, 102), none)

	o, _ := e.Scene().Find("r")
	r := o.Shape.(scene.Rectangle)
	if r.Width != 120 || r.Height != 100 || o.X != 100 || o.Y != 100 {
		t.Fatalf("rect = %+v at (%v, %v)", r, o.X, o.Y)
	}
}

func TestResizeFromTopLeftMovesOrigin(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	e.Select("r")
	var none Modifiers

	e.Pointer(down(1, 100, 100), none)
	e.Pointer(move(1, 80, 90), none)
	e.Pointer(up(1, 80, 90), none)

	o, _ := e.Scene().Find("r")
	r := o.Shape.(scene.Rectangle)
	if o.X != 80 || o.Y != 90 || r.Width != 100 || r.Height != 90 {
		t.Fatalf("rect = %+v at (%v, %v)", r, o.X, o.Y)
	}
}

func TestResizeCircleKeepsItRound(t *testing.T) {
	e, _ := newTestEditor(t, scene.New("c", 100, 100, scene.Circle{Radius: 20}))
	e.Select("c")
	var none Modifiers

	// se corner of the 40x40 box.
	e.Pointer(down(1, 120, 120), none)
	e.Pointer(move(1, 160, 140), none)
	e.Pointer(up(1, 160, 140), none)

	o, _ := e.Scene().Find("c")
	c := o.Shape.(scene.Circle)
	// Box 80x60 from (80, 80): radius 30 centred at (120, 110).
	if c.Radius != 30 || o.X != 120 || o.Y != 110 {
		t.Fatalf("circle r=%v at (%v, %v)", c.Radius, o.X, o.Y)
	}
}

func TestRotateKeepsCentre(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	e.Select("r")
	var none Modifiers

	// Rotate handle: 30px above the top edge centre.
	e.Pointer(down(1, 140, 70), none)
	if e.State() != StateTransforming {
		t.Fatalf("state = %v", e.State())
	}
	e.Pointer(move(1, 250, 140), none)
	e.Pointer(up(1, 250, 140), none)

	o, _ := e.Scene().Find("r")
	if !approx(o.Rotation, 90) {
		t.Fatalf("rotation = %v", o.Rotation)
	}
	b := o.Bounds()
	bx, by := b.Center()
	cx, cy := scene.RotatePoint(bx, by, o.X, o.Y, o.Rotation)
	if math.Abs(cx-140) > 1e-6 || math.Abs(cy-140) > 1e-6 {
		t.Fatalf("centre moved to (%v, %v)", cx, cy)
	}
	if r := o.Shape.(scene.Rectangle); r.Width != 80 || r.Height != 80 {
		t.Fatalf("rotation resized the rect: %+v", r)
	}
}

func TestRotateSnapsWithShift(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	e.Select("r")
	shift := Modifiers{Shift: true}

	e.Pointer(down(1, 140, 70), shift)
	// About 97 degrees from straight up.
	e.Pointer(move(1, 240, 152), shift)
	e.Pointer(up(1, 240, 152), shift)

	o, _ := e.Scene().Find("r")
	if !approx(o.Rotation, 90) {
		t.Fatalf("rotation = %v, want 90", o.Rotation)
	}
}

func TestResizeRotatedObjectUsesLocalAxes(t *testing.T) {
	o := square("r", 100, 100, 80)
	o.Rotation = 90
	next, ok := resizeTo(o, "e", 100, 200, 5)
	if !ok {
		t.Fatal("rejected")
	}
	// With 90 degrees the local x axis points down the screen, so pulling
	// the e edge to y=200 gives a local width of 100.
	r := next.Shape.(scene.Rectangle)
	if !approx(r.Width, 100) || r.Height != 80 {
		t.Fatalf("rect = %+v", r)
	}
	if !approx(next.X, 100) || !approx(next.Y, 100) {
		t.Fatalf("origin moved to (%v, %v)", next.X, next.Y)
	}
}

func TestPinchZoomScenario(t *testing.T) {
	e, _ := newTestEditor(t)
	var none Modifiers

	e.Pointer(down(1, 100, 100), none)
	e.Pointer(down(2, 200, 100), none)
	e.Pointer(move(2, 250, 100), none)

	if !approx(e.Zoom(), 1.5) {
		t.Fatalf("zoom = %v, want 1.5", e.Zoom())
	}
	// The canvas point under the old midpoint (150, 100) now sits under the
	// new midpoint (175, 100).
	if x, y := e.Pan(); !approx(x, -50) || !approx(y, -50) {
		t.Fatalf("pan = (%v, %v)", x, y)
	}

	e.Pointer(up(2, 250, 100), none)
	e.Pointer(up(1, 100, 100), none)
	if e.gestures.Active() != 0 {
		t.Fatal("gesture state not reset")
	}
}

func TestPinchClampedToMax(t *testing.T) {
	opts := testOptions()
	opts.ZoomMax = 1.2
	e := New(opts)
	var none Modifiers

	e.Pointer(down(1, 100, 100), none)
	e.Pointer(down(2, 200, 100), none)
	e.Pointer(move(2, 250, 100), none)
	if e.Zoom() != 1.2 {
		t.Fatalf("zoom = %v, want 1.2", e.Zoom())
	}
}

func TestZoomAlwaysWithinRange(t *testing.T) {
	e, _ := newTestEditor(t)
	var none Modifiers
	rng := rand.New(rand.NewSource(3))

	for g := 0; g < 30; g++ {
		e.Pointer(down(1, 400, 400), none)
		e.Pointer(down(2, 400+rng.Float64()*300, 400), none)
		for i := 0; i < 20; i++ {
			e.Pointer(move(2, 400+rng.Float64()*600-100, 400+rng.Float64()*50), none)
			if z := e.Zoom(); z < 0.1 || z > 5 || math.IsNaN(z) {
				t.Fatalf("zoom %v out of range", z)
			}
		}
		e.Pointer(up(1, 400, 400), none)
		e.Pointer(up(2, 400, 400), none)
		e.Wheel(0, 0, rng.Float64()*2000-1000)
		if z := e.Zoom(); z < 0.1 || z > 5 {
			t.Fatalf("wheel zoom %v out of range", z)
		}
	}
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Wheel(200, 100, -100)
	if !approx(e.Zoom(), 1.1) {
		t.Fatalf("zoom = %v", e.Zoom())
	}
	// Canvas point (200, 100) stays under the pointer.
	cx, cy := e.toCanvas(200, 100)
	if !approx(cx, 200) || !approx(cy, 100) {
		t.Fatalf("anchor moved to (%v, %v)", cx, cy)
	}
	e.Wheel(0, 0, math.NaN())
	if !approx(e.Zoom(), 1.1) {
		t.Fatal("NaN wheel changed zoom")
	}
}

func TestToolbarZoom(t *testing.T) {
	e, _ := newTestEditor(t)
	e.ZoomIn()
	e.ZoomIn()
	if !approx(e.Zoom(), 1.2) {
		t.Fatalf("zoom = %v", e.Zoom())
	}
	for i := 0; i < 100; i++ {
		e.ZoomOut()
	}
	if e.Zoom() != 0.1 {
		t.Fatalf("zoom = %v, want the minimum", e.Zoom())
	}
	e.ResetView()
	if x, y := e.Pan(); e.Zoom() != 1 || x != 0 || y != 0 {
		t.Fatal("reset view")
	}
}

func TestSecondPointerCommitsDrag(t *testing.T) {
	e, obs := newTestEditor(t, square("r", 100, 100, 80))
	var none Modifiers

	e.Pointer(down(1, 140, 140), none)
	e.Pointer(move(1, 160, 140), none)
	e.Pointer(down(2, 400, 400), none)

	if o, _ := e.Scene().Find("r"); o.X != 120 {
		t.Fatalf("x = %v: drag not committed when the pinch began", o.X)
	}
	if obs.changes != 1 {
		t.Fatalf("changes = %d", obs.changes)
	}
}

func TestWheelIgnoredDuringDrag(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 100, 100, 80))
	var none Modifiers

	e.Pointer(down(1, 140, 140), none)
	e.Pointer(move(1, 200, 140), none)
	e.Wheel(200, 140, -300)
	if e.Zoom() != 1 {
		t.Fatalf("zoom changed mid-drag: %v", e.Zoom())
	}
	e.Pointer(up(1, 200, 140), none)
	if o, _ := e.Scene().Find("r"); o.X != 160 || o.Y != 100 {
		t.Fatalf("committed at (%v, %v)", o.X, o.Y)
	}

	e.Wheel(200, 140, -100)
	if !approx(e.Zoom(), 1.1) {
		t.Fatalf("zoom after release = %v", e.Zoom())
	}
}
