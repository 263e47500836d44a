package render

import (
	"image"
	"math"
	"testing"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := FromTransform(40, -20, 2, 3, 30, 5, 5)
	x, y := m.TransformPoint(7, 11)
	bx, by := m.Invert().TransformPoint(x, y)
	if math.Abs(bx-7) > 1e-9 || math.Abs(by-11) > 1e-9 {
		t.Fatalf("round trip = %v,%v", bx, by)
	}
}

func TestViewTransform(t *testing.T) {
	v := ViewTransform(2, 10, 20)
	x, y := v.TransformPoint(5, 5)
	if x != 20 || y != 30 {
		t.Fatalf("screen = %v,%v", x, y)
	}
	cx, cy := v.Invert().TransformPoint(20, 30)
	if cx != 5 || cy != 5 {
		t.Fatalf("canvas = %v,%v", cx, cy)
	}
}

func TestTransformRectRotated(t *testing.T) {
	r := RotateDegrees(90).TransformRect(scene.Rect{Width: 10, Height: 4})
	if math.Abs(r.Width-4) > 1e-9 || math.Abs(r.Height-10) > 1e-9 {
		t.Fatalf("rect = %+v", r)
	}
}

func TestBuildPainterOrder(t *testing.T) {
	s := scene.Scene{}.
		Add(scene.New("a", 0, 0, scene.Rectangle{Width: 10, Height: 10})).
		Add(scene.New("b", 0, 0, scene.Circle{Radius: 5}))

	cmds := Build(Input{Scene: s, SelectedID: "b"})
	if len(cmds) != 2 {
		t.Fatalf("commands = %d", len(cmds))
	}
	if cmds[0].ObjectID != "a" || cmds[1].ObjectID != "b" {
		t.Errorf("order = %s, %s", cmds[0].ObjectID, cmds[1].ObjectID)
	}
	if cmds[0].Selected || !cmds[1].Selected {
		t.Error("selection flag misplaced")
	}
}

func TestObjectSkipsHiddenAndInvalid(t *testing.T) {
	hidden := scene.New("h", 0, 0, scene.Rectangle{Width: 10, Height: 10})
	hidden.Visible = false
	if cmds := Object(hidden, false, "", nil); cmds != nil {
		t.Errorf("hidden produced %d commands", len(cmds))
	}

	broken := scene.New("x", 0, 0, scene.Circle{})
	if cmds := Object(broken, false, "", nil); cmds != nil {
		t.Errorf("invalid produced %d commands", len(cmds))
	}
}

func TestTextFontRule(t *testing.T) {
	plain := scene.New("t", 0, 0, scene.Text{Text: "hi", FontSize: 24})
	styled := scene.New("s", 0, 0, scene.Text{Text: "hi", FontSize: 24, FontFamily: "Montserrat"})

	tests := []struct {
		name     string
		obj      scene.Object
		selected bool
		want     string
	}{
		{"selected inherits", plain, true, "Dancing Script"},
		{"unselected keeps none", plain, false, ""},
		{"own font wins", styled, true, "Montserrat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := Object(tt.obj, tt.selected, "Dancing Script", nil)
			if len(cmds) != 1 || cmds[0].FontFamily != tt.want {
				t.Fatalf("commands = %+v", cmds)
			}
		})
	}
}

func TestImageDrawsOnlyWhenReady(t *testing.T) {
	cache := NewImageCache()
	img := scene.New("i", 10, 10, scene.Image{Src: "a.png", Width: 100, Height: 100})
	img.Frame = &scene.Frame{Type: scene.FrameRound, Color: "#000000", Thickness: 4}

	if !cache.Request("a.png") || cache.Request("a.png") {
		t.Fatal("request should only start one decode")
	}
	if cmds := Object(img, false, "", cache); len(cmds) != 0 {
		t.Fatalf("pending image drew %d commands", len(cmds))
	}

	cache.Resolve("a.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	cmds := Object(img, false, "", cache)
	if len(cmds) != 2 {
		t.Fatalf("commands = %d", len(cmds))
	}
	frame, pic := cmds[0], cmds[1]
	if frame.Role != RoleFrame || frame.Stroke != "#000000" || frame.StrokeWidth != 4 {
		t.Errorf("frame = %+v", frame)
	}
	if frame.Path[1][0] != "C" {
		t.Errorf("round frame should be curved, got %v", frame.Path[1])
	}
	if pic.Op != OpImage || pic.ImageSrc != "a.png" {
		t.Errorf("image = %+v", pic)
	}
}

func TestImageFailureIsRecorded(t *testing.T) {
	cache := NewImageCache()
	cache.Request("b.png")
	cache.Fail("b.png")
	if cache.State("b.png") != ImageFailed {
		t.Fatalf("state = %v", cache.State("b.png"))
	}
	if cache.Request("b.png") {
		t.Fatal("failed source should not be retried")
	}
}

func TestImageCacheRetain(t *testing.T) {
	cache := NewImageCache()
	cache.Resolve("a.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	cache.Request("b.png")
	cache.Fail("c.png")

	cache.Retain(map[string]bool{"a.png": true})
	if cache.Len() != 1 || cache.State("a.png") != ImageReady {
		t.Fatalf("len = %d, a = %v", cache.Len(), cache.State("a.png"))
	}
	if !cache.Request("c.png") {
		t.Fatal("dropped source should be requestable again")
	}
}

func TestBackgroundFirst(t *testing.T) {
	cache := NewImageCache()
	cache.Resolve("bg.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	s := scene.Scene{}.Add(scene.New("a", 0, 0, scene.Rectangle{Width: 10, Height: 10}))

	cmds := Build(Input{Scene: s, Background: "bg.png", Width: 1080, Height: 1800, Images: cache})
	if len(cmds) != 2 || cmds[0].Role != RoleBackground || cmds[0].ImageWidth != 1080 {
		t.Fatalf("commands = %+v", cmds)
	}
}

func TestStarPath(t *testing.T) {
	path := ShapePath(scene.Star{NumPoints: 5, InnerRadius: 15, OuterRadius: 30})
	if len(path) != 11 {
		t.Fatalf("len = %d", len(path))
	}
	x, y := path[0][1].(float64), path[0][2].(float64)
	if math.Abs(x) > 1e-9 || math.Abs(y+30) > 1e-9 {
		t.Errorf("first vertex = %v,%v", x, y)
	}
}

func TestGradientBakedIntoCommand(t *testing.T) {
	o := scene.New("r", 0, 0, scene.Rectangle{Width: 100, Height: 50})
	o.Fill = scene.GradientFill(scene.Gradient{Start: "#ff0000", End: "#0000ff", Type: scene.GradientLinear, Angle: 90})

	cmds := Object(o, false, "", nil)
	g := cmds[0].Gradient
	if g == nil {
		t.Fatal("missing gradient")
	}
	if math.Abs(g.X0) > 1e-9 || math.Abs(g.X1-100) > 1e-9 || math.Abs(g.Y0-25) > 1e-9 {
		t.Errorf("gradient = %+v", g)
	}
}

func TestHitTestFrontToBack(t *testing.T) {
	hidden := scene.New("hidden", 0, 0, scene.Rectangle{Width: 100, Height: 100})
	hidden.Visible = false
	s := scene.Scene{}.
		Add(scene.New("back", 0, 0, scene.Rectangle{Width: 100, Height: 100})).
		Add(scene.New("front", 50, 50, scene.Circle{Radius: 20})).
		Add(hidden)

	if got := HitTest(s, 50, 50); got != "front" {
		t.Errorf("hit = %q", got)
	}
	if got := HitTest(s, 5, 5); got != "back" {
		t.Errorf("hit = %q", got)
	}
	if got := HitTest(s, 500, 500); got != "" {
		t.Errorf("hit = %q", got)
	}
}

func TestHandleAt(t *testing.T) {
	box := scene.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	hs := Handles(box, 0, 0, 0, 1)
	if len(hs) != 9 {
		t.Fatalf("handles = %d", len(hs))
	}

	tests := []struct {
		x, y float64
		want Handle
	}{
		{100, 50, HandleSE},
		{2, -3, HandleNW},
		{50, -30, HandleRotate},
		{50, 25, HandleNone},
	}
	for _, tt := range tests {
		if got := HandleAt(hs, tt.x, tt.y, 1); got != tt.want {
			t.Errorf("HandleAt(%v,%v) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}
