package engine

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// TextStyle is a text preset offered by the tool panel.
type TextStyle string

const (
	TextDefault   TextStyle = ""
	TextTitle     TextStyle = "title"
	TextSubtitle  TextStyle = "subtitle"
	TextBody      TextStyle = "body"
	TextSignature TextStyle = "signature"
)

type textPreset struct {
	size   float64
	family string
	fill   string
}

var textPresets = map[TextStyle]textPreset{
	TextDefault:   {24, "", "#333333"},
	TextTitle:     {36, "Playfair Display", "#1a1a1a"},
	TextSubtitle:  {24, "Montserrat", "#666666"},
	TextBody:      {16, "Open Sans", "#333333"},
	TextSignature: {20, "Dancing Script", "#9b87f5"},
}

// DefaultText is the content of a freshly added text object.
const DefaultText = "Votre texte ici"

// ShapeKind names the shapes of the shape panel.
type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeCircle   ShapeKind = "circle"
	ShapeTriangle ShapeKind = "triangle"
	ShapeStar     ShapeKind = "star"
	ShapeHeart    ShapeKind = "heart"
)

// HeartPath is a 24-unit heart outline.
const HeartPath = "M12 21.35l-1.45-1.32C5.4 15.36 2 12.28 2 8.5 2 5.42 4.42 3 7.5 3c1.74 0 3.41.81 4.5 2.09C13.09 3.81 14.76 3 16.5 3 19.58 3 22 5.42 22 8.5c0 3.78-3.4 6.86-8.55 11.54L12 21.35z"

// MaxImageWidth caps the width of a newly added image.
const MaxImageWidth = 400

func (e *Editor) center() (float64, float64) { return e.width / 2, e.height / 2 }

// AddText adds a text block in the centre of the canvas using the preset
// style and selects it. Unknown styles fall back to the default.
func (e *Editor) AddText(style TextStyle) (string, bool) {
	p, ok := textPresets[style]
	if !ok {
		p = textPresets[TextDefault]
	}
	cx, cy := e.center()
	o := scene.New(e.opts.NewID(scene.TypeText), cx-80, cy-10, scene.Text{
		Text:       DefaultText,
		FontSize:   p.size,
		FontFamily: p.family,
		Width:      160,
	})
	o.Fill = scene.Solid(p.fill)
	return e.insert(o)
}

// AddShape adds a shape around the canvas centre, filled with the current
// fill mode, and selects it.
func (e *Editor) AddShape(kind ShapeKind) (string, bool) {
	cx, cy := e.center()
	var o scene.Object
	switch kind {
	case ShapeRect:
		o = scene.New(e.opts.NewID(scene.TypeRect), cx-40, cy-40, scene.Rectangle{Width: 80, Height: 80})
	case ShapeCircle:
		o = scene.New(e.opts.NewID(scene.TypeCircle), cx, cy, scene.Circle{Radius: 40})
	case ShapeTriangle:
		o = scene.New(e.opts.NewID(scene.TypePolygon), cx-40, cy-35, scene.Polygon{Points: []float64{0, 0, 40, 70, 80, 0}})
	case ShapeStar:
		o = scene.New(e.opts.NewID(scene.TypeStar), cx, cy, scene.Star{NumPoints: 5, InnerRadius: 15, OuterRadius: 30})
	case ShapeHeart:
		o = scene.New(e.opts.NewID(scene.TypePath), cx-20, cy-20, scene.Path{Data: HeartPath, ScaleX: 1.5, ScaleY: 1.5})
	default:
		return "", false
	}
	o.Fill = e.fill.Fill()
	return e.insert(o)
}

// AddImage adds an image object centred on the canvas. Images wider than
// MaxImageWidth are scaled down, keeping their aspect ratio.
func (e *Editor) AddImage(src string, width, height float64) (string, bool) {
	if src == "" || !(width > 0) || !(height > 0) {
		return "", false
	}
	if width > MaxImageWidth {
		height = height * MaxImageWidth / width
		width = MaxImageWidth
	}
	cx, cy := e.center()
	o := scene.New(e.opts.NewID(scene.TypeImage), cx-width/2, cy-height/2, scene.Image{
		Src:    src,
		Width:  math.Round(width),
		Height: math.Round(height),
	})
	return e.insert(o)
}

// AddDecoration drops a glyph as a text object in the top-left corner.
func (e *Editor) AddDecoration(glyph string) (string, bool) {
	if glyph == "" {
		return "", false
	}
	o := scene.New(e.opts.NewID(scene.TypeText), 100, 100, scene.Text{
		Text:     glyph,
		FontSize: 40,
		Width:    50,
	})
	o.Fill = scene.Solid("#000000")
	return e.insert(o)
}

// ApplyTemplate replaces the scene with fresh copies of a built-in
// template's objects.
func (e *Editor) ApplyTemplate(id string) bool {
	tpl, ok := document.LookupTemplate(id)
	if !ok {
		return false
	}
	return e.ReplaceObjects(tpl.Objects, tpl.BackgroundColor)
}

// ReplaceObjects swaps the whole object list in one mutation. Objects get
// new ids so they never collide with anything already issued.
func (e *Editor) ReplaceObjects(objs []scene.Object, backgroundColor string) bool {
	e.finishInteraction()
	fresh := make([]scene.Object, 0, len(objs))
	for _, o := range objs {
		o = o.Clone()
		o.ID = e.opts.NewID(o.Type())
		fresh = append(fresh, o)
	}
	e.selectedID = ""
	changed := e.commit(e.scene.Replace(fresh))
	if backgroundColor != "" && backgroundColor != e.backgroundColor {
		e.backgroundColor = backgroundColor
		if !changed {
			e.observer.SceneChanged(true)
		}
		changed = true
	}
	e.requestImages()
	return changed
}

// SetFrame decorates image id with f. A "none" frame removes it. Other
// object types are left alone.
func (e *Editor) SetFrame(id string, f scene.Frame) bool {
	o, ok := e.scene.Find(id)
	if !ok || o.Type() != scene.TypeImage {
		return false
	}
	if f.Type == "" {
		f.Type = scene.FrameNone
	}
	return e.Update(id, scene.Patch{Frame: &f})
}
