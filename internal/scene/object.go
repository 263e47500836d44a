package scene

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Type discriminates the shape variants an Object can carry.
type Type string

const (
	TypeText    Type = "text"
	TypeRect    Type = "rect"
	TypeCircle  Type = "circle"
	TypePolygon Type = "polygon"
	TypeStar    Type = "star"
	TypePath    Type = "path"
	TypeImage   Type = "image"
)

// MaxStarPoints bounds Star.NumPoints. Larger stars are invalid and never drawn.
const MaxStarPoints = 1000

// Types lists every shape variant in a stable order.
var Types = []Type{TypeText, TypeRect, TypeCircle, TypePolygon, TypeStar, TypePath, TypeImage}

// Shape is the type-specific geometry of an Object. The set of
// implementations is closed: Text, Rectangle, Circle, Polygon, Star, Path, Image.
type Shape interface {
	Type() Type
	// Valid reports whether the geometry required by the variant is present.
	Valid() bool
	isShape()
}

type Text struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Align      string  `json:"align,omitempty"`
	Width      float64 `json:"width,omitempty"`
}

type Rectangle struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Circle struct {
	Radius float64 `json:"radius"`
}

// Polygon points are relative to the object position, flat [x0, y0, x1, y1, ...].
type Polygon struct {
	Points []float64 `json:"points"`
}

type Star struct {
	NumPoints   int     `json:"numPoints"`
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`
}

// Path holds SVG path data drawn relative to the object position.
type Path struct {
	Data   string  `json:"data"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
}

type Image struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Text) Type() Type      { return TypeText }
func (Rectangle) Type() Type { return TypeRect }
func (Circle) Type() Type    { return TypeCircle }
func (Polygon) Type() Type   { return TypePolygon }
func (Star) Type() Type      { return TypeStar }
func (Path) Type() Type      { return TypePath }
func (Image) Type() Type     { return TypeImage }

func (t Text) Valid() bool      { return t.FontSize > 0 }
func (r Rectangle) Valid() bool { return r.Width > 0 && r.Height > 0 }
func (c Circle) Valid() bool    { return c.Radius > 0 }
func (p Polygon) Valid() bool   { return len(p.Points) >= 6 && len(p.Points)%2 == 0 }
func (s Star) Valid() bool      { return s.validPoints() && s.OuterRadius > 0 && s.InnerRadius >= 0 }
func (p Path) Valid() bool      { return strings.TrimSpace(p.Data) != "" }
func (i Image) Valid() bool     { return i.Src != "" && i.Width > 0 && i.Height > 0 }

func (s Star) validPoints() bool { return s.NumPoints >= 2 && s.NumPoints <= MaxStarPoints }

func (Text) isShape()      {}
func (Rectangle) isShape() {}
func (Circle) isShape()    {}
func (Polygon) isShape()   {}
func (Star) isShape()      {}
func (Path) isShape()      {}
func (Image) isShape()     {}

// FrameType is the border decoration drawn around an image.
type FrameType string

const (
	FrameNone    FrameType = "none"
	FrameSquare  FrameType = "square"
	FrameRound   FrameType = "round"
	FrameDiamond FrameType = "diamond"
)

type Frame struct {
	Type      FrameType `json:"type"`
	Color     string    `json:"color"`
	Thickness float64   `json:"thickness"`
}

// GradientKind selects between linear and radial gradients.
type GradientKind string

const (
	GradientLinear GradientKind = "linear"
	GradientRadial GradientKind = "radial"
)

type Gradient struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Type  GradientKind `json:"type"`
	Angle float64      `json:"angle"`
}

// Fill is a solid colour, optionally overridden by a gradient.
type Fill struct {
	Color    string
	Gradient *Gradient
}

// Solid returns a plain colour fill.
func Solid(color string) Fill { return Fill{Color: color} }

// GradientFill returns a fill baked from g. The solid colour falls back to
// the gradient start so renderers without gradient support still paint.
func GradientFill(g Gradient) Fill {
	return Fill{Color: g.Start, Gradient: &g}
}

func (f Fill) clone() Fill {
	if f.Gradient != nil {
		g := *f.Gradient
		f.Gradient = &g
	}
	return f
}

// Equal reports whether both fills paint the same way.
func (f Fill) Equal(o Fill) bool {
	if f.Color != o.Color {
		return false
	}
	if f.Gradient == nil || o.Gradient == nil {
		return f.Gradient == nil && o.Gradient == nil
	}
	return *f.Gradient == *o.Gradient
}

// Object is one editable scene element.
type Object struct {
	ID        string
	X         float64
	Y         float64
	Fill      Fill
	Opacity   float64
	Rotation  float64
	Draggable bool
	Visible   bool
	Frame     *Frame
	Shape     Shape

	// opacity to restore when a hidden object is shown again
	shownOpacity float64
}

// New builds an object with the default style: opaque, visible, draggable.
func New(id string, x, y float64, shape Shape) Object {
	return Object{
		ID:        id,
		X:         x,
		Y:         y,
		Opacity:   1,
		Draggable: true,
		Visible:   true,
		Shape:     shape,
	}
}

// Type returns the shape discriminator, or "" when the object has no shape.
func (o Object) Type() Type {
	if o.Shape == nil {
		return ""
	}
	return o.Shape.Type()
}

// Valid reports whether the object carries the geometry its type requires.
func (o Object) Valid() bool {
	return o.Shape != nil && o.Shape.Valid()
}

// Locked reports whether interaction with the object is disabled.
func (o Object) Locked() bool { return !o.Draggable }

// Clone returns a deep copy.
func (o Object) Clone() Object {
	o.Fill = o.Fill.clone()
	if o.Frame != nil {
		f := *o.Frame
		o.Frame = &f
	}
	if p, ok := o.Shape.(Polygon); ok {
		p.Points = append([]float64(nil), p.Points...)
		o.Shape = p
	}
	return o
}

// Bounds returns the unrotated bounding box in canvas space. Rotation is
// applied around (X, Y).
func (o Object) Bounds() Rect {
	switch s := o.Shape.(type) {
	case Text:
		w, h := s.size()
		return Rect{X: o.X, Y: o.Y, Width: w, Height: h}
	case Rectangle:
		return Rect{X: o.X, Y: o.Y, Width: s.Width, Height: s.Height}
	case Circle:
		return Rect{X: o.X - s.Radius, Y: o.Y - s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case Polygon:
		b := pointsBounds(s.Points)
		b.X += o.X
		b.Y += o.Y
		return b
	case Star:
		return Rect{X: o.X - s.OuterRadius, Y: o.Y - s.OuterRadius, Width: 2 * s.OuterRadius, Height: 2 * s.OuterRadius}
	case Path:
		b := s.localBounds()
		b.X += o.X
		b.Y += o.Y
		return b
	case Image:
		return Rect{X: o.X, Y: o.Y, Width: s.Width, Height: s.Height}
	default:
		return Rect{}
	}
}

// ContainsPoint hit tests (x, y) against the rotated bounds.
func (o Object) ContainsPoint(x, y float64) bool {
	lx, ly := RotatePoint(x, y, o.X, o.Y, -o.Rotation)
	return o.Bounds().Contains(lx, ly)
}

// DisplayName is the default layer label derived from the content.
func (o Object) DisplayName() string {
	switch s := o.Shape.(type) {
	case Text:
		if s.Text == "" {
			return "Texte"
		}
		if utf8.RuneCountInString(s.Text) > 20 {
			r := []rune(s.Text)
			return `Texte: "` + string(r[:20]) + `..."`
		}
		return `Texte: "` + s.Text + `"`
	case Rectangle:
		return "Rectangle"
	case Circle:
		return "Cercle"
	case Polygon:
		return "Polygone"
	case Star:
		return "Étoile"
	case Path:
		return "Forme"
	case Image:
		return "Image"
	default:
		return "Élément"
	}
}

func (t Text) size() (float64, float64) {
	lines := strings.Split(t.Text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	w := t.Width
	if w <= 0 {
		w = math.Max(float64(longest)*t.FontSize*0.6, t.FontSize)
	}
	return w, float64(len(lines)) * t.FontSize
}

func (p Path) scale() (float64, float64) {
	sx, sy := p.ScaleX, p.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

func (p Path) localBounds() Rect {
	segs, err := ParsePath(p.Data)
	if err != nil || len(segs) == 0 {
		return Rect{}
	}
	b := SegmentsBounds(segs)
	sx, sy := p.scale()
	return Rect{X: b.X * sx, Y: b.Y * sy, Width: b.Width * sx, Height: b.Height * sy}
}

// Scale returns the effective path scale, defaulting zero factors to 1.
func (p Path) Scale() (float64, float64) { return p.scale() }
