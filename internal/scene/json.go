package scene

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownShape is returned when decoding an object with an unsupported type.
var ErrUnknownShape = errors.New("unknown shape type")

// objectJSON is the flat wire form of an Object.
type objectJSON struct {
	ID   string  `json:"id"`
	Type Type    `json:"type"`
	Name string  `json:"name,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Points      []float64 `json:"points,omitempty"`
	NumPoints   int       `json:"numPoints,omitempty"`
	InnerRadius float64   `json:"innerRadius,omitempty"`
	OuterRadius float64   `json:"outerRadius,omitempty"`
	Data        string    `json:"data,omitempty"`
	ScaleX      float64   `json:"scaleX,omitempty"`
	ScaleY      float64   `json:"scaleY,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	FontFamily  string    `json:"fontFamily,omitempty"`
	FontStyle   string    `json:"fontStyle,omitempty"`
	Align       string    `json:"align,omitempty"`
	Src         string    `json:"src,omitempty"`

	Fill      string    `json:"fill,omitempty"`
	Gradient  *Gradient `json:"gradient,omitempty"`
	Opacity   *float64  `json:"opacity,omitempty"`
	Rotation  float64   `json:"rotation,omitempty"`
	Draggable *bool     `json:"draggable,omitempty"`
	Visible   *bool     `json:"visible,omitempty"`
	Frame     *Frame    `json:"frame,omitempty"`
}

// MarshalJSON encodes the object in its flat wire form.
func (o Object) MarshalJSON() ([]byte, error) {
	return MarshalNamed(o, "")
}

// UnmarshalJSON decodes the flat wire form. Missing opacity, visible and
// draggable default to 1, true and true.
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, _, err := UnmarshalNamed(data)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

// MarshalNamed encodes o with a layer name attached.
func MarshalNamed(o Object, name string) ([]byte, error) {
	w := objectJSON{
		ID:        o.ID,
		Type:      o.Type(),
		Name:      name,
		X:         o.X,
		Y:         o.Y,
		Fill:      o.Fill.Color,
		Gradient:  o.Fill.Gradient,
		Opacity:   Float(o.Opacity),
		Rotation:  o.Rotation,
		Draggable: Bool(o.Draggable),
		Visible:   Bool(o.Visible),
		Frame:     o.Frame,
	}

	switch s := o.Shape.(type) {
	case Text:
		w.Text, w.FontSize, w.FontFamily = s.Text, s.FontSize, s.FontFamily
		w.FontStyle, w.Align, w.Width = s.FontStyle, s.Align, s.Width
	case Rectangle:
		w.Width, w.Height = s.Width, s.Height
	case Circle:
		w.Radius = s.Radius
	case Polygon:
		w.Points = s.Points
	case Star:
		w.NumPoints, w.InnerRadius, w.OuterRadius = s.NumPoints, s.InnerRadius, s.OuterRadius
	case Path:
		w.Data, w.ScaleX, w.ScaleY = s.Data, s.ScaleX, s.ScaleY
	case Image:
		w.Src, w.Width, w.Height = s.Src, s.Width, s.Height
	case nil:
		return nil, fmt.Errorf("object %q: %w", o.ID, ErrUnknownShape)
	}

	return json.Marshal(w)
}

// UnmarshalNamed decodes an object and the layer name stored alongside it.
func UnmarshalNamed(data []byte) (Object, string, error) {
	var w objectJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return Object{}, "", err
	}

	var shape Shape
	switch w.Type {
	case TypeText:
		shape = Text{Text: w.Text, FontSize: w.FontSize, FontFamily: w.FontFamily, FontStyle: w.FontStyle, Align: w.Align, Width: w.Width}
	case TypeRect:
		shape = Rectangle{Width: w.Width, Height: w.Height}
	case TypeCircle:
		shape = Circle{Radius: w.Radius}
	case TypePolygon:
		shape = Polygon{Points: w.Points}
	case TypeStar:
		shape = Star{NumPoints: w.NumPoints, InnerRadius: w.InnerRadius, OuterRadius: w.OuterRadius}
	case TypePath:
		shape = Path{Data: w.Data, ScaleX: w.ScaleX, ScaleY: w.ScaleY}
	case TypeImage:
		shape = Image{Src: w.Src, Width: w.Width, Height: w.Height}
	default:
		return Object{}, "", fmt.Errorf("object %q: %w: %q", w.ID, ErrUnknownShape, w.Type)
	}

	o := New(w.ID, w.X, w.Y, shape)
	o.Fill = Fill{Color: w.Fill, Gradient: w.Gradient}
	o.Rotation = w.Rotation
	if w.Opacity != nil {
		o.Opacity = clamp01(*w.Opacity)
	}
	if w.Draggable != nil {
		o.Draggable = *w.Draggable
	}
	if w.Visible != nil {
		o.Visible = *w.Visible
	}
	if w.Frame != nil && w.Frame.Type != FrameNone && w.Type == TypeImage {
		o.Frame = w.Frame
	}
	return o, w.Name, nil
}

// patchJSON is the wire form of a Patch: the object attributes being changed.
type patchJSON struct {
	X           *float64        `json:"x"`
	Y           *float64        `json:"y"`
	Width       *float64        `json:"width"`
	Height      *float64        `json:"height"`
	Rotation    *float64        `json:"rotation"`
	Opacity     *float64        `json:"opacity"`
	Fill        *string         `json:"fill"`
	Gradient    *Gradient       `json:"gradient"`
	Draggable   *bool           `json:"draggable"`
	Visible     *bool           `json:"visible"`
	Frame       json.RawMessage `json:"frame"`
	Text        *string         `json:"text"`
	FontSize    *float64        `json:"fontSize"`
	FontFamily  *string         `json:"fontFamily"`
	FontStyle   *string         `json:"fontStyle"`
	Align       *string         `json:"align"`
	Radius      *float64        `json:"radius"`
	Points      []float64       `json:"points"`
	NumPoints   *int            `json:"numPoints"`
	InnerRadius *float64        `json:"innerRadius"`
	OuterRadius *float64        `json:"outerRadius"`
	Data        *string         `json:"data"`
	Src         *string         `json:"src"`
}

// UnmarshalJSON decodes a partial attribute map such as
// {"x": 10, "fill": "#ff0000"}. A null frame removes the frame; a gradient
// replaces the fill.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var w patchJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Patch{
		X: w.X, Y: w.Y, Width: w.Width, Height: w.Height,
		Rotation: w.Rotation, Opacity: w.Opacity,
		Draggable: w.Draggable, Visible: w.Visible,
		Text: w.Text, FontSize: w.FontSize, FontFamily: w.FontFamily,
		FontStyle: w.FontStyle, Align: w.Align,
		Radius: w.Radius, Points: w.Points, NumPoints: w.NumPoints,
		InnerRadius: w.InnerRadius, OuterRadius: w.OuterRadius,
		Data: w.Data, Src: w.Src,
	}

	switch {
	case w.Gradient != nil:
		f := GradientFill(*w.Gradient)
		if w.Fill != nil && *w.Fill != "" {
			f.Color = *w.Fill
		}
		p.Fill = &f
	case w.Fill != nil:
		f := Solid(*w.Fill)
		p.Fill = &f
	}

	if len(w.Frame) > 0 {
		if string(w.Frame) == "null" {
			p.Frame = &Frame{Type: FrameNone}
		} else {
			var f Frame
			if err := json.Unmarshal(w.Frame, &f); err != nil {
				return fmt.Errorf("frame: %w", err)
			}
			p.Frame = &f
		}
	}
	return nil
}
