package scene

import "math"

// Patch is a partial attribute update. Nil fields are left untouched.
//
// Width and Height describe the unrotated bounding box and are mapped onto
// the variant's own geometry (see ApplyBox). Fields that do not exist on the
// target variant are ignored.
type Patch struct {
	X         *float64
	Y         *float64
	Width     *float64
	Height    *float64
	Rotation  *float64
	Opacity   *float64
	Fill      *Fill
	Draggable *bool
	Visible   *bool

	// Frame replaces the frame; a FrameNone frame removes it. Images only.
	Frame *Frame

	Text       *string
	FontSize   *float64
	FontFamily *string
	FontStyle  *string
	Align      *string

	Radius      *float64
	Points      []float64
	NumPoints   *int
	InnerRadius *float64
	OuterRadius *float64
	Data        *string
	Src         *string
}

// Float returns a pointer to v, for building patches inline.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Move builds a position patch.
func Move(x, y float64) Patch { return Patch{X: Float(x), Y: Float(y)} }

// Apply returns a copy of o with p applied.
func (o Object) Apply(p Patch) Object {
	o = o.Clone()

	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		o.Opacity = clamp01(*p.Opacity)
	}
	if p.Fill != nil {
		o.Fill = p.Fill.clone()
	}
	if p.Draggable != nil {
		o.Draggable = *p.Draggable
	}
	if p.Visible != nil {
		o.Visible = *p.Visible
	}
	if p.Frame != nil && o.Type() == TypeImage {
		if p.Frame.Type == FrameNone || p.Frame.Type == "" {
			o.Frame = nil
		} else {
			f := *p.Frame
			o.Frame = &f
		}
	}

	o.Shape = applyShape(o.Shape, p)

	if p.Width != nil || p.Height != nil {
		b := o.Bounds()
		if p.Width != nil {
			b.Width = *p.Width
		}
		if p.Height != nil {
			b.Height = *p.Height
		}
		o = o.ApplyBox(b)
	}

	// Position last: a box patch moves the origin for centred variants.
	if p.X != nil {
		o.X = *p.X
	}
	if p.Y != nil {
		o.Y = *p.Y
	}
	return o
}

func applyShape(s Shape, p Patch) Shape {
	switch s := s.(type) {
	case Text:
		if p.Text != nil {
			s.Text = *p.Text
		}
		if p.FontSize != nil {
			s.FontSize = *p.FontSize
		}
		if p.FontFamily != nil {
			s.FontFamily = *p.FontFamily
		}
		if p.FontStyle != nil {
			s.FontStyle = *p.FontStyle
		}
		if p.Align != nil {
			s.Align = *p.Align
		}
		return s
	case Rectangle:
		return s
	case Circle:
		if p.Radius != nil {
			s.Radius = *p.Radius
		}
		return s
	case Polygon:
		if p.Points != nil {
			s.Points = append([]float64(nil), p.Points...)
		}
		return s
	case Star:
		if p.NumPoints != nil {
			s.NumPoints = *p.NumPoints
		}
		if p.InnerRadius != nil {
			s.InnerRadius = *p.InnerRadius
		}
		if p.OuterRadius != nil {
			s.OuterRadius = *p.OuterRadius
		}
		return s
	case Path:
		if p.Data != nil {
			s.Data = *p.Data
		}
		return s
	case Image:
		if p.Src != nil {
			s.Src = *p.Src
		}
		return s
	default:
		return s
	}
}

// ApplyBox fits the object to the unrotated bounding box b.
func (o Object) ApplyBox(b Rect) Object {
	cur := o.Bounds()
	switch s := o.Shape.(type) {
	case Text:
		s.Width = b.Width
		if cur.Height > 0 && b.Height > 0 && s.FontSize > 0 {
			s.FontSize = s.FontSize * b.Height / cur.Height
		}
		o.Shape = s
		o.X, o.Y = b.X, b.Y
	case Rectangle:
		s.Width, s.Height = b.Width, b.Height
		o.Shape = s
		o.X, o.Y = b.X, b.Y
	case Image:
		s.Width, s.Height = b.Width, b.Height
		o.Shape = s
		o.X, o.Y = b.X, b.Y
	case Circle:
		s.Radius = math.Min(b.Width, b.Height) / 2
		o.Shape = s
		o.X, o.Y = b.Center()
	case Star:
		if s.OuterRadius > 0 {
			k := math.Min(b.Width, b.Height) / (2 * s.OuterRadius)
			s.OuterRadius *= k
			s.InnerRadius *= k
		}
		o.Shape = s
		o.X, o.Y = b.Center()
	case Polygon:
		if cur.Width > 0 && cur.Height > 0 {
			kx, ky := b.Width/cur.Width, b.Height/cur.Height
			lb := pointsBounds(s.Points)
			pts := make([]float64, len(s.Points))
			for i := 0; i+1 < len(s.Points); i += 2 {
				pts[i] = lb.X + (s.Points[i]-lb.X)*kx
				pts[i+1] = lb.Y + (s.Points[i+1]-lb.Y)*ky
			}
			s.Points = pts
			o.Shape = s
			o.X, o.Y = b.X-lb.X, b.Y-lb.Y
		}
	case Path:
		if cur.Width > 0 && cur.Height > 0 {
			sx, sy := s.scale()
			s.ScaleX = sx * b.Width / cur.Width
			s.ScaleY = sy * b.Height / cur.Height
			o.Shape = s
			lb := s.localBounds()
			o.X, o.Y = b.X-lb.X, b.Y-lb.Y
		}
	}
	return o
}

// GeometryPatch returns the committed transform update for o:
// {x, y, width, height, rotation}. Applying it to the object o was derived
// from reproduces o's geometry.
func (o Object) GeometryPatch() Patch {
	b := o.Bounds()
	return Patch{
		X:        Float(o.X),
		Y:        Float(o.Y),
		Width:    Float(b.Width),
		Height:   Float(b.Height),
		Rotation: Float(o.Rotation),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(0, math.Min(1, v))
}
