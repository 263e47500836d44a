package render

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Input is everything the renderer reads from the editor state.
type Input struct {
	Scene      scene.Scene
	SelectedID string
	// FontFamily is the session default, applied to the selected text
	// object when it has no font of its own.
	FontFamily string
	Background string
	Width      float64
	Height     float64
	Images     *ImageCache
}

// Build generates the draw command buffer for the whole canvas.
// Commands are in painter's order (back to front).
func Build(in Input) []DrawCommand {
	var commands []DrawCommand

	if in.Background != "" && in.Images != nil {
		if _, ok := in.Images.Image(in.Background); ok {
			commands = append(commands, DrawCommand{
				Op:          OpImage,
				Role:        RoleBackground,
				Transform:   Identity().ToSlice(),
				Opacity:     1,
				ImageSrc:    in.Background,
				ImageWidth:  in.Width,
				ImageHeight: in.Height,
			})
		}
	}

	for i := 0; i < in.Scene.Len(); i++ {
		o := in.Scene.At(i)
		commands = append(commands, Object(o, o.ID == in.SelectedID, in.FontFamily, in.Images)...)
	}
	return commands
}

// Object maps one scene object to its draw commands. Hidden objects and
// objects missing their geometry produce nothing.
func Object(o scene.Object, selected bool, fontFamily string, images *ImageCache) []DrawCommand {
	if !o.Visible || !o.Valid() {
		return nil
	}

	m := ObjectTransform(o)
	base := DrawCommand{
		ObjectID:  o.ID,
		Selected:  selected,
		Transform: m.ToSlice(),
		Opacity:   o.Opacity,
	}

	switch s := o.Shape.(type) {
	case scene.Text:
		cmd := base
		cmd.Op = OpText
		cmd.Text = s.Text
		cmd.FontSize = s.FontSize
		cmd.FontFamily = textFont(s, selected, fontFamily)
		cmd.FontStyle = s.FontStyle
		cmd.Align = s.Align
		cmd.Width = s.Width
		applyFill(&cmd, o.Fill, o.Bounds(), o)
		return []DrawCommand{cmd}

	case scene.Image:
		if images == nil {
			return nil
		}
		if _, ok := images.Image(s.Src); !ok {
			return nil
		}
		var out []DrawCommand
		if o.Frame != nil {
			if f, ok := frameCommand(base, *o.Frame, s.Width, s.Height); ok {
				out = append(out, f)
			}
		}
		cmd := base
		cmd.Op = OpImage
		cmd.ImageSrc = s.Src
		cmd.ImageWidth = s.Width
		cmd.ImageHeight = s.Height
		return append(out, cmd)

	default:
		path := ShapePath(o.Shape)
		if len(path) == 0 {
			return nil
		}
		cmd := base
		cmd.Op = OpPath
		cmd.Path = path
		applyFill(&cmd, o.Fill, o.Bounds(), o)
		return []DrawCommand{cmd}
	}
}

// textFont picks the font a text object is drawn with: its own font, or the
// session default while it is selected and has none.
func textFont(t scene.Text, selected bool, active string) string {
	if t.FontFamily != "" {
		return t.FontFamily
	}
	if selected {
		return active
	}
	return ""
}

// ShapePath generates local path commands for the vector variants. Text and
// images have no path.
func ShapePath(s scene.Shape) []PathCommand {
	switch s := s.(type) {
	case scene.Rectangle:
		return rectPath(0, 0, s.Width, s.Height)
	case scene.Circle:
		return ellipsePath(0, 0, s.Radius, s.Radius)
	case scene.Polygon:
		return polygonPath(s.Points)
	case scene.Star:
		return starPath(s.NumPoints, s.InnerRadius, s.OuterRadius)
	case scene.Path:
		return svgPath(s.Data)
	case scene.Text, scene.Image:
		return nil
	default:
		return nil
	}
}

func rectPath(x, y, w, h float64) []PathCommand {
	return []PathCommand{
		{"M", x, y},
		{"L", x + w, y},
		{"L", x + w, y + h},
		{"L", x, y + h},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse centred on (cx, cy) with four beziers.
func ellipsePath(cx, cy, rx, ry float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 0.5522847498
	kx, ky := rx*k, ry*k

	return []PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}

func polygonPath(pts []float64) []PathCommand {
	if len(pts) < 6 {
		return nil
	}
	path := make([]PathCommand, 0, len(pts)/2+1)
	path = append(path, PathCommand{"M", pts[0], pts[1]})
	for i := 2; i+1 < len(pts); i += 2 {
		path = append(path, PathCommand{"L", pts[i], pts[i+1]})
	}
	return append(path, PathCommand{"Z"})
}

// starPath alternates outer and inner vertices, starting straight up.
func starPath(n int, inner, outer float64) []PathCommand {
	if n < 2 || n > scene.MaxStarPoints {
		return nil
	}
	path := make([]PathCommand, 0, 2*n+1)
	for i := 0; i < 2*n; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(n)
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, r * math.Cos(a), r * math.Sin(a)})
	}
	return append(path, PathCommand{"Z"})
}

func svgPath(d string) []PathCommand {
	segs, err := scene.ParsePath(d)
	if err != nil {
		return nil
	}
	path := make([]PathCommand, 0, len(segs))
	for _, s := range segs {
		cmd := make(PathCommand, 0, len(s.Args)+1)
		cmd = append(cmd, string(s.Op))
		for _, a := range s.Args {
			cmd = append(cmd, a)
		}
		path = append(path, cmd)
	}
	return path
}

// frameCommand builds the border drawn around an image, offset by the
// frame thickness on every side.
func frameCommand(base DrawCommand, f scene.Frame, w, h float64) (DrawCommand, bool) {
	t := f.Thickness
	if t <= 0 {
		return DrawCommand{}, false
	}

	var path []PathCommand
	switch f.Type {
	case scene.FrameSquare:
		path = rectPath(-t/2, -t/2, w+t, h+t)
	case scene.FrameRound:
		path = ellipsePath(w/2, h/2, w/2+t/2, h/2+t/2)
	case scene.FrameDiamond:
		path = []PathCommand{
			{"M", w / 2, -t},
			{"L", w + t, h / 2},
			{"L", w / 2, h + t},
			{"L", -t, h / 2},
			{"Z"},
		}
	default:
		return DrawCommand{}, false
	}

	cmd := base
	cmd.Op = OpPath
	cmd.Role = RoleFrame
	cmd.Path = path
	cmd.Stroke = f.Color
	if cmd.Stroke == "" {
		cmd.Stroke = "#000000"
	}
	cmd.StrokeWidth = t
	return cmd, true
}

// applyFill sets a solid fill or resolves the gradient against the shape's
// local bounds.
func applyFill(cmd *DrawCommand, f scene.Fill, bounds scene.Rect, o scene.Object) {
	cmd.Fill = f.Color
	if cmd.Fill == "" {
		cmd.Fill = "#000000"
	}
	if f.Gradient == nil {
		return
	}

	// Local bounds: undo the object translation and path scale.
	lb := scene.Rect{X: bounds.X - o.X, Y: bounds.Y - o.Y, Width: bounds.Width, Height: bounds.Height}
	if p, ok := o.Shape.(scene.Path); ok {
		sx, sy := p.Scale()
		lb = scene.Rect{X: lb.X / sx, Y: lb.Y / sy, Width: lb.Width / sx, Height: lb.Height / sy}
	}
	cmd.Gradient = gradientPaint(*f.Gradient, lb)
}

func gradientPaint(g scene.Gradient, b scene.Rect) *GradientPaint {
	cx, cy := b.Center()
	p := &GradientPaint{Type: g.Type, Start: g.Start, End: g.End}

	if g.Type == scene.GradientRadial {
		p.X0, p.Y0 = cx, cy
		p.R = math.Max(b.Width, b.Height) / 2
		return p
	}

	// CSS convention: 0deg points up, 90deg points right.
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(b.Width*dx) + math.Abs(b.Height*dy)) / 2
	p.Type = scene.GradientLinear
	p.X0, p.Y0 = cx-dx*half, cy-dy*half
	p.X1, p.Y1 = cx+dx*half, cy+dy*half
	return p
}
