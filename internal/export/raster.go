// Package export rasterizes rendered canvases into image files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// MaxSide caps either side of an exported image, in pixels.
const MaxSide = 8192

// ErrBadSize is returned for surfaces that cannot be rasterized at the
// requested scale.
var ErrBadSize = errors.New("invalid export size")

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

type faceKey struct {
	style string
	size  float64
}

// Rasterizer draws render surfaces with gg. Text uses the Go font family
// in regular, bold and italic. Calls are serialized.
type Rasterizer struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

// NewRasterizer parses the embedded fonts.
func NewRasterizer() (*Rasterizer, error) {
	r := &Rasterizer{
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
	for style, ttf := range map[string][]byte{
		"normal": goregular.TTF,
		"bold":   gobold.TTF,
		"italic": goitalic.TTF,
	} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", style, err)
		}
		r.fonts[style] = f
	}
	return r, nil
}

// Rasterize draws s at scale times its canvas size. Selection decorations
// are skipped; images come from images and are drawn only when decoded.
func (r *Rasterizer) Rasterize(s render.Surface, images *render.ImageCache, scale float64) (image.Image, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	w := int(math.Ceil(s.Width * scale))
	h := int(math.Ceil(s.Height * scale))
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, w, h)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(w, h)
	dc.SetColor(paint(s.Background, 1, white))
	dc.Clear()

	view := render.Matrix2D{scale, 0, 0, scale, 0, 0}
	for _, c := range s.Commands {
		if c.Role == render.RoleSelection || c.Role == render.RoleHandle {
			continue
		}
		m := view.Multiply(matrixOf(c.Transform))
		switch c.Op {
		case render.OpPath:
			drawPath(dc, m, c)
		case render.OpImage:
			drawImage(dc, m, c, images)
		case render.OpText:
			r.drawText(dc, m, c)
		}
	}
	return dc.Image(), nil
}

func matrixOf(t []float64) render.Matrix2D {
	if len(t) != 6 {
		return render.Identity()
	}
	return render.Matrix2D{t[0], t[1], t[2], t[3], t[4], t[5]}
}

// scaleOf is the mean linear scale of m.
func scaleOf(m render.Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// setMatrix loads m into dc as translate, rotate, scale. Editor transforms
// never shear.
func setMatrix(dc *gg.Context, m render.Matrix2D, withScale bool) {
	sx := math.Hypot(m[0], m[1])
	dc.Identity()
	dc.Translate(m[4], m[5])
	dc.Rotate(math.Atan2(m[1], m[0]))
	if withScale && sx > 0 {
		dc.Scale(sx, m.Determinant()/sx)
	}
}

func drawPath(dc *gg.Context, m render.Matrix2D, c render.DrawCommand) {
	if !tracePath(dc, m, c.Path) {
		return
	}
	filled := c.Fill != "" || c.Gradient != nil
	if filled {
		if c.Gradient != nil {
			dc.SetFillStyle(gradient(c.Gradient, m, c.Opacity))
		} else {
			dc.SetFillStyle(gg.NewSolidPattern(paint(c.Fill, c.Opacity, black)))
		}
		if c.Stroke != "" {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if c.Stroke != "" {
		dc.SetStrokeStyle(gg.NewSolidPattern(paint(c.Stroke, c.Opacity, black)))
		dc.SetLineWidth(c.StrokeWidth * scaleOf(m))
		dc.Stroke()
	}
	dc.ClearPath()
}

// tracePath adds path to dc in device space. It reports false for paths
// with no drawable segment.
func tracePath(dc *gg.Context, m render.Matrix2D, path []render.PathCommand) bool {
	dc.ClearPath()
	drawn := false
	for _, pc := range path {
		op, args, ok := segment(pc)
		if !ok {
			continue
		}
		pt := func(i int) (float64, float64) { return m.TransformPoint(args[i], args[i+1]) }
		switch {
		case op == "M" && len(args) == 2:
			x, y := pt(0)
			dc.MoveTo(x, y)
		case op == "L" && len(args) == 2:
			x, y := pt(0)
			dc.LineTo(x, y)
			drawn = true
		case op == "C" && len(args) == 6:
			x1, y1 := pt(0)
			x2, y2 := pt(2)
			x, y := pt(4)
			dc.CubicTo(x1, y1, x2, y2, x, y)
			drawn = true
		case op == "Q" && len(args) == 4:
			x1, y1 := pt(0)
			x, y := pt(2)
			dc.QuadraticTo(x1, y1, x, y)
			drawn = true
		case op == "Z":
			dc.ClosePath()
		}
	}
	return drawn
}

// segment splits a path command into its op and numeric arguments. Commands
// decoded from JSON carry float64 arguments.
func segment(pc render.PathCommand) (string, []float64, bool) {
	if len(pc) == 0 {
		return "", nil, false
	}
	op, ok := pc[0].(string)
	if !ok {
		return "", nil, false
	}
	args := make([]float64, 0, len(pc)-1)
	for _, v := range pc[1:] {
		switch n := v.(type) {
		case float64:
			args = append(args, n)
		case int:
			args = append(args, float64(n))
		default:
			return "", nil, false
		}
	}
	return op, args, true
}

func gradient(p *render.GradientPaint, m render.Matrix2D, opacity float64) gg.Gradient {
	var g gg.Gradient
	if p.Type == scene.GradientRadial {
		x, y := m.TransformPoint(p.X0, p.Y0)
		g = gg.NewRadialGradient(x, y, 0, x, y, p.R*scaleOf(m))
	} else {
		x0, y0 := m.TransformPoint(p.X0, p.Y0)
		x1, y1 := m.TransformPoint(p.X1, p.Y1)
		g = gg.NewLinearGradient(x0, y0, x1, y1)
	}
	g.AddColorStop(0, paint(p.Start, opacity, white))
	g.AddColorStop(1, paint(p.End, opacity, black))
	return g
}

func drawImage(dc *gg.Context, m render.Matrix2D, c render.DrawCommand, images *render.ImageCache) {
	if images == nil || c.Opacity <= 0 {
		return
	}
	img, ok := images.Image(c.ImageSrc)
	if !ok {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return
	}

	dc.Push()
	defer dc.Pop()
	setMatrix(dc, m, true)
	dc.Scale(c.ImageWidth/float64(b.Dx()), c.ImageHeight/float64(b.Dy()))
	if c.Opacity < 1 {
		mask := image.NewAlpha(image.Rect(0, 0, dc.Width(), dc.Height()))
		a := color.Alpha{A: uint8(c.Opacity*255 + 0.5)}
		draw.Draw(mask, mask.Bounds(), image.NewUniform(a), image.Point{}, draw.Src)
		if err := dc.SetMask(mask); err != nil {
			return
		}
	}
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.ResetClip()
}

func (r *Rasterizer) face(style string, size float64) font.Face {
	f, ok := r.fonts[style]
	if !ok {
		style = "normal"
		f = r.fonts[style]
	}
	key := faceKey{style: style, size: math.Round(size*2) / 2}
	if face, ok := r.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f, &truetype.Options{Size: key.size, Hinting: font.HintingNone})
	r.faces[key] = face
	return face
}

// drawText lays out one line per newline from the object origin, aligned
// within the command width.
func (r *Rasterizer) drawText(dc *gg.Context, m render.Matrix2D, c render.DrawCommand) {
	k := scaleOf(m)
	size := c.FontSize * k
	if size <= 0 || c.Text == "" {
		return
	}
	fill := c.Fill
	if c.Gradient != nil {
		fill = c.Gradient.Start
	}

	dc.Push()
	defer dc.Pop()
	setMatrix(dc, m, false)
	face := r.face(c.FontStyle, size)
	dc.SetFontFace(face)
	dc.SetColor(paint(fill, c.Opacity, black))

	ascent := float64(face.Metrics().Ascent) / 64
	width := c.Width * k
	for i, line := range strings.Split(c.Text, "\n") {
		x := 0.0
		if width > 0 {
			lw, _ := dc.MeasureString(line)
			switch c.Align {
			case "center":
				x = (width - lw) / 2
			case "right":
				x = width - lw
			}
		}
		dc.DrawString(line, x, float64(i)*size+ascent)
	}
}
