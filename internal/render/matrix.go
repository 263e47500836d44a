package render

import (
	"math"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Matrix2D is a 2D affine transform in Canvas2D order [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D [6]float64

func Identity() Matrix2D { return Matrix2D{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Matrix2D { return Matrix2D{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Matrix2D { return Matrix2D{sx, 0, 0, sy, 0, 0} }

// Rotate turns by rad radians, clockwise on a y-down canvas.
func Rotate(rad float64) Matrix2D {
	sin, cos := math.Sincos(rad)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

func RotateDegrees(deg float64) Matrix2D { return Rotate(deg * math.Pi / 180) }

// Multiply returns m * n: n applies first, then m.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix2D{
		a*n[0] + c*n[1],
		b*n[0] + d*n[1],
		a*n[2] + c*n[3],
		b*n[2] + d*n[3],
		a*n[4] + c*n[5] + e,
		b*n[4] + d*n[5] + f,
	}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformRect maps the corners of r and returns their axis-aligned bounds.
func (m Matrix2D) TransformRect(r scene.Rect) scene.Rect {
	corners := [4][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x, y := m.TransformPoint(p[0], p[1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return scene.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (m Matrix2D) Determinant() float64 { return m[0]*m[3] - m[1]*m[2] }

// Invert returns the inverse of m. A singular matrix inverts to Identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	a, b, c, d, e, f := m[0]/det, m[1]/det, m[2]/det, m[3]/det, m[4], m[5]
	return Matrix2D{d, -b, -c, a, c*f - d*e, b*e - a*f}
}

// FromTransform places a shape at (x, y), rotated by deg and scaled by
// (sx, sy) around the local anchor (ax, ay).
func FromTransform(x, y, sx, sy, deg, ax, ay float64) Matrix2D {
	return Translate(x, y).
		Multiply(RotateDegrees(deg)).
		Multiply(Scale(sx, sy)).
		Multiply(Translate(-ax, -ay))
}

// ObjectTransform maps an object's local shape coordinates onto the canvas.
// Objects rotate around their own (X, Y); paths also carry a scale.
func ObjectTransform(o scene.Object) Matrix2D {
	sx, sy := 1.0, 1.0
	if p, ok := o.Shape.(scene.Path); ok {
		sx, sy = p.Scale()
	}
	return FromTransform(o.X, o.Y, sx, sy, o.Rotation, 0, 0)
}

// ViewTransform maps canvas coordinates to the screen:
// screen = canvas*zoom + pan.
func ViewTransform(zoom, panX, panY float64) Matrix2D {
	return Translate(panX, panY).Multiply(Scale(zoom, zoom))
}

// ToSlice is the wire form used in draw commands.
func (m Matrix2D) ToSlice() []float64 { return m[:] }
