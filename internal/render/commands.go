package render

import (
	"encoding/json"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Draw operations.
const (
	OpPath  = "path"
	OpText  = "text"
	OpImage = "image"
)

// Command roles separate scene content from decorations the editor adds.
const (
	RoleBackground = "background"
	RoleFrame      = "frame"
	RoleSelection  = "selection"
	RoleHandle     = "handle"
)

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], etc.
type PathCommand []interface{}

// GradientPaint is a gradient resolved to local shape coordinates.
// Linear gradients run from (X0, Y0) to (X1, Y1); radial gradients grow
// from (X0, Y0) out to radius R.
type GradientPaint struct {
	Type  scene.GradientKind `json:"type"`
	Start string             `json:"start"`
	End   string             `json:"end"`
	X0    float64            `json:"x0"`
	Y0    float64            `json:"y0"`
	X1    float64            `json:"x1,omitempty"`
	Y1    float64            `json:"y1,omitempty"`
	R     float64            `json:"r,omitempty"`
}

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string         `json:"op"`
	Role        string         `json:"role,omitempty"`
	ObjectID    string         `json:"objectId,omitempty"`
	Selected    bool           `json:"selected,omitempty"`
	Transform   []float64      `json:"transform,omitempty"`
	Path        []PathCommand  `json:"path,omitempty"`
	Fill        string         `json:"fill,omitempty"`
	Gradient    *GradientPaint `json:"gradient,omitempty"`
	Stroke      string         `json:"stroke,omitempty"`
	StrokeWidth float64        `json:"strokeWidth,omitempty"`
	Opacity     float64        `json:"opacity,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Align      string  `json:"align,omitempty"`
	Width      float64 `json:"width,omitempty"`

	ImageSrc    string  `json:"imageSrc,omitempty"`
	ImageWidth  float64 `json:"imageWidth,omitempty"`
	ImageHeight float64 `json:"imageHeight,omitempty"`
}

// Surface is one complete render of the editor canvas.
type Surface struct {
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Background string        `json:"background,omitempty"`
	Zoom       float64       `json:"zoom"`
	PanX       float64       `json:"panX"`
	PanY       float64       `json:"panY"`
	Commands   []DrawCommand `json:"commands"`
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
