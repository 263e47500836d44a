package engine

import "github.com/invitely/invitely/editor-go/internal/scene"

// FillMode is the session colour applied to newly created shapes.
type FillMode struct {
	Color    string          `json:"color,omitempty"`
	Gradient *scene.Gradient `json:"gradient,omitempty"`
}

// DefaultFillMode is a white to black linear gradient.
func DefaultFillMode() FillMode {
	return FillMode{Gradient: &scene.Gradient{
		Start: "#ffffff",
		End:   "#000000",
		Type:  scene.GradientLinear,
	}}
}

// SolidFill returns a single-colour mode.
func SolidFill(color string) FillMode { return FillMode{Color: color} }

// GradientMode returns a gradient mode.
func GradientMode(g scene.Gradient) FillMode {
	if g.Type == "" {
		g.Type = scene.GradientLinear
	}
	return FillMode{Gradient: &g}
}

// Fill bakes the mode into a standalone object fill.
func (m FillMode) Fill() scene.Fill {
	if m.Gradient != nil {
		return scene.GradientFill(*m.Gradient)
	}
	return scene.Solid(m.Color)
}

// FillMode returns the active creation fill.
func (e *Editor) FillMode() FillMode {
	if e.fill.Gradient != nil {
		g := *e.fill.Gradient
		return FillMode{Color: e.fill.Color, Gradient: &g}
	}
	return e.fill
}

// SetFillMode changes the fill used by later shapes. Existing objects keep
// the fill they were created with.
func (e *Editor) SetFillMode(m FillMode) {
	if m.Gradient != nil {
		g := *m.Gradient
		m.Gradient = &g
	}
	e.fill = m
}

// SetFontFamily changes the session font. The selected text object shows it
// when it has no font of its own.
func (e *Editor) SetFontFamily(family string) {
	if family != "" {
		e.fontFamily = family
	}
}
