package engine

import (
	"time"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/gesture"
	"github.com/invitely/invitely/editor-go/internal/history"
	"github.com/invitely/invitely/editor-go/internal/scene"
	"github.com/invitely/invitely/editor-go/internal/typeid"
)

// Options configures an Editor.
type Options struct {
	Width  float64
	Height float64

	ZoomMin float64
	ZoomMax float64

	HistoryLimit int
	// MinBoxSize is the smallest width or height a transform may produce.
	MinBoxSize float64
	// PasteOffset shifts pasted and duplicated objects on both axes.
	PasteOffset float64
	// DeadZone is the screen distance before a press becomes a drag.
	DeadZone float64

	// FontFamily is the initial session font.
	FontFamily string

	// NewID generates object ids. Ids must never repeat within a session.
	NewID func(t scene.Type) string
	Now   func() time.Time
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		Width:        document.DefaultWidth,
		Height:       document.DefaultHeight,
		ZoomMin:      0.1,
		ZoomMax:      5,
		HistoryLimit: history.DefaultLimit,
		MinBoxSize:   5,
		PasteOffset:  20,
		DeadZone:     gesture.DefaultDeadZone,
		FontFamily:   "Arial",
		NewID:        func(t scene.Type) string { return typeid.NewObjectID(string(t)) },
		Now:          time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.ZoomMin <= 0 {
		o.ZoomMin = d.ZoomMin
	}
	if o.ZoomMax < o.ZoomMin {
		o.ZoomMax = max(d.ZoomMax, o.ZoomMin)
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = d.HistoryLimit
	}
	if o.MinBoxSize <= 0 {
		o.MinBoxSize = d.MinBoxSize
	}
	if o.DeadZone <= 0 {
		o.DeadZone = d.DeadZone
	}
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.NewID == nil {
		o.NewID = d.NewID
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
