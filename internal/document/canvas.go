package document

import (
	"encoding/json"
	"fmt"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Canvas sizes seen across editor revisions.
const (
	DefaultWidth  = 1080
	DefaultHeight = 1800
)

// CanvasData is the load/save payload exchanged with the storage
// collaborator: {objects, width, height, backgroundImage}.
type CanvasData struct {
	Objects         []scene.Object
	Width           float64
	Height          float64
	BackgroundImage string
	BackgroundColor string
	// Names holds custom layer names keyed by object id. They travel inside
	// each object as "name".
	Names map[string]string
}

type canvasJSON struct {
	Objects         []json.RawMessage `json:"objects"`
	Width           float64           `json:"width"`
	Height          float64           `json:"height"`
	BackgroundImage string            `json:"backgroundImage,omitempty"`
	BackgroundColor string            `json:"backgroundColor,omitempty"`
}

// MarshalJSON encodes the payload with layer names folded into objects.
func (c CanvasData) MarshalJSON() ([]byte, error) {
	w := canvasJSON{
		Objects:         make([]json.RawMessage, 0, len(c.Objects)),
		Width:           c.Width,
		Height:          c.Height,
		BackgroundImage: c.BackgroundImage,
		BackgroundColor: c.BackgroundColor,
	}
	for _, o := range c.Objects {
		raw, err := scene.MarshalNamed(o, c.Names[o.ID])
		if err != nil {
			return nil, err
		}
		w.Objects = append(w.Objects, raw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the payload. Objects with duplicate ids keep their
// first occurrence.
func (c *CanvasData) UnmarshalJSON(data []byte) error {
	var w canvasJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := CanvasData{
		Width:           w.Width,
		Height:          w.Height,
		BackgroundImage: w.BackgroundImage,
		BackgroundColor: w.BackgroundColor,
	}
	seen := make(map[string]bool, len(w.Objects))
	for i, raw := range w.Objects {
		o, name, err := scene.UnmarshalNamed(raw)
		if err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out.Objects = append(out.Objects, o)
		if name != "" {
			if out.Names == nil {
				out.Names = make(map[string]string)
			}
			out.Names[o.ID] = name
		}
	}
	*c = out
	return nil
}

// Parse decodes a payload, filling a missing size with the defaults.
func Parse(data []byte) (CanvasData, error) {
	var c CanvasData
	if err := json.Unmarshal(data, &c); err != nil {
		return CanvasData{}, fmt.Errorf("decode canvas data: %w", err)
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	return c, nil
}
