package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// ErrUnknownCommand is returned by Apply for unsupported command types.
var ErrUnknownCommand = errors.New("unknown command")

// Command types accepted by Apply.
const (
	CmdSelect    = "select"
	CmdDeselect  = "deselect"
	CmdUpdate    = "object.update"
	CmdDelete    = "object.delete"
	CmdDuplicate = "object.duplicate"
	CmdCopy      = "clipboard.copy"
	CmdPaste     = "clipboard.paste"

	CmdLayerUp         = "layer.up"
	CmdLayerDown       = "layer.down"
	CmdLayerFront      = "layer.front"
	CmdLayerBack       = "layer.back"
	CmdLayerVisibility = "layer.visibility"
	CmdLayerLock       = "layer.lock"
	CmdLayerRename     = "layer.rename"

	CmdUndo = "history.undo"
	CmdRedo = "history.redo"

	CmdAddText       = "tool.text"
	CmdAddShape      = "tool.shape"
	CmdAddImage      = "tool.image"
	CmdAddDecoration = "tool.decoration"
	CmdTemplate      = "template.apply"
	CmdFrame         = "frame.set"
	CmdFill          = "fill.set"
	CmdFont          = "font.set"
	CmdBackground    = "background.set"
	CmdBackColor     = "background.color"
	CmdClear         = "canvas.clear"

	CmdZoomIn    = "view.zoomIn"
	CmdZoomOut   = "view.zoomOut"
	CmdZoom      = "view.zoom"
	CmdResetView = "view.reset"
)

// Command is one editor action coming from a toolbar, panel or remote
// client. Only the fields relevant to Type are read.
type Command struct {
	Type     string `json:"type"`
	ObjectID string `json:"objectId,omitempty"`

	// For object.update
	Attrs *scene.Patch `json:"attrs,omitempty"`

	// For tool.*
	Style  TextStyle `json:"style,omitempty"`
	Shape  ShapeKind `json:"shape,omitempty"`
	Src    string    `json:"src,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Glyph  string    `json:"glyph,omitempty"`

	TemplateID string       `json:"templateId,omitempty"`
	Frame      *scene.Frame `json:"frame,omitempty"`
	Fill       *FillMode    `json:"fill,omitempty"`
	FontFamily string       `json:"fontFamily,omitempty"`
	Name       string       `json:"name,omitempty"`
	Color      string       `json:"color,omitempty"`
	Zoom       float64      `json:"zoom,omitempty"`
}

// Result reports what a command did.
type Result struct {
	// ObjectID is the object created by the command, if any.
	ObjectID string `json:"objectId,omitempty"`
	Changed  bool   `json:"changed"`
}

// ParseCommand decodes a JSON command.
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	return c, nil
}

// Apply runs c against the editor. Commands naming objects that no longer
// exist succeed without effect.
func (e *Editor) Apply(c Command) (Result, error) {
	target := c.ObjectID
	if target == "" {
		target = e.selectedID
	}

	switch c.Type {
	case CmdSelect:
		return Result{Changed: e.Select(c.ObjectID)}, nil
	case CmdDeselect:
		e.Deselect()
		return Result{Changed: true}, nil
	case CmdUpdate:
		if c.Attrs == nil {
			return Result{}, fmt.Errorf("%s: missing attrs", c.Type)
		}
		return Result{Changed: e.Update(target, *c.Attrs)}, nil
	case CmdDelete:
		return Result{Changed: e.Remove(target)}, nil
	case CmdDuplicate:
		if target != e.selectedID && !e.Select(target) {
			return Result{}, nil
		}
		return created(e.Duplicate())
	case CmdCopy:
		if target != e.selectedID && !e.Select(target) {
			return Result{}, nil
		}
		return Result{Changed: e.Copy()}, nil
	case CmdPaste:
		return created(e.Paste())

	case CmdLayerUp:
		return Result{Changed: e.MoveUp(target)}, nil
	case CmdLayerDown:
		return Result{Changed: e.MoveDown(target)}, nil
	case CmdLayerFront:
		return Result{Changed: e.BringToFront(target)}, nil
	case CmdLayerBack:
		return Result{Changed: e.SendToBack(target)}, nil
	case CmdLayerVisibility:
		return Result{Changed: e.ToggleVisible(target)}, nil
	case CmdLayerLock:
		return Result{Changed: e.ToggleLock(target)}, nil
	case CmdLayerRename:
		return Result{Changed: e.RenameLayer(target, c.Name)}, nil

	case CmdUndo:
		return Result{Changed: e.Undo()}, nil
	case CmdRedo:
		return Result{Changed: e.Redo()}, nil

	case CmdAddText:
		return created(e.AddText(c.Style))
	case CmdAddShape:
		return created(e.AddShape(c.Shape))
	case CmdAddImage:
		return created(e.AddImage(c.Src, c.Width, c.Height))
	case CmdAddDecoration:
		return created(e.AddDecoration(c.Glyph))
	case CmdTemplate:
		return Result{Changed: e.ApplyTemplate(c.TemplateID)}, nil
	case CmdFrame:
		f := scene.Frame{Type: scene.FrameNone}
		if c.Frame != nil {
			f = *c.Frame
		}
		return Result{Changed: e.SetFrame(target, f)}, nil
	case CmdFill:
		if c.Fill == nil {
			return Result{}, fmt.Errorf("%s: missing fill", c.Type)
		}
		e.SetFillMode(*c.Fill)
		return Result{Changed: true}, nil
	case CmdFont:
		e.SetFontFamily(c.FontFamily)
		return Result{Changed: true}, nil
	case CmdBackground:
		return Result{Changed: e.SetBackground(c.Src)}, nil
	case CmdBackColor:
		return Result{Changed: e.SetBackgroundColor(c.Color)}, nil
	case CmdClear:
		return Result{Changed: e.Clear()}, nil

	case CmdZoomIn:
		e.ZoomIn()
		return Result{Changed: true}, nil
	case CmdZoomOut:
		e.ZoomOut()
		return Result{Changed: true}, nil
	case CmdZoom:
		e.SetZoom(c.Zoom)
		return Result{Changed: true}, nil
	case CmdResetView:
		e.ResetView()
		return Result{Changed: true}, nil

	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, c.Type)
	}
}

func created(id string, ok bool) (Result, error) {
	return Result{ObjectID: id, Changed: ok}, nil
}
