package engine

import (
	"strings"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Nudge distances for the arrow keys, in canvas units.
const (
	NudgeStep      = 1
	NudgeStepShift = 10
)

// KeyEvent is a key press delivered while the editor has focus.
type KeyEvent struct {
	// Key is the DOM key value ("z", "Delete", "ArrowLeft").
	Key string `json:"key"`
	Modifiers
	// TextInput is set when a text control had focus; such events belong
	// to the control and are ignored.
	TextInput bool `json:"textInput,omitempty"`
}

// Key runs the shortcut bound to ev and reports whether one matched.
func (e *Editor) Key(ev KeyEvent) bool {
	if ev.TextInput {
		return false
	}
	key := strings.ToLower(ev.Key)

	if ev.Ctrl || ev.Meta {
		switch key {
		case "z":
			if ev.Shift {
				e.Redo()
			} else {
				e.Undo()
			}
		case "y":
			e.Redo()
		case "c":
			e.Copy()
		case "v":
			e.Paste()
		case "d":
			e.Duplicate()
		default:
			return false
		}
		return true
	}

	step := float64(NudgeStep)
	if ev.Shift {
		step = NudgeStepShift
	}
	switch key {
	case "delete", "backspace":
		e.RemoveSelected()
	case "escape":
		e.Deselect()
	case "arrowleft":
		e.nudge(-step, 0)
	case "arrowright":
		e.nudge(step, 0)
	case "arrowup":
		e.nudge(0, -step)
	case "arrowdown":
		e.nudge(0, step)
	default:
		return false
	}
	return true
}

func (e *Editor) nudge(dx, dy float64) {
	e.finishInteraction()
	o, ok := e.Selected()
	if !ok || o.Locked() {
		return
	}
	e.Update(o.ID, scene.Move(o.X+dx, o.Y+dy))
}
