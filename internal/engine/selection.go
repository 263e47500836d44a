package engine

import (
	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// State is the interaction lifecycle of the selected object.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateDragging
	StateTransforming
)

func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateDragging:
		return "dragging"
	case StateTransforming:
		return "transforming"
	default:
		return "idle"
	}
}

// State reports where the selected object is in its interaction lifecycle.
func (e *Editor) State() State {
	if e.selectedID == "" {
		return StateIdle
	}
	switch {
	case e.act.kind == actionDrag && e.act.started:
		return StateDragging
	case e.act.kind == actionTransform:
		return StateTransforming
	default:
		return StateSelected
	}
}

// Select makes id the only selected object. An empty id clears the
// selection. Unknown and locked ids leave the selection unchanged.
func (e *Editor) Select(id string) bool {
	if id == "" {
		e.Deselect()
		return true
	}
	o, ok := e.scene.Find(id)
	if !ok || o.Locked() {
		return false
	}
	if id != e.selectedID {
		e.finishInteraction()
		e.selectedID = id
	}
	return true
}

// Deselect clears the selection, committing any gesture in progress.
func (e *Editor) Deselect() {
	e.finishInteraction()
	e.selectedID = ""
}

// SelectionBox returns the unrotated bounding box of the selected object as
// currently shown, including a live preview.
func (e *Editor) SelectionBox() (scene.Rect, bool) {
	o, ok := e.shownSelection()
	if !ok {
		return scene.Rect{}, false
	}
	return o.Bounds(), true
}

// Handles returns the transform handles of the selection in canvas space.
// Locked objects have none.
func (e *Editor) Handles() []render.HandlePoint {
	o, ok := e.shownSelection()
	if !ok || o.Locked() {
		return nil
	}
	return render.Handles(o.Bounds(), o.X, o.Y, o.Rotation, e.zoom)
}

// shownSelection is the selected object with the live preview applied.
func (e *Editor) shownSelection() (scene.Object, bool) {
	if e.act.preview != nil && e.act.id == e.selectedID {
		return *e.act.preview, true
	}
	return e.Selected()
}

// Update applies a partial attribute update to id. Unknown ids and patches
// that change nothing are ignored.
func (e *Editor) Update(id string, p scene.Patch) bool {
	if e.act.id == id {
		e.finishInteraction()
	}
	if !e.commit(e.scene.Update(id, p)) {
		return false
	}
	if p.Src != nil {
		e.requestImages()
	}
	return true
}

// UpdateSelected applies p to the selected object.
func (e *Editor) UpdateSelected(p scene.Patch) bool {
	if e.selectedID == "" {
		return false
	}
	return e.Update(e.selectedID, p)
}

// Remove deletes id together with its layer name. Removing the selected
// object clears the selection.
func (e *Editor) Remove(id string) bool {
	if e.act.id == id {
		e.act = interaction{}
	}
	return e.commit(e.scene.Remove(id))
}

// RemoveSelected deletes the selected object.
func (e *Editor) RemoveSelected() bool {
	if e.selectedID == "" {
		return false
	}
	return e.Remove(e.selectedID)
}

// Clear removes every object.
func (e *Editor) Clear() bool {
	e.act = interaction{}
	e.selectedID = ""
	return e.commit(e.scene.Clear())
}

// SetBackground replaces the background image. An empty source removes it.
func (e *Editor) SetBackground(src string) bool {
	if src == e.background {
		return false
	}
	e.background = src
	e.requestImages()
	e.observer.SceneChanged(true)
	return true
}

// SetBackgroundColor replaces the canvas colour drawn beneath everything.
func (e *Editor) SetBackgroundColor(color string) bool {
	if color == e.backgroundColor {
		return false
	}
	e.backgroundColor = color
	e.observer.SceneChanged(true)
	return true
}
