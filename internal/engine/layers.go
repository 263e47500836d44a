package engine

import "github.com/invitely/invitely/editor-go/internal/scene"

// Layer is one row of the layer panel.
type Layer struct {
	ID       string     `json:"id"`
	Type     scene.Type `json:"type"`
	Name     string     `json:"name"`
	Visible  bool       `json:"visible"`
	Locked   bool       `json:"locked"`
	Selected bool       `json:"selected"`
}

// Layers lists the scene top-first, the order the panel shows it.
func (e *Editor) Layers() []Layer {
	n := e.scene.Len()
	out := make([]Layer, 0, n)
	for i := n - 1; i >= 0; i-- {
		o := e.scene.At(i)
		out = append(out, Layer{
			ID:       o.ID,
			Type:     o.Type(),
			Name:     e.LayerName(o.ID),
			Visible:  o.Visible,
			Locked:   o.Locked(),
			Selected: o.ID == e.selectedID,
		})
	}
	return out
}

// LayerName returns the custom name of id, or one derived from the object.
func (e *Editor) LayerName(id string) string {
	if n, ok := e.names[id]; ok {
		return n
	}
	if o, ok := e.scene.Find(id); ok {
		return o.DisplayName()
	}
	return ""
}

// RenameLayer sets a custom name. An empty name restores the derived one.
func (e *Editor) RenameLayer(id, name string) bool {
	if _, ok := e.scene.Find(id); !ok {
		return false
	}
	if name == "" {
		if _, ok := e.names[id]; !ok {
			return false
		}
		delete(e.names, id)
	} else {
		if e.names[id] == name {
			return false
		}
		e.names[id] = name
	}
	e.history.SetNames(copyNames(e.names))
	e.observer.SceneChanged(false)
	return true
}

func (e *Editor) MoveUp(id string) bool   { return e.layerOp(id, scene.Scene.MoveUp) }
func (e *Editor) MoveDown(id string) bool { return e.layerOp(id, scene.Scene.MoveDown) }

// BringToFront and SendToBack move id to either end of the stack.
func (e *Editor) BringToFront(id string) bool { return e.layerOp(id, scene.Scene.BringToFront) }
func (e *Editor) SendToBack(id string) bool   { return e.layerOp(id, scene.Scene.SendToBack) }

// ToggleVisible hides or shows id without losing its opacity.
func (e *Editor) ToggleVisible(id string) bool { return e.layerOp(id, scene.Scene.ToggleVisible) }

// ToggleLock flips whether id can be selected and moved. Locking the
// selected object keeps it selected but drops its handles.
func (e *Editor) ToggleLock(id string) bool { return e.layerOp(id, scene.Scene.ToggleLock) }

func (e *Editor) layerOp(id string, op func(scene.Scene, string) scene.Scene) bool {
	if e.act.id == id {
		e.finishInteraction()
	}
	return e.commit(op(e.scene, id))
}
