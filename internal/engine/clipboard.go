package engine

import "github.com/invitely/invitely/editor-go/internal/scene"

// Copy puts the selected object into the single-slot clipboard.
func (e *Editor) Copy() bool {
	o, ok := e.Selected()
	if !ok {
		return false
	}
	c := o.Clone()
	e.clipboard = &c
	return true
}

// HasClipboard reports whether Paste has something to insert.
func (e *Editor) HasClipboard() bool { return e.clipboard != nil }

// Paste inserts the clipboard object under a fresh id, offset from where it
// was copied, and selects it unless it is locked. Returns the new id.
func (e *Editor) Paste() (string, bool) {
	if e.clipboard == nil {
		return "", false
	}
	return e.insertCopy(*e.clipboard)
}

// Duplicate copies the selected object in place, offset like Paste.
func (e *Editor) Duplicate() (string, bool) {
	o, ok := e.Selected()
	if !ok {
		return "", false
	}
	return e.insertCopy(o)
}

func (e *Editor) insertCopy(src scene.Object) (string, bool) {
	o := src.Clone()
	o.ID = e.opts.NewID(o.Type())
	o.X += e.opts.PasteOffset
	o.Y += e.opts.PasteOffset
	return e.insert(o)
}

// insert adds o on top of the scene and selects it. Locked objects are
// never selected, so the selection is cleared instead.
func (e *Editor) insert(o scene.Object) (string, bool) {
	e.finishInteraction()
	if !e.commit(e.scene.Add(o)) {
		return "", false
	}
	e.selectedID = ""
	if !o.Locked() {
		e.selectedID = o.ID
	}
	if img, ok := o.Shape.(scene.Image); ok && img.Src != "" {
		if e.images.Request(img.Src) {
			e.observer.ImageNeeded(img.Src)
		}
	}
	return o.ID, true
}
