package engine

import "github.com/invitely/invitely/editor-go/internal/history"

// PushHistory records the committed state. Pushes identical to the current
// entry are dropped. A gesture in progress is not part of the entry.
func (e *Editor) PushHistory() bool {
	return e.history.Push(e.entry())
}

// Undo restores the previous history entry. State committed since the last
// push is recorded first so it can be redone.
func (e *Editor) Undo() bool {
	e.finishInteraction()
	e.PushHistory()
	entry, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(entry)
	return true
}

// Redo moves forward to the next history entry.
func (e *Editor) Redo() bool {
	e.finishInteraction()
	e.PushHistory()
	entry, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(entry)
	return true
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

func (e *Editor) restore(entry history.Entry) {
	e.act = interaction{}
	e.scene = entry.Scene
	e.background = entry.Background
	e.backgroundColor = entry.BackgroundColor
	// A rename made since the snapshot wins; objects that come back get
	// the name they had.
	for id, n := range entry.Names {
		if _, ok := e.names[id]; !ok {
			e.names[id] = n
		}
	}
	e.pruneSelection()
	e.requestImages()
	e.observer.SceneChanged(false)
}
