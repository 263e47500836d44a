// Package history keeps a bounded, linear undo/redo stack of editor
// snapshots.
package history

import (
	"time"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

// DefaultLimit is the stack depth used when none is configured.
const DefaultLimit = 50

// Entry is one snapshot. Scenes are immutable, so holding one is a deep copy.
// Names is owned by the entry and must not be modified after a push.
type Entry struct {
	Scene           scene.Scene
	Background      string
	BackgroundColor string
	Names           map[string]string
	Time            time.Time
}

// Equal reports whether both entries hold the same editor state. Layer names
// are carried along but never make an entry distinct.
func (e Entry) Equal(o Entry) bool {
	return e.Background == o.Background && e.BackgroundColor == o.BackgroundColor &&
		e.Scene.Equal(o.Scene)
}

// History is a linear stack with a current pointer. Pushing after an undo
// discards every entry past the pointer.
type History struct {
	entries []Entry
	index   int // current entry, -1 if empty
	limit   int
}

// New creates a history holding at most limit entries.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{index: -1, limit: limit}
}

// Push records e as the newest entry. A push identical to the current entry
// is dropped and Push returns false; only its names are kept.
func (h *History) Push(e Entry) bool {
	if h.index >= 0 && h.entries[h.index].Equal(e) {
		h.entries[h.index].Names = e.Names
		return false
	}

	// Drop the redo branch.
	h.entries = append(h.entries[:h.index+1:h.index+1], e)

	// Evict oldest first.
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]Entry(nil), h.entries[over:]...)
	}
	h.index = len(h.entries) - 1
	return true
}

// Undo moves the pointer back one entry and returns it. It is a no-op at
// the earliest entry.
func (h *History) Undo() (Entry, bool) {
	if h.index <= 0 {
		return Entry{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo moves the pointer forward one entry and returns it. It is a no-op
// at the latest entry.
func (h *History) Redo() (Entry, bool) {
	if h.index < 0 || h.index >= len(h.entries)-1 {
		return Entry{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry under the pointer.
func (h *History) Current() (Entry, bool) {
	if h.index < 0 {
		return Entry{}, false
	}
	return h.entries[h.index], true
}

// SetNames replaces the layer names carried by the current entry.
func (h *History) SetNames(names map[string]string) {
	if h.index >= 0 {
		h.entries[h.index].Names = names
	}
}

// CanUndo reports whether Undo would move the pointer.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move the pointer.
func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the current pointer, -1 when empty.
func (h *History) Index() int { return h.index }

// Reset clears the stack and seeds it with e.
func (h *History) Reset(e Entry) {
	h.entries = []Entry{e}
	h.index = 0
}
