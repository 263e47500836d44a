package engine

import (
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/gesture"
	"github.com/invitely/invitely/editor-go/internal/history"
	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Observer is notified of state changes the editor cannot act on itself.
// Calls happen synchronously on the editor's goroutine.
type Observer interface {
	// SceneChanged reports a committed change to the document. record is
	// false for undo and redo, which must not push a new history entry.
	SceneChanged(record bool)
	// ImageNeeded asks for src to be decoded into the image cache.
	ImageNeeded(src string)
}

type nopObserver struct{}

func (nopObserver) SceneChanged(bool)  {}
func (nopObserver) ImageNeeded(string) {}

// Editor is the editing session state container. Every mutation goes
// through a method; fields are never written from outside.
//
// Editor is not safe for concurrent use. Session serializes access.
type Editor struct {
	opts Options

	scene           scene.Scene
	selectedID      string
	background      string
	backgroundColor string
	width           float64
	height          float64
	names           map[string]string

	fontFamily string
	fill       FillMode

	zoom float64
	panX float64
	panY float64

	clipboard *scene.Object

	history  *history.History
	images   *render.ImageCache
	gestures *gesture.Tracker

	act      interaction
	observer Observer
}

// New creates an editor over an empty scene.
func New(opts Options) *Editor {
	opts = opts.withDefaults()
	g := gesture.NewTracker()
	g.DeadZone = opts.DeadZone
	e := &Editor{
		opts:       opts,
		width:      opts.Width,
		height:     opts.Height,
		names:      map[string]string{},
		fontFamily: opts.FontFamily,
		fill:       DefaultFillMode(),
		zoom:       1,
		history:    history.New(opts.HistoryLimit),
		images:     render.NewImageCache(),
		gestures:   g,
		observer:   nopObserver{},
	}
	e.history.Reset(e.entry())
	return e
}

// SetObserver installs the change observer. A nil observer disables
// notifications.
func (e *Editor) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
}

// Load replaces the whole session with data, as done once at mount. The
// history restarts with data as its only entry.
func (e *Editor) Load(data document.CanvasData) {
	e.scene = scene.FromObjects(data.Objects)
	e.background = data.BackgroundImage
	e.backgroundColor = data.BackgroundColor
	if data.Width > 0 {
		e.width = data.Width
	}
	if data.Height > 0 {
		e.height = data.Height
	}
	e.names = map[string]string{}
	for id, n := range data.Names {
		if _, ok := e.scene.Find(id); ok && n != "" {
			e.names[id] = n
		}
	}
	e.selectedID = ""
	e.clipboard = nil
	e.act = interaction{}
	e.gestures.Reset()
	e.history.Reset(e.entry())

	// Nothing from the previous canvas can come back after a load.
	keep := make(map[string]bool)
	for _, src := range e.imageSources() {
		keep[src] = true
	}
	e.images.Retain(keep)
	e.requestImages()
}

// Data returns the save payload for the committed state.
func (e *Editor) Data() document.CanvasData {
	names := copyNames(e.names)
	return document.CanvasData{
		Objects:         e.scene.Objects(),
		Width:           e.width,
		Height:          e.height,
		BackgroundImage: e.background,
		BackgroundColor: e.backgroundColor,
		Names:           names,
	}
}

// Scene returns the committed scene.
func (e *Editor) Scene() scene.Scene { return e.scene }

// SelectedID returns the selected object id, or "".
func (e *Editor) SelectedID() string { return e.selectedID }

// Selected returns the selected object.
func (e *Editor) Selected() (scene.Object, bool) {
	if e.selectedID == "" {
		return scene.Object{}, false
	}
	return e.scene.Find(e.selectedID)
}

func (e *Editor) Size() (float64, float64) { return e.width, e.height }

func (e *Editor) Background() string      { return e.background }
func (e *Editor) BackgroundColor() string { return e.backgroundColor }

// Zoom returns the view scale.
func (e *Editor) Zoom() float64 { return e.zoom }

// Pan returns the view offset in screen pixels.
func (e *Editor) Pan() (float64, float64) { return e.panX, e.panY }

func (e *Editor) FontFamily() string { return e.fontFamily }

// Images exposes the decode cache so callers can resolve requested sources.
func (e *Editor) Images() *render.ImageCache { return e.images }

// History exposes the undo stack for inspection.
func (e *Editor) History() *history.History { return e.history }

// commit installs next as the committed scene and notifies the observer.
// Unchanged scenes are ignored.
func (e *Editor) commit(next scene.Scene) bool {
	if next.Same(e.scene) {
		return false
	}
	e.scene = next
	e.pruneSelection()
	e.observer.SceneChanged(true)
	return true
}

// pruneSelection drops the selection and per-object UI state whose object
// no longer exists.
func (e *Editor) pruneSelection() {
	if e.selectedID != "" {
		if _, ok := e.scene.Find(e.selectedID); !ok {
			e.selectedID = ""
			e.act = interaction{}
		}
	}
	for id := range e.names {
		if _, ok := e.scene.Find(id); !ok {
			delete(e.names, id)
		}
	}
}

func (e *Editor) entry() history.Entry {
	return history.Entry{
		Scene:           e.scene,
		Background:      e.background,
		BackgroundColor: e.backgroundColor,
		Names:           copyNames(e.names),
		Time:            e.opts.Now(),
	}
}

func copyNames(names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for id, n := range names {
		out[id] = n
	}
	return out
}

// requestImages asks the observer for every image source that has not been
// requested yet, including the background.
func (e *Editor) requestImages() {
	for _, src := range e.imageSources() {
		if e.images.Request(src) {
			e.observer.ImageNeeded(src)
		}
	}
}

// imageSources lists the background and every image object source.
func (e *Editor) imageSources() []string {
	var srcs []string
	if e.background != "" {
		srcs = append(srcs, e.background)
	}
	for i := 0; i < e.scene.Len(); i++ {
		if img, ok := e.scene.At(i).Shape.(scene.Image); ok && img.Src != "" {
			srcs = append(srcs, img.Src)
		}
	}
	return srcs
}
