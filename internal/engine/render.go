package engine

import (
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// Render draws the canvas as currently shown: the committed scene with the
// live preview substituted, then the selection overlay on top.
func (e *Editor) Render() render.Surface {
	shown := e.scene
	if e.act.preview != nil {
		shown = shown.Set(*e.act.preview)
	}

	commands := render.Build(render.Input{
		Scene:      shown,
		SelectedID: e.selectedID,
		FontFamily: e.fontFamily,
		Background: e.background,
		Width:      e.width,
		Height:     e.height,
		Images:     e.images,
	})

	if o, ok := shown.Find(e.selectedID); ok && o.Visible && !o.Locked() {
		commands = append(commands, render.SelectionOverlay(o, o.Bounds(), e.zoom)...)
	}
	if commands == nil {
		commands = []render.DrawCommand{}
	}

	return render.Surface{
		Width:      e.width,
		Height:     e.height,
		Background: e.backgroundColor,
		Zoom:       e.zoom,
		PanX:       e.panX,
		PanY:       e.panY,
		Commands:   commands,
	}
}

// HitTest returns the topmost object under the screen point (x, y).
func (e *Editor) HitTest(x, y float64) string {
	cx, cy := e.toCanvas(x, y)
	return render.HitTest(e.scene, cx, cy)
}

// RenderData renders a stored canvas with no selection at zoom 1.
func RenderData(data document.CanvasData, images *render.ImageCache) render.Surface {
	commands := render.Build(render.Input{
		Scene:      scene.FromObjects(data.Objects),
		Background: data.BackgroundImage,
		Width:      data.Width,
		Height:     data.Height,
		Images:     images,
	})
	if commands == nil {
		commands = []render.DrawCommand{}
	}
	return render.Surface{
		Width:      data.Width,
		Height:     data.Height,
		Background: data.BackgroundColor,
		Zoom:       1,
		Commands:   commands,
	}
}
