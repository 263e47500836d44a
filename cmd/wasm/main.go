//go:build js && wasm

package main

import (
	"encoding/json"
	"net/http"
	"syscall/js"

	"github.com/invitely/invitely/editor-go/internal/asset"
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/engine"
	"github.com/invitely/invitely/editor-go/internal/live"
)

var (
	sess     *engine.Session
	onRender js.Value
	onSave   js.Value
)

func main() {
	// Remote images go through the browser fetch transport, under the
	// page's own network rules.
	resolver := asset.NewResolver("", asset.WithHTTPClient(http.DefaultClient))
	opts := engine.SessionOptions{
		Editor:   engine.DefaultOptions(),
		Resolver: resolver,
		Save: func(d document.CanvasData) {
			if onSave.Type() == js.TypeFunction {
				onSave.Invoke(toJSON(d))
			}
		},
		Invalidate: func(e *engine.Editor) {
			if onRender.Type() == js.TypeFunction {
				onRender.Invoke(toJSON(live.Snapshot(e)))
			}
		},
	}
	sess = engine.NewSession(document.CanvasData{}, opts)

	// Create the editor API object
	editor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	editor.Set("setCallbacks", js.FuncOf(setCallbacks))
	editor.Set("loadCanvas", js.FuncOf(loadCanvas))
	editor.Set("pointer", js.FuncOf(pointer))
	editor.Set("wheel", js.FuncOf(wheel))
	editor.Set("key", js.FuncOf(key))
	editor.Set("command", js.FuncOf(command))
	editor.Set("saveNow", js.FuncOf(saveNow))

	// --- Queries (frontend ← editor) ---
	editor.Set("render", js.FuncOf(render))
	editor.Set("hitTest", js.FuncOf(hitTest))
	editor.Set("getCanvas", js.FuncOf(getCanvas))
	editor.Set("getTemplates", js.FuncOf(getTemplates))
	editor.Set("getDecorations", js.FuncOf(getDecorations))

	// Register on global scope
	js.Global().Set("invitelyEditor", editor)

	// Signal that WASM is ready
	js.Global().Set("invitelyWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"marshal failed"}`
	}
	return string(data)
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// withRender runs fn on the session loop and returns the new render as JSON.
func withRender(fn func(e *engine.Editor)) interface{} {
	var out string
	if err := sess.Do(func(e *engine.Editor) {
		fn(e)
		out = toJSON(live.Snapshot(e))
	}); err != nil {
		return fail(err)
	}
	return js.ValueOf(out)
}

// --- Command Handlers ---

func setCallbacks(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 {
		onRender = args[0]
	}
	if len(args) > 1 {
		onSave = args[1]
	}
	return nil
}

func loadCanvas(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing canvas JSON"})
	}
	data, err := document.Parse([]byte(args[0].String()))
	if err != nil {
		return fail(err)
	}
	if err := sess.Load(data); err != nil {
		return fail(err)
	}
	return ok()
}

func pointer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	var p live.PointerPayload
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return fail(err)
	}
	ev, err := p.Event()
	if err != nil {
		return fail(err)
	}
	return withRender(func(e *engine.Editor) { e.Pointer(ev, p.Modifiers) })
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	x, y, dy := args[0].Float(), args[1].Float(), args[2].Float()
	return withRender(func(e *engine.Editor) { e.Wheel(x, y, dy) })
}

func key(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	var ev engine.KeyEvent
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return fail(err)
	}
	handled := false
	if err := sess.Do(func(e *engine.Editor) { handled = e.Key(ev) }); err != nil {
		return fail(err)
	}
	return js.ValueOf(handled)
}

func command(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing command JSON"})
	}
	cmd, err := engine.ParseCommand([]byte(args[0].String()))
	if err != nil {
		return fail(err)
	}
	var (
		res    engine.Result
		cmdErr error
	)
	if err := sess.Do(func(e *engine.Editor) { res, cmdErr = e.Apply(cmd) }); err != nil {
		return fail(err)
	}
	if cmdErr != nil {
		return fail(cmdErr)
	}
	return js.ValueOf(toJSON(res))
}

func saveNow(this js.Value, args []js.Value) interface{} {
	if err := sess.SaveNow(); err != nil {
		return fail(err)
	}
	return ok()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return withRender(func(*engine.Editor) {})
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x, y := args[0].Float(), args[1].Float()
	var id string
	sess.Do(func(e *engine.Editor) { id = e.HitTest(x, y) })
	return js.ValueOf(id)
}

func getCanvas(this js.Value, args []js.Value) interface{} {
	var out string
	if err := sess.Do(func(e *engine.Editor) { out = toJSON(e.Data()) }); err != nil {
		return fail(err)
	}
	return js.ValueOf(out)
}

func getTemplates(this js.Value, args []js.Value) interface{} {
	var query, category string
	if len(args) > 0 && args[0].Type() == js.TypeString {
		query = args[0].String()
	}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		category = args[1].String()
	}
	return js.ValueOf(toJSON(document.Templates(query, document.Category(category))))
}

func getDecorations(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(document.Decorations()))
}
