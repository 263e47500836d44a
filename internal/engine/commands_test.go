package engine

import (
	"errors"
	"testing"

	"github.com/invitely/invitely/editor-go/internal/scene"
)

func TestKeyboardShortcuts(t *testing.T) {
	e, _ := newTestEditor(t)
	id, _ := e.AddShape(ShapeRect)
	e.PushHistory()

	ctrl := func(k string) KeyEvent { return KeyEvent{Key: k, Modifiers: Modifiers{Ctrl: true}} }

	if !e.Key(ctrl("c")) || !e.HasClipboard() {
		t.Fatal("ctrl+c")
	}
	e.Key(ctrl("v"))
	if e.Scene().Len() != 2 {
		t.Fatalf("after paste len = %d", e.Scene().Len())
	}
	e.Key(KeyEvent{Key: "D", Modifiers: Modifiers{Meta: true}})
	if e.Scene().Len() != 3 {
		t.Fatalf("after duplicate len = %d", e.Scene().Len())
	}

	e.Key(ctrl("z"))
	if e.Scene().Len() != 1 {
		t.Fatalf("after undo len = %d", e.Scene().Len())
	}
	e.Key(KeyEvent{Key: "z", Modifiers: Modifiers{Ctrl: true, Shift: true}})
	if e.Scene().Len() != 3 {
		t.Fatalf("after redo len = %d", e.Scene().Len())
	}
	e.Key(ctrl("z"))
	e.Key(ctrl("y"))
	if e.Scene().Len() != 3 {
		t.Fatalf("after ctrl+y len = %d", e.Scene().Len())
	}

	e.Select(id)
	e.Key(KeyEvent{Key: "ArrowRight"})
	e.Key(KeyEvent{Key: "ArrowDown", Modifiers: Modifiers{Shift: true}})
	o, _ := e.Scene().Find(id)
	if o.X != 501 || o.Y != 870 {
		t.Fatalf("nudged to (%v, %v)", o.X, o.Y)
	}

	e.Key(KeyEvent{Key: "Delete"})
	if _, ok := e.Scene().Find(id); ok || e.SelectedID() != "" {
		t.Fatal("delete")
	}

	if e.Key(KeyEvent{Key: "q"}) {
		t.Error("unbound key reported as handled")
	}
}

func TestKeysFromTextInputsIgnored(t *testing.T) {
	e, _ := newTestEditor(t)
	id, _ := e.AddText(TextBody)

	if e.Key(KeyEvent{Key: "Backspace", TextInput: true}) {
		t.Fatal("handled a key meant for a text field")
	}
	if _, ok := e.Scene().Find(id); !ok {
		t.Fatal("backspace in a text field deleted the object")
	}
	e.Key(KeyEvent{Key: "Escape"})
	if e.SelectedID() != "" {
		t.Fatal("escape kept the selection")
	}
}

func TestApplyUpdateFromJSON(t *testing.T) {
	e, _ := newTestEditor(t, square("r", 0, 0, 10))

	cmd, err := ParseCommand([]byte(`{"type":"object.update","objectId":"r","attrs":{"x":12,"fill":"#ff0000","opacity":0.5}}`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Apply(cmd)
	if err != nil || !res.Changed {
		t.Fatalf("apply = %+v, %v", res, err)
	}
	o, _ := e.Scene().Find("r")
	if o.X != 12 || o.Fill.Color != "#ff0000" || o.Opacity != 0.5 {
		t.Fatalf("object = %+v", o)
	}
}

func TestApplyCreatesAndUndoes(t *testing.T) {
	e, _ := newTestEditor(t)

	steps := []string{
		`{"type":"tool.shape","shape":"star"}`,
		`{"type":"tool.text","style":"title"}`,
		`{"type":"tool.decoration","glyph":"🎈"}`,
		`{"type":"layer.back"}`,
	}
	var lastID string
	for _, raw := range steps {
		cmd, err := ParseCommand([]byte(raw))
		if err != nil {
			t.Fatal(err)
		}
		res, err := e.Apply(cmd)
		if err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if res.ObjectID != "" {
			lastID = res.ObjectID
		}
	}
	if e.Scene().Len() != 3 {
		t.Fatalf("len = %d", e.Scene().Len())
	}
	// layer.back targets the selection, the decoration.
	if e.Scene().At(0).ID != lastID {
		t.Fatalf("order = %v", e.Scene().IDs())
	}

	if _, err := e.Apply(Command{Type: CmdUndo}); err != nil {
		t.Fatal(err)
	}
	if e.Scene().Len() != 0 {
		t.Fatalf("undo of unpushed edits left %d objects", e.Scene().Len())
	}
}

func TestApplyFrameNull(t *testing.T) {
	img := scene.New("img", 0, 0, scene.Image{Src: "a.png", Width: 10, Height: 10})
	img.Frame = &scene.Frame{Type: scene.FrameSquare, Color: "#ffffff", Thickness: 2}
	e, _ := newTestEditor(t, img)

	cmd, err := ParseCommand([]byte(`{"type":"object.update","objectId":"img","attrs":{"frame":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Apply(cmd); err != nil {
		t.Fatal(err)
	}
	if o, _ := e.Scene().Find("img"); o.Frame != nil {
		t.Fatalf("frame = %+v", o.Frame)
	}
}

func TestApplyErrors(t *testing.T) {
	e, _ := newTestEditor(t)

	if _, err := e.Apply(Command{Type: "bogus"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.Apply(Command{Type: CmdUpdate, ObjectID: "x"}); err == nil {
		t.Fatal("update without attrs accepted")
	}
	if _, err := ParseCommand([]byte(`{`)); err == nil {
		t.Fatal("bad json accepted")
	}
	// Stale ids are a silent no-op.
	res, err := e.Apply(Command{Type: CmdDelete, ObjectID: "gone"})
	if err != nil || res.Changed {
		t.Fatalf("delete stale = %+v, %v", res, err)
	}
}
