package engine

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/invitely/invitely/editor-go/internal/debounce"
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
)

// fakeClock is a manual clock safe to schedule from the session loop while
// the test goroutine advances it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	at    time.Duration
	f     func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.done
	t.done = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type saves struct {
	mu   sync.Mutex
	data []document.CanvasData
}

func (s *saves) save(d document.CanvasData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, d)
}

func (s *saves) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *saves) last() document.CanvasData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[len(s.data)-1]
}

func newTestSession(t *testing.T, data document.CanvasData, opts SessionOptions) (*Session, *fakeClock, *saves) {
	t.Helper()
	clock := &fakeClock{}
	sv := &saves{}
	opts.Editor = testOptions()
	opts.AfterFunc = clock.AfterFunc
	opts.Save = sv.save
	s := NewSession(data, opts)
	t.Cleanup(s.Close)
	return s, clock, sv
}

// settle waits until everything posted so far has run.
func settle(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Do(func(*Editor) {}); err != nil {
		t.Fatal(err)
	}
}

func TestSessionDebouncesSave(t *testing.T) {
	s, clock, sv := newTestSession(t, document.CanvasData{}, SessionOptions{})

	var id string
	for i := 0; i < 5; i++ {
		if i > 0 {
			clock.Advance(200 * time.Millisecond)
		}
		s.Do(func(e *Editor) {
			if id == "" {
				id, _ = e.AddShape(ShapeRect)
				return
			}
			e.Update(id, scene.Move(float64(i), 0))
		})
	}
	settle(t, s)
	if sv.count() != 0 {
		t.Fatalf("saved during the burst: %d", sv.count())
	}

	clock.Advance(999 * time.Millisecond)
	settle(t, s)
	if sv.count() != 0 {
		t.Fatal("saved before the quiet period elapsed")
	}
	clock.Advance(time.Millisecond)
	settle(t, s)
	if sv.count() != 1 {
		t.Fatalf("saves = %d, want 1", sv.count())
	}
	got := sv.last()
	if len(got.Objects) != 1 || got.Objects[0].X != 4 {
		t.Fatalf("saved = %+v", got.Objects)
	}
	if got.Width != 1080 || got.Height != 1800 {
		t.Errorf("size = %vx%v", got.Width, got.Height)
	}
}

func TestSessionDebouncesHistory(t *testing.T) {
	s, clock, _ := newTestSession(t, document.CanvasData{}, SessionOptions{})

	var id string
	s.Do(func(e *Editor) { id, _ = e.AddShape(ShapeRect) })
	for i := 0; i < 10; i++ {
		s.Do(func(e *Editor) { e.Update(id, scene.Move(float64(i), 0)) })
		clock.Advance(100 * time.Millisecond)
	}
	clock.Advance(500 * time.Millisecond)
	settle(t, s)

	var entries int
	s.Do(func(e *Editor) { entries = e.History().Len() })
	if entries != 2 {
		t.Fatalf("entries = %d, want the initial state plus one settled push", entries)
	}
}

func TestSessionCloseDropsPendingWork(t *testing.T) {
	s, clock, sv := newTestSession(t, document.CanvasData{}, SessionOptions{})
	s.Do(func(e *Editor) { e.AddShape(ShapeCircle) })

	s.Close()
	clock.Advance(time.Hour)
	if sv.count() != 0 {
		t.Fatal("saved after close")
	}
	if err := s.Do(func(*Editor) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("loop still running")
	}
}

func TestSessionFlushAndSaveNow(t *testing.T) {
	s, _, sv := newTestSession(t, document.CanvasData{}, SessionOptions{})

	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if sv.count() != 0 {
		t.Fatal("flush saved a settled session")
	}

	s.Do(func(e *Editor) { e.AddShape(ShapeStar) })
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if sv.count() != 1 {
		t.Fatalf("saves = %d", sv.count())
	}
	if err := s.SaveNow(); err != nil {
		t.Fatal(err)
	}
	if sv.count() != 2 {
		t.Fatalf("saves = %d", sv.count())
	}
}

type stubResolver struct {
	release chan struct{}
	err     error
}

func (r stubResolver) Resolve(ctx context.Context, src string) (image.Image, error) {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func imageData() document.CanvasData {
	return document.CanvasData{Objects: []scene.Object{
		scene.New("img", 0, 0, scene.Image{Src: "cat.png", Width: 40, Height: 40}),
	}}
}

func TestSessionResolvesImages(t *testing.T) {
	invalidated := make(chan render.ImageState, 1)
	s, _, _ := newTestSession(t, imageData(), SessionOptions{
		Resolver: stubResolver{},
		Invalidate: func(e *Editor) {
			invalidated <- e.Images().State("cat.png")
		},
	})

	select {
	case st := <-invalidated:
		if st != render.ImageReady {
			t.Fatalf("state = %v", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("image never resolved")
	}

	var drawn bool
	s.Do(func(e *Editor) {
		for _, c := range e.Render().Commands {
			if c.Op == render.OpImage && c.ObjectID == "img" {
				drawn = true
			}
		}
	})
	if !drawn {
		t.Fatal("resolved image not drawn")
	}
}

func TestSessionDecodeFailureKeepsObject(t *testing.T) {
	invalidated := make(chan struct{}, 1)
	s, _, _ := newTestSession(t, imageData(), SessionOptions{
		Resolver:   stubResolver{err: errors.New("corrupt")},
		Invalidate: func(*Editor) { invalidated <- struct{}{} },
	})

	select {
	case <-invalidated:
	case <-time.After(5 * time.Second):
		t.Fatal("failure never reported")
	}
	s.Do(func(e *Editor) {
		if e.Images().State("cat.png") != render.ImageFailed {
			t.Errorf("state = %v", e.Images().State("cat.png"))
		}
		if e.Scene().Len() != 1 {
			t.Error("failed image removed from the scene")
		}
	})
}

func TestSessionDecodeAfterCloseIgnored(t *testing.T) {
	release := make(chan struct{})
	called := make(chan struct{}, 1)
	s, _, _ := newTestSession(t, imageData(), SessionOptions{
		Resolver:   stubResolver{release: release},
		Invalidate: func(*Editor) { called <- struct{}{} },
	})

	s.Close()
	close(release)

	select {
	case <-called:
		t.Fatal("decode result applied after close")
	case <-time.After(50 * time.Millisecond):
	}
	if st := s.editor.Images().State("cat.png"); st != render.ImagePending {
		t.Fatalf("state = %v", st)
	}
}

func TestSessionSurvivesPanickingWork(t *testing.T) {
	s, _, _ := newTestSession(t, document.CanvasData{}, SessionOptions{})

	if err := s.Do(func(*Editor) { panic("boom") }); !errors.Is(err, ErrPanicked) {
		t.Fatalf("err = %v", err)
	}
	var id string
	if err := s.Do(func(e *Editor) { id, _ = e.AddShape(ShapeRect) }); err != nil {
		t.Fatalf("loop stopped after a panic: %v", err)
	}
	if id == "" {
		t.Fatal("work after the panic did not run")
	}
}

func TestSessionFlushAfterTimerSavesOnce(t *testing.T) {
	s, clock, sv := newTestSession(t, document.CanvasData{}, SessionOptions{})
	s.Do(func(e *Editor) { e.AddShape(ShapeCircle) })

	// The debounced save is posted to the loop, racing the flush below.
	clock.Advance(time.Second)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if sv.count() != 1 {
		t.Fatalf("saves after flush = %d", sv.count())
	}
	settle(t, s)
	if sv.count() != 1 {
		t.Fatalf("saves = %d, want 1", sv.count())
	}
}
