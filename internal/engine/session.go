package engine

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/invitely/invitely/editor-go/internal/debounce"
	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/typeid"
)

var (
	// ErrClosed is returned for work submitted to a closed session.
	ErrClosed = errors.New("session closed")
	// ErrPanicked is returned by Do when the work panicked. The session
	// stays mounted.
	ErrPanicked = errors.New("session work panicked")
)

// Resolver decodes an image source into a bitmap.
type Resolver interface {
	Resolve(ctx context.Context, src string) (image.Image, error)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Editor Options

	SaveDelay    time.Duration
	HistoryDelay time.Duration
	// AfterFunc schedules both debouncers. Defaults to time.AfterFunc.
	AfterFunc debounce.AfterFunc

	// Save receives the canvas once edits settle. Failures are the
	// callee's concern; the session never retries.
	Save func(document.CanvasData)
	// Resolver decodes image sources. Without one images never draw.
	Resolver Resolver
	// Invalidate runs on the loop when the rendering changed without an
	// input, such as a decoded image arriving. It must not call Do.
	Invalidate func(e *Editor)

	Logger *slog.Logger
}

// Session is a mounted editor. It owns an Editor and a single event loop;
// every input, debounced callback and decode result runs on that loop, so
// the Editor is only ever touched by one goroutine.
type Session struct {
	id     string
	editor *Editor
	opts   SessionOptions
	log    *slog.Logger

	save  *debounce.Debouncer
	hist  *debounce.Debouncer
	dirty bool // edits not yet handed to Save; loop only

	ctx    context.Context
	cancel context.CancelFunc
	work   chan func()
	done   chan struct{}

	closeOnce sync.Once
}

// NewSession mounts an editor loaded with data and starts its loop.
func NewSession(data document.CanvasData, opts SessionOptions) *Session {
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = time.Second
	}
	if opts.HistoryDelay <= 0 {
		opts.HistoryDelay = 500 * time.Millisecond
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = debounce.RealAfterFunc
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     typeid.NewSessionID(),
		editor: New(opts.Editor),
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		work:   make(chan func(), 64),
		done:   make(chan struct{}),
	}
	s.log = opts.Logger.With("session", s.id)
	s.save = debounce.New(opts.SaveDelay, func() { s.post(s.saveDirty) }, debounce.WithAfterFunc(opts.AfterFunc))
	s.hist = debounce.New(opts.HistoryDelay, func() { s.post(s.pushHistory) }, debounce.WithAfterFunc(opts.AfterFunc))

	s.editor.SetObserver(s)
	s.editor.Load(data)

	go s.run()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.work:
			if s.ctx.Err() != nil {
				return
			}
			s.exec(fn)
		}
	}
}

// exec runs one unit of loop work. A panic is logged and the loop keeps
// serving; the editor state is whatever the work left behind.
func (s *Session) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("session work panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// post queues fn on the loop. It reports false once the session is closed.
func (s *Session) post(fn func()) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case <-s.ctx.Done():
		return false
	case s.work <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish.
func (s *Session) Do(fn func(e *Editor)) error {
	finished := make(chan struct{})
	panicked := true
	if !s.post(func() {
		defer close(finished)
		fn(s.editor)
		panicked = false
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		if panicked {
			return ErrPanicked
		}
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Load replaces the mounted canvas. Pending saves and history pushes of the
// previous canvas are dropped.
func (s *Session) Load(data document.CanvasData) error {
	return s.Do(func(e *Editor) {
		s.save.Cancel()
		s.hist.Cancel()
		s.dirty = false
		e.Load(data)
	})
}

// SaveNow records and saves pending edits immediately instead of waiting
// for the quiet period.
func (s *Session) SaveNow() error {
	return s.Do(func(*Editor) {
		if s.hist.Pending() {
			s.hist.Cancel()
			s.pushHistory()
		}
		s.save.Cancel()
		s.saveNow()
	})
}

// Flush records and saves edits that have not been saved yet. Nothing
// happens when the session is already settled.
func (s *Session) Flush() error {
	return s.Do(func(*Editor) {
		if s.hist.Pending() {
			s.hist.Cancel()
			s.pushHistory()
		}
		s.save.Cancel()
		s.saveDirty()
	})
}

// Close unmounts the session. Pending saves, history pushes and image
// decodes are dropped and later work is refused.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.save.Stop()
		s.hist.Stop()
		<-s.done
		s.log.Debug("session closed")
	})
}

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) saveNow() {
	if s.opts.Save == nil {
		return
	}
	data := s.editor.Data()
	s.dirty = false
	s.opts.Save(data)
	s.log.Debug("canvas saved", "objects", len(data.Objects))
}

// saveDirty saves only when edits arrived since the last save. A debounced
// save still queued behind Flush finds nothing left to do.
func (s *Session) saveDirty() {
	if s.dirty {
		s.saveNow()
	}
}

func (s *Session) pushHistory() {
	if s.editor.PushHistory() {
		h := s.editor.History()
		s.log.Debug("history pushed", "index", h.Index(), "entries", h.Len())
	}
}

// SceneChanged implements Observer.
func (s *Session) SceneChanged(record bool) {
	s.dirty = true
	s.save.Trigger()
	if record {
		s.hist.Trigger()
	}
}

// ImageNeeded implements Observer. The decode runs off the loop; its result
// is posted back and dropped if the session closed meanwhile.
func (s *Session) ImageNeeded(src string) {
	images := s.editor.Images()
	if s.opts.Resolver == nil {
		s.log.Debug("no image resolver", "src", truncate(src, 64))
		images.Fail(src)
		return
	}
	go func() {
		img, err := s.opts.Resolver.Resolve(s.ctx, src)
		s.post(func() {
			if err != nil {
				s.log.Warn("image decode failed", "src", truncate(src, 64), "error", err)
				images.Fail(src)
			} else {
				images.Resolve(src, img)
			}
			if s.opts.Invalidate != nil {
				s.opts.Invalidate(s.editor)
			}
		})
	}()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
