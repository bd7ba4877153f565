package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	hook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
)

var (
	ErrMonitorRunning      = errors.New("input monitor already running")
	ErrUnsupportedListener = errors.New("listener type does not match event kind")
)

const defaultQueueSize = 256

// Source produces raw global input events. The default source is the gohook
// process-wide hook.
type Source interface {
	Start() chan hook.Event
	End()
}

type hookSource struct{}

func (hookSource) Start() chan hook.Event { return hook.Start() }
func (hookSource) End()                   { hook.End() }

type Options struct {
	Source    Source
	QueueSize int
	Logger    *zap.Logger
}

type pointerSub struct {
	id string
	fn PointerListener
}

type keySub struct {
	id string
	fn KeyListener
}

// Monitor observes system-wide pointer and key events without consuming them
// and fans them out to subscribed listeners on its own dispatch goroutine.
type Monitor struct {
	source    Source
	queueSize int
	logger    *zap.Logger

	mu      sync.RWMutex
	pointer []pointerSub
	keys    []keySub

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func NewMonitor(opts Options) *Monitor {
	source := opts.Source
	if source == nil {
		source = hookSource{}
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Monitor{
		source:    source,
		queueSize: queueSize,
		logger:    logging.Component(opts.Logger, "monitor"),
	}
}

// OnPointerDown registers fn for primary button presses.
func (m *Monitor) OnPointerDown(fn PointerListener) Subscription {
	id := uuid.NewString()
	m.mu.Lock()
	m.pointer = append(m.pointer, pointerSub{id: id, fn: fn})
	m.mu.Unlock()
	return Subscription{id: id, kind: PointerDown}
}

// OnKeyDown registers fn for key presses.
func (m *Monitor) OnKeyDown(fn KeyListener) Subscription {
	id := uuid.NewString()
	m.mu.Lock()
	m.keys = append(m.keys, keySub{id: id, fn: fn})
	m.mu.Unlock()
	return Subscription{id: id, kind: KeyDown}
}

// Subscribe registers listener for kind. PointerDown takes a PointerListener or
// func(Point), KeyDown a KeyListener or func(Key).
func (m *Monitor) Subscribe(kind EventKind, listener any) (Subscription, error) {
	switch kind {
	case PointerDown:
		switch fn := listener.(type) {
		case PointerListener:
			return m.OnPointerDown(fn), nil
		case func(Point):
			return m.OnPointerDown(fn), nil
		}
	case KeyDown:
		switch fn := listener.(type) {
		case KeyListener:
			return m.OnKeyDown(fn), nil
		case func(Key):
			return m.OnKeyDown(fn), nil
		}
	default:
		return Subscription{}, fmt.Errorf("subscribe to %s: unknown event kind", kind)
	}
	return Subscription{}, fmt.Errorf("subscribe to %s with %T: %w", kind, listener, ErrUnsupportedListener)
}

// Unsubscribe removes the listener behind sub. Unknown and zero handles are ignored.
func (m *Monitor) Unsubscribe(sub Subscription) {
	if !sub.Valid() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch sub.kind {
	case PointerDown:
		for i, s := range m.pointer {
			if s.id == sub.id {
				m.pointer = append(m.pointer[:i:i], m.pointer[i+1:]...)
				return
			}
		}
	case KeyDown:
		for i, s := range m.keys {
			if s.id == sub.id {
				m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for kind.
func (m *Monitor) ListenerCount(kind EventKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch kind {
	case PointerDown:
		return len(m.pointer)
	case KeyDown:
		return len(m.keys)
	default:
		return 0
	}
}

// Start begins observing input. The hook is released when ctx is cancelled or
// Stop is called. A monitor whose ctx was cancelled can be started again.
func (m *Monitor) Start(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.running {
		if !m.finishedLocked() {
			return ErrMonitorRunning
		}
		m.resetLocked()
	}

	runCtx, cancel := context.WithCancel(ctx)
	events := m.source.Start()
	queue := make(chan Event, m.queueSize)
	done := make(chan struct{})

	m.running = true
	m.cancel = cancel
	m.done = done

	go func() {
		<-runCtx.Done()
		m.source.End()
	}()
	go m.read(runCtx, events, queue)
	go m.dispatch(queue, done)

	m.logger.Info("global input monitor started")
	return nil
}

// Stop releases the hook and waits for pending deliveries to finish.
// Stopping a monitor that is not running is a no-op.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}
	m.cancel()
	<-m.done

	m.resetLocked()
	m.logger.Info("global input monitor stopped",
		zap.Uint64("delivered", m.delivered.Load()),
		zap.Uint64("dropped", m.dropped.Load()),
	)
}

// IsRunning reports whether events are still being observed. It turns false
// as soon as the run ends, whether through Stop or through ctx.
func (m *Monitor) IsRunning() bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.running && !m.finishedLocked()
}

// finishedLocked reports whether the dispatcher of the current run has exited.
// m.runMu must be held.
func (m *Monitor) finishedLocked() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Monitor) resetLocked() {
	m.cancel()
	m.running = false
	m.cancel = nil
	m.done = nil
}

// Dropped returns the number of events discarded because listeners fell behind.
func (m *Monitor) Dropped() uint64 {
	return m.dropped.Load()
}

// read drains the hook channel so the platform hook never waits on listeners.
func (m *Monitor) read(ctx context.Context, events chan hook.Event, queue chan Event) {
	defer close(queue)

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-events:
			if !ok {
				return
			}
			ev, ok := translate(raw)
			if !ok {
				continue
			}
			select {
			case queue <- ev:
			default:
				// Queue full: make room by dropping the oldest event.
				select {
				case <-queue:
				default:
				}
				select {
				case queue <- ev:
				default:
				}
				if n := m.dropped.Add(1); n == 1 || n%100 == 0 {
					m.logger.Warn("input listeners falling behind, dropping events", zap.Uint64("dropped", n))
				}
			}
		}
	}
}

func (m *Monitor) dispatch(queue chan Event, done chan struct{}) {
	defer close(done)

	for ev := range queue {
		m.deliver(ev)
	}
}

func (m *Monitor) deliver(ev Event) {
	switch ev.Kind {
	case PointerDown:
		m.mu.RLock()
		subs := make([]pointerSub, len(m.pointer))
		copy(subs, m.pointer)
		m.mu.RUnlock()

		for _, s := range subs {
			m.safeCall(ev.Kind, func() { s.fn(ev.Point) })
		}
	case KeyDown:
		m.mu.RLock()
		subs := make([]keySub, len(m.keys))
		copy(subs, m.keys)
		m.mu.RUnlock()

		for _, s := range subs {
			m.safeCall(ev.Kind, func() { s.fn(ev.Key) })
		}
	}
	m.delivered.Add(1)
}

func (m *Monitor) safeCall(kind EventKind, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("input listener panicked", zap.Stringer("kind", kind), zap.Any("panic", r))
		}
	}()
	fn()
}

// translate keeps left button presses and key presses; everything else is ignored.
// gohook names the libuiohook kinds loosely: MouseHold and KeyHold are the
// press events, MouseDown is the release and KeyDown is a typed character.
func translate(raw hook.Event) (Event, bool) {
	switch raw.Kind {
	case hook.MouseHold:
		if raw.Button == hook.MouseMap["left"] || raw.Button == 1 {
			return Event{
				Kind:  PointerDown,
				Point: Point{X: int(raw.X), Y: int(raw.Y)},
			}, true
		}
	case hook.KeyHold:
		return Event{
			Kind: KeyDown,
			Key: Key{
				Code:    raw.Keycode,
				Rawcode: raw.Rawcode,
				Char:    hook.RawcodetoKeychar(raw.Rawcode),
			},
		}, true
	}
	return Event{}, false
}
