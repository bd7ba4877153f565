package recording

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}

// PointerSource is the part of the input monitor the recorder needs.
type PointerSource interface {
	OnPointerDown(tracking.PointerListener) tracking.Subscription
	Unsubscribe(tracking.Subscription)
}

// Recorder collects the locations of primary clicks while recording is on.
type Recorder struct {
	source PointerSource
	logger *zap.Logger

	mu          sync.Mutex
	isRecording bool
	points      []tracking.Point
	sub         tracking.Subscription
	// generation changes on every toggle so a click delivered late for an
	// earlier session is not added to the current one.
	generation uint64
}

func NewRecorder(source PointerSource, logger *zap.Logger) *Recorder {
	return &Recorder{
		source: source,
		logger: logging.Component(logger, "recorder"),
	}
}

// Toggle starts a new recording, discarding the previous points, or stops the
// current one. It returns the state after the toggle.
func (r *Recorder) Toggle() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++

	if r.isRecording {
		r.isRecording = false
		sub := r.sub
		r.sub = tracking.Subscription{}
		r.source.Unsubscribe(sub)
		r.logger.Info("stopped recording clicks", zap.Int("points", len(r.points)))
		return Idle
	}

	r.isRecording = true
	r.points = nil
	gen := r.generation
	r.sub = r.source.OnPointerDown(func(p tracking.Point) {
		r.record(gen, p)
	})
	r.logger.Info("started recording clicks, click anywhere to record")
	return Recording
}

func (r *Recorder) record(gen uint64, p tracking.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording || gen != r.generation {
		return
	}
	r.points = append(r.points, p)
	r.logger.Info("recorded click",
		zap.Int("x", p.X),
		zap.Int("y", p.Y),
		zap.Int("count", len(r.points)),
	)
}

// Points returns a copy of the recorded sequence in recording order.
func (r *Recorder) Points() []tracking.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]tracking.Point, len(r.points))
	copy(out, r.points)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.points)
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRecording {
		return Recording
	}
	return Idle
}

func (r *Recorder) IsRecording() bool {
	return r.State() == Recording
}
