// Package playback replays recorded points as clicks on a fixed interval.
package playback

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/injection"
	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Scheduler owns the single playback ticker. Each tick clicks the next point
// of the sequence given to Start, wrapping back to the first.
type Scheduler struct {
	injector injection.Injector
	logger   *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}

	running  atomic.Bool
	interval atomic.Int64
	ticks    atomic.Uint64
}

func NewScheduler(injector injection.Injector, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		injector: injector,
		logger:   logging.Component(logger, "playback"),
	}
}

// Start cancels any running playback and begins clicking points every interval.
// The points are copied; later changes to the caller's slice are not seen.
// When Start returns no tick of the previous run can happen any more.
func (s *Scheduler) Start(points []tracking.Point, interval time.Duration) error {
	if len(points) == 0 {
		return ErrEmptySequence
	}
	if interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}

	sequence := make([]tracking.Point, len(points))
	copy(sequence, points)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopChan = stop
	s.doneChan = done
	s.interval.Store(int64(interval))
	s.ticks.Store(0)
	s.running.Store(true)

	go s.run(sequence, interval, stop, done)

	s.logger.Info("started autoclicking at recorded locations",
		zap.Int("points", len(sequence)),
		zap.Duration("interval", interval),
	)
	return nil
}

// Stop cancels playback and waits for an in-flight tick to finish. Stopping
// when nothing is running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopLocked() {
		s.logger.Info("autoclicker stopped", zap.Uint64("ticks", s.ticks.Load()))
	}
}

// stopLocked reports whether a run was cancelled. s.mu must be held.
func (s *Scheduler) stopLocked() bool {
	if s.stopChan == nil {
		return false
	}
	close(s.stopChan)
	<-s.doneChan

	s.stopChan = nil
	s.doneChan = nil
	s.running.Store(false)
	return true
}

func (s *Scheduler) run(points []tracking.Point, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cursor := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready together; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			s.injector.Click(points[cursor])
			s.ticks.Add(1)
			cursor = (cursor + 1) % len(points)
		}
	}
}

func (s *Scheduler) State() State {
	if s.running.Load() {
		return Running
	}
	return Stopped
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// Interval returns the interval of the current or most recent run.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// Ticks returns the clicks issued since the last Start.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}
