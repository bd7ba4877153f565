// Package engine wires the input monitor, recorder, playback scheduler and
// emergency stop together behind the operator commands.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/config"
	"github.com/vedantwpatil/Auto-Clicker/internal/emergency"
	"github.com/vedantwpatil/Auto-Clicker/internal/injection"
	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/playback"
	"github.com/vedantwpatil/Auto-Clicker/internal/recording"
	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

type Options struct {
	Config *config.Config
	Logger *zap.Logger

	// Source and Injector replace the gohook and robotgo backends.
	Source   tracking.Source
	Injector injection.Injector
}

type Engine struct {
	config *config.Config
	logger *zap.Logger

	monitor   *tracking.Monitor
	recorder  *recording.Recorder
	scheduler *playback.Scheduler
	interval  *playback.IntervalSetting
	emergency *emergency.Controller

	shutdownOnce sync.Once
}

func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	stopKey, err := tracking.LookupKey(cfg.EmergencyStop.Key)
	if err != nil {
		return nil, fmt.Errorf("emergency stop key: %w", err)
	}
	initial, err := playback.SecondsToInterval(cfg.Playback.IntervalSeconds)
	if err != nil {
		return nil, err
	}

	logger := logging.OrDefault(opts.Logger)

	injector := opts.Injector
	if injector == nil {
		injector = injection.NewRobotInjector(injection.Options{
			CheckDisplayBounds: cfg.Injection.CheckDisplayBounds,
			Logger:             logger,
		})
	}

	monitor := tracking.NewMonitor(tracking.Options{
		Source:    opts.Source,
		QueueSize: cfg.Monitor.QueueSize,
		Logger:    logger,
	})
	scheduler := playback.NewScheduler(injector, logger)

	return &Engine{
		config:    cfg,
		logger:    logging.Component(logger, "engine"),
		monitor:   monitor,
		recorder:  recording.NewRecorder(monitor, logger),
		scheduler: scheduler,
		interval:  playback.NewIntervalSetting(initial),
		emergency: emergency.NewController(monitor, scheduler, stopKey, logger),
	}, nil
}

// Start begins global input monitoring. The emergency stop is live from here on.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.monitor.Start(ctx); err != nil {
		return fmt.Errorf("starting input monitor: %w", err)
	}
	e.logger.Info("engine ready",
		zap.String("stop_key", e.config.EmergencyStop.Key),
		zap.Duration("interval", e.interval.Get()),
	)
	return nil
}

func (e *Engine) ToggleRecording() recording.State {
	return e.recorder.Toggle()
}

// SetInterval adopts text as the interval for the next StartPlayback. On error
// the previous interval stays in effect.
func (e *Engine) SetInterval(text string) error {
	if err := e.interval.Set(text); err != nil {
		e.logger.Warn("invalid interval input, keeping previous value",
			zap.String("input", text),
			zap.Duration("interval", e.interval.Get()),
		)
		return err
	}
	e.logger.Info("interval updated", zap.Duration("interval", e.interval.Get()))
	return nil
}

func (e *Engine) SetIntervalSeconds(seconds float64) error {
	if err := e.interval.SetSeconds(seconds); err != nil {
		return err
	}
	e.logger.Info("interval updated", zap.Duration("interval", e.interval.Get()))
	return nil
}

func (e *Engine) Interval() time.Duration {
	return e.interval.Get()
}

// StartPlayback replays the points recorded so far. Points recorded afterwards
// are picked up by the next StartPlayback.
func (e *Engine) StartPlayback() error {
	return e.scheduler.Start(e.recorder.Points(), e.interval.Get())
}

func (e *Engine) StopPlayback() {
	e.scheduler.Stop()
}

func (e *Engine) Points() []tracking.Point {
	return e.recorder.Points()
}

func (e *Engine) RecordingState() recording.State {
	return e.recorder.State()
}

func (e *Engine) PlaybackState() playback.State {
	return e.scheduler.State()
}

func (e *Engine) EmergencyStops() uint64 {
	return e.emergency.Triggered()
}

// OnEmergencyStop registers fn to run after each emergency stop, on the input
// dispatch goroutine. fn must not block.
func (e *Engine) OnEmergencyStop(fn func()) {
	e.emergency.OnTrigger(fn)
}

// Shutdown stops playback first so no ticker outlives the process, then ends
// recording and releases the input hook. Later calls do nothing.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.scheduler.Stop()
		if e.recorder.IsRecording() {
			e.recorder.Toggle()
		}
		e.monitor.Stop()
		e.logger.Info("exiting program")
	})
}
