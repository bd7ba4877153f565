package injection

import (
	"errors"
	"fmt"
	"image"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

type recordingDriver struct {
	calls    []string
	pressErr error
	moveErr  error
}

func (d *recordingDriver) Move(x, y int) error {
	d.calls = append(d.calls, fmt.Sprintf("move %d,%d", x, y))
	return d.moveErr
}

func (d *recordingDriver) Press() error {
	d.calls = append(d.calls, "press")
	return d.pressErr
}

func (d *recordingDriver) Release() error {
	d.calls = append(d.calls, "release")
	return nil
}

func singleDisplay() []image.Rectangle {
	return []image.Rectangle{image.Rect(0, 0, 1920, 1080)}
}

func newTestInjector(driver Driver, check bool) (*RobotInjector, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	return NewRobotInjector(Options{
		Driver:             driver,
		Displays:           singleDisplay,
		CheckDisplayBounds: check,
		Logger:             logger,
	}), logs
}

func TestClickEmitsMovePressRelease(t *testing.T) {
	driver := &recordingDriver{}
	injector, logs := newTestInjector(driver, true)

	injector.Click(tracking.Point{X: 10, Y: 20})

	want := []string{"move 10,20", "press", "release"}
	if !reflect.DeepEqual(driver.calls, want) {
		t.Fatalf("expected %v, got %v", want, driver.calls)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no warnings, got %v", logs.All())
	}
}

func TestClickOutsideDisplaysIsSkipped(t *testing.T) {
	driver := &recordingDriver{}
	injector, logs := newTestInjector(driver, true)

	injector.Click(tracking.Point{X: 5000, Y: 20})

	if len(driver.calls) != 0 {
		t.Fatalf("expected no driver calls, got %v", driver.calls)
	}
	if logs.FilterMessage("click not delivered").FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected failure to be logged, got %v", logs.All())
	}
}

func TestClickBoundsCheckDisabled(t *testing.T) {
	driver := &recordingDriver{}
	injector, _ := newTestInjector(driver, false)

	injector.Click(tracking.Point{X: 5000, Y: 20})

	if len(driver.calls) != 3 {
		t.Fatalf("expected full click sequence, got %v", driver.calls)
	}
}

func TestClickWithoutDisplayInfoPasses(t *testing.T) {
	driver := &recordingDriver{}
	injector := NewRobotInjector(Options{
		Driver:             driver,
		Displays:           func() []image.Rectangle { return nil },
		CheckDisplayBounds: true,
		Logger:             zap.NewNop(),
	})

	injector.Click(tracking.Point{X: -10, Y: -10})

	if len(driver.calls) != 3 {
		t.Fatalf("expected full click sequence, got %v", driver.calls)
	}
}

func TestClickReleasesAfterFailedPress(t *testing.T) {
	driver := &recordingDriver{pressErr: errors.New("not trusted")}
	injector, _ := newTestInjector(driver, true)

	err := injector.click(tracking.Point{X: 1, Y: 1})
	if !errors.Is(err, ErrInjectionFailure) {
		t.Fatalf("expected ErrInjectionFailure, got %v", err)
	}
	want := []string{"move 1,1", "press", "release"}
	if !reflect.DeepEqual(driver.calls, want) {
		t.Fatalf("expected %v, got %v", want, driver.calls)
	}
}

func TestClickStopsAfterFailedMove(t *testing.T) {
	driver := &recordingDriver{moveErr: errors.New("denied")}
	injector, logs := newTestInjector(driver, true)

	injector.Click(tracking.Point{X: 1, Y: 1})

	if len(driver.calls) != 1 {
		t.Fatalf("expected only the move attempt, got %v", driver.calls)
	}
	entries := logs.FilterMessage("click not delivered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure entry, got %v", logs.All())
	}
	if msg, _ := entries[0].ContextMap()["error"].(string); !strings.Contains(msg, ErrInjectionFailure.Error()) {
		t.Fatalf("expected injection failure in logs, got %v", entries[0].ContextMap())
	}
}
