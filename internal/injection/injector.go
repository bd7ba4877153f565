// Package injection synthesizes pointer clicks at screen coordinates.
package injection

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

// ErrInjectionFailure marks a click the OS did not accept or that was skipped.
var ErrInjectionFailure = errors.New("click injection failed")

// Injector performs one click. Failures are absorbed by the implementation.
type Injector interface {
	Click(p tracking.Point)
}

// Driver is the low-level event backend used by RobotInjector.
type Driver interface {
	Move(x, y int) error
	Press() error
	Release() error
}

type robotDriver struct{}

func (robotDriver) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (robotDriver) Press() error {
	return robotgo.Toggle("left")
}

func (robotDriver) Release() error {
	return robotgo.Toggle("left", "up")
}

// DisplayBounds lists the rectangles of the active displays in screen space.
type DisplayBounds func() []image.Rectangle

func activeDisplays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}

type Options struct {
	Driver             Driver
	Displays           DisplayBounds
	CheckDisplayBounds bool
	Logger             *zap.Logger
}

// RobotInjector moves the pointer and presses the primary button through robotgo.
type RobotInjector struct {
	driver      Driver
	displays    DisplayBounds
	checkBounds bool
	logger      *zap.Logger
}

func NewRobotInjector(opts Options) *RobotInjector {
	driver := opts.Driver
	if driver == nil {
		driver = robotDriver{}
	}
	displays := opts.Displays
	if displays == nil {
		displays = activeDisplays
	}
	return &RobotInjector{
		driver:      driver,
		displays:    displays,
		checkBounds: opts.CheckDisplayBounds,
		logger:      logging.Component(opts.Logger, "injector"),
	}
}

// Click emits a move, a press and a release at p, in that order.
func (i *RobotInjector) Click(p tracking.Point) {
	if err := i.click(p); err != nil {
		i.logger.Warn("click not delivered", zap.Stringer("point", p), zap.Error(err))
	}
}

func (i *RobotInjector) click(p tracking.Point) error {
	if i.checkBounds && !i.onScreen(p) {
		return fmt.Errorf("%w: %v is outside every active display", ErrInjectionFailure, p)
	}
	if err := i.driver.Move(p.X, p.Y); err != nil {
		return fmt.Errorf("%w: move to %v: %v", ErrInjectionFailure, p, err)
	}
	if err := i.driver.Press(); err != nil {
		// The press may have registered anyway, so still release.
		releaseErr := i.driver.Release()
		return fmt.Errorf("%w: press at %v: %v", ErrInjectionFailure, p, errors.Join(err, releaseErr))
	}
	if err := i.driver.Release(); err != nil {
		return fmt.Errorf("%w: release at %v: %v", ErrInjectionFailure, p, err)
	}
	return nil
}

// onScreen reports whether p is on an active display. With no display
// information the check passes.
func (i *RobotInjector) onScreen(p tracking.Point) bool {
	bounds := i.displays()
	if len(bounds) == 0 {
		return true
	}
	pt := image.Pt(p.X, p.Y)
	for _, b := range bounds {
		if pt.In(b) {
			return true
		}
	}
	return false
}
