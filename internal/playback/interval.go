package playback

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultInterval is used until the operator supplies a valid value.
const DefaultInterval = 200 * time.Millisecond

// ParseInterval reads a positive real number of seconds.
func ParseInterval(text string) (time.Duration, error) {
	trimmed := strings.TrimSpace(text)
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInterval, text)
	}
	return SecondsToInterval(seconds)
}

// SecondsToInterval converts seconds to a Duration, rejecting values that are
// not positive once rounded to nanoseconds.
func SecondsToInterval(seconds float64) (time.Duration, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidInterval, seconds)
	}
	if seconds > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("%w: %v seconds is too long", ErrInvalidInterval, seconds)
	}
	d := time.Duration(math.Round(seconds * float64(time.Second)))
	if d <= 0 {
		return 0, fmt.Errorf("%w: %v seconds rounds to zero", ErrInvalidInterval, seconds)
	}
	return d, nil
}

// IntervalSetting holds the interval the next Start will use. Invalid input
// leaves the previous value in place.
type IntervalSetting struct {
	mu       sync.RWMutex
	interval time.Duration
}

// NewIntervalSetting starts at initial, or DefaultInterval if initial is not positive.
func NewIntervalSetting(initial time.Duration) *IntervalSetting {
	if initial <= 0 {
		initial = DefaultInterval
	}
	return &IntervalSetting{interval: initial}
}

// Set parses text and adopts it on success.
func (s *IntervalSetting) Set(text string) error {
	d, err := ParseInterval(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
	return nil
}

// SetSeconds adopts seconds if it is a valid interval.
func (s *IntervalSetting) SetSeconds(seconds float64) error {
	d, err := SecondsToInterval(seconds)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
	return nil
}

func (s *IntervalSetting) Get() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}
