package playback

import "errors"

var (
	// ErrEmptySequence is returned when playback is requested with no recorded points.
	ErrEmptySequence = errors.New("no recorded points to click")

	// ErrInvalidInterval is returned for a non-positive or unparsable interval.
	ErrInvalidInterval = errors.New("interval must be a positive number of seconds")
)
