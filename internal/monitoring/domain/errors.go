package monitoring

import "errors"

var (
	// ErrNoObservations indicates the dataset holds no observations at all,
	// so no reference instant can be derived.
	ErrNoObservations = errors.New("monitoring: no observations recorded")
	// ErrInvalidStatus indicates an unknown observation status value.
	ErrInvalidStatus = errors.New("monitoring: invalid observation status")
	// ErrInvalidWindowKind indicates an unsupported aggregation window.
	ErrInvalidWindowKind = errors.New("monitoring: invalid window kind")
	// ErrInvalidClockTime indicates an unparseable local time of day.
	ErrInvalidClockTime = errors.New("monitoring: invalid clock time")
	// ErrInvalidWeekday indicates a weekday outside [0, 6].
	ErrInvalidWeekday = errors.New("monitoring: invalid weekday")
)
