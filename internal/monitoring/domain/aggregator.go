package monitoring

import (
	"context"
	"errors"
	"time"
)

// Aggregator computes availability results over trailing windows.
//
// Policy: last-known-state extrapolation within business hours. The hour
// window extrapolates the earliest in-range sample across the whole hour;
// the day and week windows credit each business-hours sample a flat hour,
// regardless of sample spacing. Observation weekday/time checks inside the
// day and week windows use the stored UTC instant directly.
type Aggregator struct {
	hours        *HoursIndex
	observations ObservationReader
}

// NewAggregator constructs an aggregator.
func NewAggregator(hours *HoursIndex, observations ObservationReader) (*Aggregator, error) {
	if hours == nil || observations == nil {
		return nil, errors.New("monitoring: aggregator needs hours index and observation reader")
	}
	return &Aggregator{hours: hours, observations: observations}, nil
}

// Window computes the availability result for one store and window kind.
// ref is the shared reference instant (UTC); localWeekday and localClock are
// the store-local weekday (Monday=0) and time of day at ref, precomputed by
// the caller from the store's timezone.
func (a *Aggregator) Window(ctx context.Context, storeID string, ref time.Time, kind WindowKind, localWeekday int, localClock ClockTime) (Result, error) {
	if !kind.IsValid() {
		return Result{}, ErrInvalidWindowKind
	}
	if localWeekday < 0 || localWeekday > 6 {
		return Result{}, ErrInvalidWeekday
	}

	result := Result{Unit: kind.Unit()}
	if !a.openForWindow(storeID, kind, localWeekday, localClock) {
		return result, nil
	}

	observations, err := a.observations.Since(ctx, storeID, ref.Add(-kind.Lookback()))
	if err != nil {
		return Result{}, err
	}

	if kind == WindowHour {
		if len(observations) == 0 {
			return result, nil
		}
		// A single sparse sample stands in for the whole hour; the
		// earliest one in range wins.
		if observations[0].Status == StatusActive {
			result.Uptime = 60
		} else {
			result.Downtime = 60
		}
		return result, nil
	}

	for _, observation := range observations {
		instant := observation.Timestamp.UTC()
		if !a.hours.OpenAt(storeID, WeekdayMonday0(instant), ClockOf(instant)) {
			continue
		}
		if observation.Status == StatusActive {
			result.Uptime++
		} else {
			result.Downtime++
		}
	}
	return result, nil
}

// openForWindow is the cheap pre-filter applied before scanning
// observations. The day window looks back one weekday (wrapping Monday to
// Sunday); the week window clamps the low bound at Monday rather than
// wrapping, so a Monday reference collapses the range to [0, 0].
func (a *Aggregator) openForWindow(storeID string, kind WindowKind, weekday int, clock ClockTime) bool {
	switch kind {
	case WindowHour:
		return a.hours.OpenAt(storeID, weekday, clock)
	case WindowDay:
		low := weekday - 1
		if weekday == 0 {
			low = 6
		}
		return a.hours.OpenAnyDay(storeID, low, weekday, clock)
	case WindowWeek:
		low := weekday - 7
		if weekday == 0 {
			low = 0
		}
		return a.hours.OpenAnyDay(storeID, low, weekday, clock)
	default:
		return false
	}
}
