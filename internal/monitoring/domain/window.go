package monitoring

import "time"

// WindowKind is one of the trailing lookback windows.
type WindowKind string

const (
	WindowHour WindowKind = "HOUR"
	WindowDay  WindowKind = "DAY"
	WindowWeek WindowKind = "WEEK"
)

// IsValid checks if the window kind is one of the supported values.
func (k WindowKind) IsValid() bool {
	switch k {
	case WindowHour, WindowDay, WindowWeek:
		return true
	default:
		return false
	}
}

// Lookback returns the trailing duration covered by the window.
func (k WindowKind) Lookback() time.Duration {
	switch k {
	case WindowHour:
		return time.Hour
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Unit returns the natural unit the window's result is expressed in.
func (k WindowKind) Unit() string {
	if k == WindowHour {
		return "minutes"
	}
	return "hours"
}

// Result is the availability outcome for one store and window.
// Uptime and Downtime only count business-hours-overlapping, sampled time,
// so their sum does not necessarily cover the full window.
type Result struct {
	Uptime   int
	Downtime int
	Unit     string
}
