package monitoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a local time of day in seconds since midnight.
type ClockTime int

// ParseClockTime parses "HH:MM" or "HH:MM:SS".
func ParseClockTime(value string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}
	var fields [3]int
	for i, part := range parts {
		parsed, err := strconv.Atoi(part)
		if err != nil || parsed < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
		}
		fields[i] = parsed
	}
	if fields[0] > 23 || fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}
	return ClockTime(fields[0]*3600 + fields[1]*60 + fields[2]), nil
}

// ClockOf extracts the time of day from an instant, in that instant's
// location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// String renders the clock time as HH:MM:SS.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)/60%60, int(c)%60)
}

// WeekdayMonday0 maps an instant's weekday to the Monday=0 convention.
func WeekdayMonday0(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// BusinessHours is one local open interval for a store on a weekday.
// Weekday uses the Monday=0 convention.
type BusinessHours struct {
	StoreID string
	Weekday int
	Start   ClockTime
	End     ClockTime
}

// Interval is a local open interval with inclusive bounds.
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// Contains reports whether t falls within the interval. Both bounds are
// inclusive, matching the source data convention.
func (i Interval) Contains(t ClockTime) bool {
	return i.Start <= t && t <= i.End
}

// HoursIndex answers business-hours membership queries. It is read-only
// after construction and safe for concurrent use.
// A store or weekday with no intervals is treated as closed.
type HoursIndex struct {
	byStore map[string]*[7][]Interval
}

// NewHoursIndex builds an index from business-hours rows. Rows with a
// weekday outside [0, 6] are rejected.
func NewHoursIndex(rows []BusinessHours) (*HoursIndex, error) {
	index := &HoursIndex{byStore: make(map[string]*[7][]Interval)}
	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, row.Weekday)
		}
		days := index.byStore[row.StoreID]
		if days == nil {
			days = &[7][]Interval{}
			index.byStore[row.StoreID] = days
		}
		days[row.Weekday] = append(days[row.Weekday], Interval{Start: row.Start, End: row.End})
	}
	return index, nil
}

// OpenAt reports whether the store has an interval on weekday containing t.
func (x *HoursIndex) OpenAt(storeID string, weekday int, t ClockTime) bool {
	if x == nil || weekday < 0 || weekday > 6 {
		return false
	}
	days := x.byStore[storeID]
	if days == nil {
		return false
	}
	for _, interval := range days[weekday] {
		if interval.Contains(t) {
			return true
		}
	}
	return false
}

// OpenAnyDay reports whether any weekday in [low, high] (inclusive, no
// wraparound) has an interval containing t. This is a coarse pre-filter:
// it repeats the same time-of-day check across days, not a range-of-instants
// check.
func (x *HoursIndex) OpenAnyDay(storeID string, low, high int, t ClockTime) bool {
	if x == nil {
		return false
	}
	if low < 0 {
		low = 0
	}
	if high > 6 {
		high = 6
	}
	for weekday := low; weekday <= high; weekday++ {
		if x.OpenAt(storeID, weekday, t) {
			return true
		}
	}
	return false
}
