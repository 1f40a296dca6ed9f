package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/railroute/pkg/errors"
)

// MinutesPerDay is the length of one timetable day.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time written as an HHMM integer: 850 is 08:50 and
// 1745 is 17:45. Timetable files do not pad with leading zeros.
type Clock int

// ParseClock parses a decimal HHMM value such as "850", "0850" or "08:50".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, ":", "", 1)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidClock, err, "parse clock %q", s)
	}
	if err := errors.ValidateClock(v); err != nil {
		return 0, err
	}
	return Clock(v), nil
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 100 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 100 }

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int { return c.Hour()*60 + c.Minute() }

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ClockFromMinutes converts minutes since midnight back to a Clock, wrapping
// at midnight.
func ClockFromMinutes(m int) Clock {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return Clock((m/60)*100 + m%60)
}
