package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Minutes per day; the valid range for any start or end is [0, MinutesPerDay].
const MinutesPerDay = 24 * 60

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) on the same date share at least one minute. Boundary touching
// (aEnd == bStart) is not an overlap, which is what allows back-to-back
// reservations. Intervals are assumed well-formed (end > start); callers
// validate duration upstream.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Span is a half-open [Start, End) interval in minutes since midnight.
type Span struct {
	Start int
	End   int
}

func (s Span) Overlaps(o Span) bool {
	return Overlaps(s.Start, s.End, o.Start, o.End)
}

func (s Span) Duration() int {
	return s.End - s.Start
}

// AnyOverlap reports whether candidate overlaps any of the given spans.
func AnyOverlap(spans []Span, candidate Span) bool {
	for _, span := range spans {
		if span.Overlaps(candidate) {
			return true
		}
	}

	return false
}

// FromClock converts an "HH:MM" clock string to minutes since midnight.
// "24:00" is accepted as the end-of-day boundary.
func FromClock(clock string) (int, error) {
	hourStr, minStr, found := strings.Cut(clock, ":")
	if !found {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", clock)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}

	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}

	if minute < 0 || minute > 59 || hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}

	return hour*60 + minute, nil
}

// ToClock converts minutes since midnight back to an "HH:MM" string.
func ToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
