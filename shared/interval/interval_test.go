package interval_test

import (
	"teesheet/shared/interval"
	"testing"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   int
		aEnd     int
		bStart   int
		bEnd     int
		expected bool
	}{
		{
			name:     "identical intervals overlap",
			aStart:   600, aEnd: 660, bStart: 600, bEnd: 660,
			expected: true,
		},
		{
			name:     "partial overlap at tail",
			aStart:   600, aEnd: 660, bStart: 630, bEnd: 690,
			expected: true,
		},
		{
			name:     "partial overlap at head",
			aStart:   630, aEnd: 690, bStart: 600, bEnd: 660,
			expected: true,
		},
		{
			name:     "contained interval overlaps",
			aStart:   600, aEnd: 720, bStart: 630, bEnd: 660,
			expected: true,
		},
		{
			name:     "containing interval overlaps",
			aStart:   630, aEnd: 660, bStart: 600, bEnd: 720,
			expected: true,
		},
		{
			name:     "one shared minute overlaps",
			aStart:   600, aEnd: 660, bStart: 659, bEnd: 700,
			expected: true,
		},
		{
			name:     "back-to-back does not overlap",
			aStart:   600, aEnd: 660, bStart: 660, bEnd: 690,
			expected: false,
		},
		{
			name:     "back-to-back reversed does not overlap",
			aStart:   660, aEnd: 690, bStart: 600, bEnd: 660,
			expected: false,
		},
		{
			name:     "disjoint intervals do not overlap",
			aStart:   60, aEnd: 120, bStart: 600, bEnd: 660,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interval.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.expected {
				t.Errorf("Overlaps(%d, %d, %d, %d) = %v, expected %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.expected)
			}
		})
	}
}

// Overlaps must agree with a brute-force shared-minute scan for every pair of
// well-formed intervals in a small range, and must be symmetric.
func TestOverlaps_AgreesWithMinuteScan(t *testing.T) {
	const limit = 8

	sharesMinute := func(aStart, aEnd, bStart, bEnd int) bool {
		for m := aStart; m < aEnd; m++ {
			if m >= bStart && m < bEnd {
				return true
			}
		}

		return false
	}

	for aStart := 0; aStart < limit; aStart++ {
		for aEnd := aStart + 1; aEnd <= limit; aEnd++ {
			for bStart := 0; bStart < limit; bStart++ {
				for bEnd := bStart + 1; bEnd <= limit; bEnd++ {
					want := sharesMinute(aStart, aEnd, bStart, bEnd)
					got := interval.Overlaps(aStart, aEnd, bStart, bEnd)

					if got != want {
						t.Fatalf("Overlaps(%d, %d, %d, %d) = %v, minute scan says %v",
							aStart, aEnd, bStart, bEnd, got, want)
					}

					if got != interval.Overlaps(bStart, bEnd, aStart, aEnd) {
						t.Fatalf("Overlaps not symmetric for (%d, %d) vs (%d, %d)",
							aStart, aEnd, bStart, bEnd)
					}
				}
			}
		}
	}
}

func TestAnyOverlap(t *testing.T) {
	spans := []interval.Span{
		{Start: 600, End: 660},
		{Start: 720, End: 780},
	}

	if !interval.AnyOverlap(spans, interval.Span{Start: 630, End: 690}) {
		t.Error("expected overlap with first span")
	}

	if interval.AnyOverlap(spans, interval.Span{Start: 660, End: 720}) {
		t.Error("expected the gap between spans to be free")
	}

	if interval.AnyOverlap(nil, interval.Span{Start: 0, End: 1440}) {
		t.Error("expected no overlap against an empty schedule")
	}
}

func TestFromClock(t *testing.T) {
	tests := []struct {
		name     string
		clock    string
		expected int
		wantErr  bool
	}{
		{name: "midnight", clock: "00:00", expected: 0},
		{name: "ten am", clock: "10:00", expected: 600},
		{name: "half past", clock: "10:30", expected: 630},
		{name: "end of day", clock: "24:00", expected: 1440},
		{name: "missing colon", clock: "1030", wantErr: true},
		{name: "minute out of range", clock: "10:60", wantErr: true},
		{name: "hour out of range", clock: "25:00", wantErr: true},
		{name: "past end of day", clock: "24:01", wantErr: true},
		{name: "not a number", clock: "aa:bb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interval.FromClock(tt.clock)

			if tt.wantErr {
				if err == nil {
					t.Errorf("FromClock(%q) expected error, got %d", tt.clock, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("FromClock(%q) returned error: %v", tt.clock, err)
			}

			if got != tt.expected {
				t.Errorf("FromClock(%q) = %d, expected %d", tt.clock, got, tt.expected)
			}
		})
	}
}

func TestToClock(t *testing.T) {
	for _, minutes := range []int{0, 1, 59, 60, 600, 630, 1439} {
		round, err := interval.FromClock(interval.ToClock(minutes))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", minutes, err)
		}

		if round != minutes {
			t.Errorf("round trip of %d gave %d", minutes, round)
		}
	}

	if interval.ToClock(630) != "10:30" {
		t.Errorf("ToClock(630) = %s, expected 10:30", interval.ToClock(630))
	}
}
