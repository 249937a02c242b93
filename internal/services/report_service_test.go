package services

import (
	"errors"
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	start, endExclusive, err := parseRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}
	if start != time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start = %v", start)
	}
	// The end bound covers the whole final day.
	if endExclusive != time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("endExclusive = %v", endExclusive)
	}
}

func TestParseRangeSingleDay(t *testing.T) {
	start, endExclusive, err := parseRange("2026-03-15", "2026-03-15")
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}
	if endExclusive.Sub(start) != 24*time.Hour {
		t.Errorf("single-day window = %v", endExclusive.Sub(start))
	}
}

func TestParseRangeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"empty start", "", "2026-01-31"},
		{"empty end", "2026-01-01", ""},
		{"malformed start", "01/01/2026", "2026-01-31"},
		{"end before start", "2026-01-31", "2026-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseRange(tt.start, tt.end)
			if !errors.Is(err, ErrInvalidDateRange) {
				t.Errorf("err = %v, want ErrInvalidDateRange", err)
			}
		})
	}
}
