package validation

import (
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"us four digit year", "01/15/2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"us two digit year below pivot", "01/15/25", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"us two digit year at pivot", "06/01/50", time.Date(1950, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"us two digit year above pivot", "12/31/99", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"leap day", "02/29/24", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"whitespace tolerated", "  2025-01-15 ", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) returned error: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"day overflow in short month", "04/31/25"},
		{"day overflow iso", "2025-06-31"},
		{"non leap year february", "02/29/25"},
		{"month zero", "00/10/25"},
		{"month thirteen", "13/10/25"},
		{"garbage", "next tuesday"},
		{"missing part", "01/2025"},
		{"letters in parts", "01/ab/2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDate(tc.input); err == nil {
				t.Fatalf("ParseDate(%q) accepted, want error", tc.input)
			}
		})
	}
}
