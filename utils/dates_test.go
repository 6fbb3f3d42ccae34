package utils

import (
	"testing"
	"time"
)

func TestEndOfNextMonth(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"mid january",
			time.Date(2025, time.January, 5, 10, 30, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"leap february",
			time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"year rollover",
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"november into december",
			time.Date(2025, time.November, 30, 23, 59, 0, 0, time.UTC),
			time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EndOfNextMonth(tc.in); !got.Equal(tc.want) {
				t.Fatalf("EndOfNextMonth(%s) = %s, want %s",
					tc.in.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

func TestBeginningOfDay(t *testing.T) {
	in := time.Date(2025, time.March, 3, 17, 45, 12, 999, time.UTC)
	want := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	if got := BeginningOfDay(in); !got.Equal(want) {
		t.Fatalf("BeginningOfDay = %s, want %s", got, want)
	}
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{874.99125, 874.99},
		{0.005, 0.01},
		{100, 100},
		{19.999, 20},
	}
	for _, tc := range cases {
		if got := RoundMoney(tc.in); got != tc.want {
			t.Fatalf("RoundMoney(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
