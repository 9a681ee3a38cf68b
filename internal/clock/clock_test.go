package clock

import (
	"testing"
	"time"
)

func TestStartOfUTCDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday UTC",
			in:   time.Date(2025, 3, 10, 13, 45, 12, 500, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exact midnight stays",
			in:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non-UTC zone converts first",
			in:   time.Date(2025, 3, 10, 1, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			want: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfUTCDay(tt.in); !got.Equal(tt.want) {
				t.Errorf("StartOfUTCDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartOfUTCHour(t *testing.T) {
	in := time.Date(2025, 3, 10, 13, 45, 12, 500, time.UTC)
	want := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)
	if got := StartOfUTCHour(in); !got.Equal(want) {
		t.Errorf("StartOfUTCHour(%v) = %v, want %v", in, got, want)
	}
}

func TestSameUTCDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	if !SameUTCDay(a, b) {
		t.Error("expected same UTC day")
	}

	c := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if SameUTCDay(b, c) {
		t.Error("23:59:59 and next midnight must not be the same day")
	}
}

func TestDaysApart(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "next day even one second across midnight",
			a:    time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			b:    time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "skipped a day",
			a:    time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "clock skew backwards",
			a:    time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysApart(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysApart(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
