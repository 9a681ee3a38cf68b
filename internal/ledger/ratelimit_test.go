package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestEvaluateAdWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		window      AdWindow
		wantAllowed bool
		wantReason  error
		wantDaily   int
		wantHourly  int
	}{
		{
			name: "fresh user allowed",
			window: AdWindow{
				DailyCount: 0, LastDailyReset: now,
				HourlyCount: 0, LastHourlyReset: now,
			},
			wantAllowed: true,
		},
		{
			name: "under both limits",
			window: AdWindow{
				DailyCount: 199, LastDailyReset: now,
				HourlyCount: 24, LastHourlyReset: now,
			},
			wantAllowed: true,
			wantDaily:   199,
			wantHourly:  24,
		},
		{
			name: "daily cap hit even with hourly headroom",
			window: AdWindow{
				DailyCount: 200, LastDailyReset: now,
				HourlyCount: 3, LastHourlyReset: now,
			},
			wantReason: ErrDailyLimit,
			wantDaily:  200,
			wantHourly: 3,
		},
		{
			name: "hourly cap hit",
			window: AdWindow{
				DailyCount: 50, LastDailyReset: now,
				HourlyCount: 25, LastHourlyReset: now,
			},
			wantReason: ErrHourlyLimit,
			wantDaily:  50,
			wantHourly: 25,
		},
		{
			name: "daily counter resets across UTC midnight",
			window: AdWindow{
				DailyCount: 200, LastDailyReset: now.Add(-24 * time.Hour),
				HourlyCount: 25, LastHourlyReset: now.Add(-24 * time.Hour),
			},
			wantAllowed: true,
			wantDaily:   0,
			wantHourly:  0,
		},
		{
			name: "hourly resets but daily window still open",
			window: AdWindow{
				DailyCount: 200, LastDailyReset: now.Add(-2 * time.Hour),
				HourlyCount: 25, LastHourlyReset: now.Add(-2 * time.Hour),
			},
			wantReason: ErrDailyLimit,
			wantDaily:  200,
			wantHourly: 0,
		},
		{
			name: "calendar hour boundary, not rolling 60 minutes",
			window: AdWindow{
				DailyCount: 10, LastDailyReset: now,
				// 14:01 the same day: same calendar hour as 14:30, no reset.
				HourlyCount: 25, LastHourlyReset: time.Date(2025, 3, 10, 14, 1, 0, 0, time.UTC),
			},
			wantReason: ErrHourlyLimit,
			wantDaily:  10,
			wantHourly: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateAdWindow(tt.window, now)
			if d.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", d.Allowed, tt.wantAllowed)
			}
			if tt.wantReason != nil && !errors.Is(d.Reason, tt.wantReason) {
				t.Errorf("Reason = %v, want %v", d.Reason, tt.wantReason)
			}
			if d.DailyCount != tt.wantDaily {
				t.Errorf("DailyCount = %d, want %d", d.DailyCount, tt.wantDaily)
			}
			if d.HourlyCount != tt.wantHourly {
				t.Errorf("HourlyCount = %d, want %d", d.HourlyCount, tt.wantHourly)
			}
		})
	}
}

func TestEvaluateAdWindowDoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	w := AdWindow{DailyCount: 150, LastDailyReset: now.Add(-48 * time.Hour), HourlyCount: 20, LastHourlyReset: now}

	_ = EvaluateAdWindow(w, now)

	if w.DailyCount != 150 || w.HourlyCount != 20 {
		t.Errorf("input mutated: %+v", w)
	}
}
