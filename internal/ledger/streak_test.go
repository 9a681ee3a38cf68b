package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEvaluateStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	threeDaysAgo := now.Add(-72 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name         string
		last         *time.Time
		streakDay    int
		wantClaim    bool
		wantDay      int
		wantReward   int64
		wantAnomaly  bool
	}{
		{
			name:       "first check-in ever",
			last:       nil,
			streakDay:  0,
			wantClaim:  true,
			wantDay:    1,
			wantReward: 1,
		},
		{
			name:      "already claimed today",
			last:      &now,
			streakDay: 3,
			wantClaim: false,
			wantDay:   3,
		},
		{
			name:       "consecutive day advances",
			last:       &yesterday,
			streakDay:  3,
			wantClaim:  true,
			wantDay:    4,
			wantReward: 6,
		},
		{
			name:       "day seven wraps to one",
			last:       &yesterday,
			streakDay:  7,
			wantClaim:  true,
			wantDay:    1,
			wantReward: 1,
		},
		{
			name:       "gap resets streak",
			last:       &threeDaysAgo,
			streakDay:  5,
			wantClaim:  true,
			wantDay:    1,
			wantReward: 1,
		},
		{
			name:        "future check-in is an anomaly, not claimable",
			last:        &tomorrow,
			streakDay:   2,
			wantClaim:   false,
			wantDay:     2,
			wantAnomaly: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateStreak(tt.last, tt.streakDay, now)
			if d.Claimable != tt.wantClaim {
				t.Errorf("Claimable = %v, want %v", d.Claimable, tt.wantClaim)
			}
			if d.NewStreakDay != tt.wantDay {
				t.Errorf("NewStreakDay = %d, want %d", d.NewStreakDay, tt.wantDay)
			}
			if tt.wantClaim && !d.Reward.Equal(decimal.NewFromInt(tt.wantReward)) {
				t.Errorf("Reward = %s, want %d", d.Reward, tt.wantReward)
			}
			if d.Anomaly != tt.wantAnomaly {
				t.Errorf("Anomaly = %v, want %v", d.Anomaly, tt.wantAnomaly)
			}
		})
	}
}

func TestCheckinRewardTable(t *testing.T) {
	// Walk seven consecutive days and verify the full table pays out in order.
	expected := []int64{1, 2, 4, 6, 10, 15, 20}

	day := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var last *time.Time
	streak := 0

	for i, want := range expected {
		d := EvaluateStreak(last, streak, day)
		if !d.Claimable {
			t.Fatalf("day %d: expected claimable", i+1)
		}
		if d.NewStreakDay != i+1 {
			t.Fatalf("day %d: NewStreakDay = %d", i+1, d.NewStreakDay)
		}
		if !d.Reward.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("day %d: Reward = %s, want %d", i+1, d.Reward, want)
		}

		claimed := day
		last = &claimed
		streak = d.NewStreakDay
		day = day.Add(24 * time.Hour)
	}

	// Day eight wraps back to day one.
	d := EvaluateStreak(last, streak, day)
	if !d.Claimable || d.NewStreakDay != 1 || !d.Reward.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("day 8: got %+v, want wrap to day 1", d)
	}
}
