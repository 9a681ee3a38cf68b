package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arghadee4102H/ASEarnHub/internal/clock"
)

// StreakDecision is the outcome of evaluating a daily check-in at an instant.
type StreakDecision struct {
	Claimable    bool
	NewStreakDay int
	Reward       decimal.Decimal
	Anomaly      bool // stored check-in is in the future relative to now
}

// EvaluateStreak decides, from the stored last check-in and streak day,
// whether a check-in is claimable right now and what it pays. The streak
// wraps 7 back to 1 and resets to 1 after a missed UTC day.
func EvaluateStreak(lastCheckinAt *time.Time, streakDay int, now time.Time) StreakDecision {
	if lastCheckinAt == nil {
		return StreakDecision{Claimable: true, NewStreakDay: 1, Reward: CheckinRewards[0]}
	}

	switch days := clock.DaysApart(*lastCheckinAt, now); {
	case days == 0:
		return StreakDecision{NewStreakDay: streakDay}
	case days == 1:
		next := (streakDay % 7) + 1
		return StreakDecision{Claimable: true, NewStreakDay: next, Reward: CheckinRewards[next-1]}
	case days > 1:
		return StreakDecision{Claimable: true, NewStreakDay: 1, Reward: CheckinRewards[0]}
	default:
		// Stored timestamp is ahead of the server clock. Never negative-claim.
		return StreakDecision{NewStreakDay: streakDay, Anomaly: true}
	}
}
