package ledger

import (
	"time"

	"github.com/Arghadee4102H/ASEarnHub/internal/clock"
)

// AdWindow is the rate-limiting slice of a user record.
type AdWindow struct {
	DailyCount      int
	LastDailyReset  time.Time
	HourlyCount     int
	LastHourlyReset time.Time
}

// AdDecision is the outcome of evaluating AdWindow at an instant. The same
// function backs the UI hint and the in-transaction check, so the two can
// never disagree.
type AdDecision struct {
	Allowed     bool
	Reason      error // ErrDailyLimit or ErrHourlyLimit when !Allowed
	DailyCount  int   // effective count after any due reset
	HourlyCount int
	ResetDaily  bool // the daily window rolled over at this instant
	ResetHourly bool
}

// EvaluateAdWindow applies due UTC-boundary resets and decides whether a new
// ad view may start. It does not mutate its input.
func EvaluateAdWindow(w AdWindow, now time.Time) AdDecision {
	d := AdDecision{
		DailyCount:  w.DailyCount,
		HourlyCount: w.HourlyCount,
	}

	if clock.StartOfUTCDay(w.LastDailyReset).Before(clock.StartOfUTCDay(now)) {
		d.DailyCount = 0
		d.ResetDaily = true
	}
	if clock.StartOfUTCHour(w.LastHourlyReset).Before(clock.StartOfUTCHour(now)) {
		d.HourlyCount = 0
		d.ResetHourly = true
	}

	switch {
	case d.DailyCount >= DailyAdLimit:
		d.Reason = ErrDailyLimit
	case d.HourlyCount >= HourlyAdLimit:
		d.Reason = ErrHourlyLimit
	default:
		d.Allowed = true
	}

	return d
}
