package ledger

import "github.com/shopspring/decimal"

// Reward amounts in AS points. The smallest unit is 0.1 point.
var (
	AdReward          = decimal.NewFromFloat(0.3)
	ChannelJoinReward = decimal.NewFromInt(1)
	ReferredUserBonus = decimal.NewFromInt(2)
	ReferrerBonus     = decimal.NewFromInt(5)
)

// Ad view caps per UTC calendar windows.
const (
	DailyAdLimit  = 200
	HourlyAdLimit = 25
)

// Referrer-credit milestone thresholds for the referred user.
const (
	MilestoneChannelJoins = 4
	MilestoneAdViews      = 50
)

// CheckinRewards maps streak day 1..7 to the claimable reward.
var CheckinRewards = []decimal.Decimal{
	decimal.NewFromInt(1),
	decimal.NewFromInt(2),
	decimal.NewFromInt(4),
	decimal.NewFromInt(6),
	decimal.NewFromInt(10),
	decimal.NewFromInt(15),
	decimal.NewFromInt(20),
}
