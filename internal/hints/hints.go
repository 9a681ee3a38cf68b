package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AdHint is the UI-facing advisory snapshot of a user's ad rate-limit state.
type AdHint struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	DailyCount  int    `json:"daily_count"`
	DailyLimit  int    `json:"daily_limit"`
	HourlyCount int    `json:"hourly_count"`
	HourlyLimit int    `json:"hourly_limit"`
}

// Cache holds short-lived advisory copies of ad rate-limit hints so the UI
// can poll cheaply. It is never consulted by ledger transactions; a nil Cache
// disables caching entirely.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect pings redis and returns a Cache, or an error when the address is
// unreachable.
func Connect(addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{rdb: rdb, ttl: 15 * time.Second}, nil
}

func adStatusKey(userID uint) string {
	return fmt.Sprintf("adstatus:%d", userID)
}

// GetAdStatus returns a cached hint, or nil on miss or when disabled.
func (c *Cache) GetAdStatus(ctx context.Context, userID uint) *AdHint {
	if c == nil {
		return nil
	}

	raw, err := c.rdb.Get(ctx, adStatusKey(userID)).Bytes()
	if err != nil {
		return nil
	}

	var h AdHint
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil
	}
	return &h
}

// SetAdStatus stores a hint with a short TTL. Errors are ignored; the cache
// is best effort.
func (c *Cache) SetAdStatus(ctx context.Context, userID uint, h *AdHint) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(h)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, adStatusKey(userID), raw, c.ttl)
}

// InvalidateAdStatus drops the hint after a counter change.
func (c *Cache) InvalidateAdStatus(ctx context.Context, userID uint) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, adStatusKey(userID))
}
