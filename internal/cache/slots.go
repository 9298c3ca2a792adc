package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// SlotCache keeps computed availability in redis for a short window.
// Availability is the hottest read (clients poll it while picking a time)
// and tolerates brief staleness; writes invalidate the employee's day.
type SlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSlotCache(rdb *redis.Client, logger zerolog.Logger) *SlotCache {
	return &SlotCache{
		rdb:    rdb,
		ttl:    60 * time.Second,
		logger: logger,
	}
}

func slotKey(employeeID, serviceID uint, day string) string {
	return fmt.Sprintf("slots:%d:%s:%d", employeeID, day, serviceID)
}

func (c *SlotCache) Get(ctx context.Context, employeeID, serviceID uint, day string) ([]string, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, slotKey(employeeID, serviceID, day)).Result()
	if err != nil {
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, employeeID, serviceID uint, day string, slots []string) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, slotKey(employeeID, serviceID, day), raw, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("slot cache set failed")
	}
}

// InvalidateDay drops every cached service-duration variant for one
// employee/day after an appointment write.
func (c *SlotCache) InvalidateDay(ctx context.Context, employeeID uint, day string) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := fmt.Sprintf("slots:%d:%s:*", employeeID, day)
	iter := c.rdb.Scan(ctx, 0, pattern, 50).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug().Err(err).Msg("slot cache invalidate failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug().Err(err).Msg("slot cache scan failed")
	}
}
