package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardKey is the single key holding the cached dashboard aggregate.
const DashboardKey = "dashboard:stats"

// CachedDashboard is the dashboard aggregate as stored in Redis.
// TotalRevenue is a decimal string.
type CachedDashboard struct {
	TotalJobs      int    `json:"total_jobs"`
	InProgressJobs int    `json:"in_progress_jobs"`
	CompletedJobs  int    `json:"completed_jobs"`
	TotalRevenue   string `json:"total_revenue"`
}

// DashboardCache caches the dashboard aggregate as one JSON string with a short TTL.
type DashboardCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewDashboardCache creates a DashboardCache whose entry expires after ttl.
func NewDashboardCache(r *RedisClient, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: r, ttl: ttl}
}

// Get returns the cached aggregate, or redis.Nil on a miss.
func (c *DashboardCache) Get(ctx context.Context) (*CachedDashboard, error) {
	raw, err := c.client.Client().Get(ctx, DashboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var d CachedDashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("cache decode dashboard: %w", err)
	}
	return &d, nil
}

// Set stores d until the TTL elapses or Delete is called.
func (c *DashboardCache) Set(ctx context.Context, d *CachedDashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("cache encode dashboard: %w", err)
	}
	if err := c.client.Client().Set(ctx, DashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete drops the cached aggregate so the next read recomputes it.
func (c *DashboardCache) Delete(ctx context.Context) error {
	if err := c.client.Delete(ctx, DashboardKey); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
