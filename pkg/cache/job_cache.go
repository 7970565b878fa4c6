package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const jobCacheKeyPrefix = "job"

// CachedJob is the denormalized job read model stored in Redis as a hash.
// Money and dates are kept in their wire form so the hash is readable with
// redis-cli; empty strings mean null.
type CachedJob struct {
	ID             int64
	JobNumber      string
	CustomerID     string
	CustomerName   string
	Description    string
	Status         string
	QuotedPrice    string
	ActualPrice    string
	QuotedDate     string
	ScheduledDate  string
	CompletionDate string
	Notes          string
	CreatedAt      time.Time
}

// JobCache caches single job views.
// Key format: "job:{jobID}"
type JobCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewJobCache creates a JobCache whose entries expire after ttl.
func NewJobCache(r *RedisClient, ttl time.Duration) *JobCache {
	return &JobCache{client: r, ttl: ttl}
}

// Get retrieves a cached job. Returns redis.Nil when the key does not exist or has expired.
func (c *JobCache) Get(ctx context.Context, jobID int64) (*CachedJob, error) {
	vals, err := c.client.Client().HGetAll(ctx, JobKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedJob{
		ID:             id,
		JobNumber:      vals["job_number"],
		CustomerID:     vals["customer_id"],
		CustomerName:   vals["customer_name"],
		Description:    vals["description"],
		Status:         vals["status"],
		QuotedPrice:    vals["quoted_price"],
		ActualPrice:    vals["actual_price"],
		QuotedDate:     vals["quoted_date"],
		ScheduledDate:  vals["scheduled_date"],
		CompletionDate: vals["completion_date"],
		Notes:          vals["notes"],
		CreatedAt:      createdAt,
	}, nil
}

// Set writes job as a Redis hash and sets its TTL in one pipeline.
func (c *JobCache) Set(ctx context.Context, job *CachedJob) error {
	key := JobKey(job.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", strconv.FormatInt(job.ID, 10),
		"job_number", job.JobNumber,
		"customer_id", job.CustomerID,
		"customer_name", job.CustomerName,
		"description", job.Description,
		"status", job.Status,
		"quoted_price", job.QuotedPrice,
		"actual_price", job.ActualPrice,
		"quoted_date", job.QuotedDate,
		"scheduled_date", job.ScheduledDate,
		"completion_date", job.CompletionDate,
		"notes", job.Notes,
		"created_at", job.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached job.
func (c *JobCache) Delete(ctx context.Context, jobID int64) error {
	if err := c.client.Delete(ctx, JobKey(jobID)); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// JobKey builds the Redis key "job:{jobID}".
func JobKey(jobID int64) string {
	return jobCacheKeyPrefix + ":" + strconv.FormatInt(jobID, 10)
}
