// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"task_backend/internal/feature/task/domain/entity"
	"task_backend/internal/feature/task/usecase"
)

// CachingTaskRepository decorates a TaskRepository with a Redis cache for per-owner stats.
// Every mutation invalidates the owner's entry; all other reads pass through.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "task-stats".
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "task-stats"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists the task and invalidates the owner's stats.
func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// Save writes the task and invalidates the owner's stats.
func (c *CachingTaskRepository) Save(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Save(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// Delete removes the task and invalidates the owner's stats.
func (c *CachingTaskRepository) Delete(ctx context.Context, id string, ownerID uint) error {
	if err := c.inner.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

// Stats returns the owner's stats, checking cache first then falling back to the database.
// Cached overdue counts may lag by up to ttl.
func (c *CachingTaskRepository) Stats(ctx context.Context, ownerID uint, now time.Time) (entity.Stats, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Stats(ctx, ownerID, now)
	}

	key := c.cacheKey(ownerID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Stats
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Stats(ctx, ownerID, now)
	if err != nil {
		return entity.Stats{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingTaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	return c.inner.FindByID(ctx, id)
}

func (c *CachingTaskRepository) List(ctx context.Context, q entity.ListQuery) ([]entity.Task, int64, error) {
	return c.inner.List(ctx, q)
}

func (c *CachingTaskRepository) FindOverdue(ctx context.Context, ownerID uint, now time.Time) ([]entity.Task, error) {
	return c.inner.FindOverdue(ctx, ownerID, now)
}

func (c *CachingTaskRepository) FindDueBetween(ctx context.Context, ownerID uint, from, to time.Time) ([]entity.Task, error) {
	return c.inner.FindDueBetween(ctx, ownerID, from, to)
}

// invalidate drops the owner's cached stats. Failures are logged, never returned:
// the write already succeeded and the entry expires with ttl anyway.
func (c *CachingTaskRepository) invalidate(ctx context.Context, ownerID uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.cacheKey(ownerID)).Err(); err != nil {
		slog.Warn("failed to invalidate task stats cache", "user_id", ownerID, "error", err)
	}
}

// cacheKey generates the cache key for an owner's stats.
func (c *CachingTaskRepository) cacheKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, ownerID)
}
