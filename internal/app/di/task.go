// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	taskadapters "task_backend/internal/feature/task/adapters"
	"task_backend/internal/feature/task/usecase"
	"task_backend/internal/platform/cache"
)

// statsTTL bounds how stale a cached overdue count may be.
const statsTTL = 30 * time.Second

// NewTaskRepository creates a TaskRepository implementation.
// If Redis is available, stats are cached in Redis. Otherwise, every read goes to the database.
func NewTaskRepository(db *gorm.DB, rdb *redis.Client) usecase.TaskRepository {
	repo := taskadapters.NewTaskRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingTaskRepository(rdb, statsTTL, repo, "task-stats")
}
