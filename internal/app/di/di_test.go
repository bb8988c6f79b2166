package di

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"task_backend/internal/platform/cache"
	"task_backend/internal/platform/mail"
	"task_backend/internal/platform/ratelimit"
)

func TestNewTaskRepository(t *testing.T) {
	db := &gorm.DB{}

	_, cached := NewTaskRepository(db, nil).(*cache.CachingTaskRepository)
	assert.False(t, cached, "without Redis the plain repository is used")

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	_, cached = NewTaskRepository(db, rdb).(*cache.CachingTaskRepository)
	assert.True(t, cached)
}

func TestNewMailer(t *testing.T) {
	assert.IsType(t, &mail.LogMailer{}, NewMailer(mail.Config{}))
	assert.IsType(t, &mail.HTTPMailer{}, NewMailer(mail.Config{APIURL: "https://mail.x.com/send", Timeout: time.Second}))
}

func TestNewRateLimiter(t *testing.T) {
	cfg := ratelimit.Config{Requests: 1, Window: time.Minute}
	assert.IsType(t, &ratelimit.FixedWindowLimiter{}, NewRateLimiter(cfg, nil))

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	assert.IsType(t, &ratelimit.SlidingWindowLimiter{}, NewRateLimiter(cfg, rdb))
}
