package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	task := New(7, "T1")

	assert.Equal(t, uint(7), task.OwnerID)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, StatusPending, task.Status)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.False(t, task.IsImportant)
	assert.Nil(t, task.CompletedAt)
}

func TestTask_SetStatus(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	task := New(1, "T")

	task.SetStatus(StatusInProgress, t0)
	assert.Nil(t, task.CompletedAt, "in-progress has no completion time")

	task.SetStatus(StatusCompleted, t0)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(t0))

	task.SetStatus(StatusCompleted, t1)
	assert.True(t, task.CompletedAt.Equal(t0), "re-setting completed keeps the first stamp")

	task.SetStatus(StatusPending, t1)
	assert.Nil(t, task.CompletedAt, "leaving completed clears the stamp")
	assert.Equal(t, StatusPending, task.Status)
}

func TestTask_MarkCompleted_Restamps(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	task := New(1, "T")

	task.MarkCompleted(t0)
	task.MarkCompleted(t1)

	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(t1))
}

func TestTask_ToggleImportance(t *testing.T) {
	t.Parallel()

	task := New(1, "T")
	task.ToggleImportance()
	assert.True(t, task.IsImportant)
	task.ToggleImportance()
	assert.False(t, task.IsImportant)
}

func TestTask_DerivedFlags(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name        string
		due         *time.Time
		status      Status
		wantOverdue bool
		wantDueSoon bool
	}{
		{"no due date", nil, StatusPending, false, false},
		{"one hour ago", at(-time.Hour), StatusPending, true, true},
		{"two days ago", at(-48 * time.Hour), StatusPending, true, false},
		{"in one hour", at(time.Hour), StatusInProgress, false, true},
		{"in exactly three days", at(72 * time.Hour), StatusPending, false, true},
		{"in three days and a minute", at(72*time.Hour + time.Minute), StatusPending, false, false},
		{"completed past due", at(-48 * time.Hour), StatusCompleted, false, false},
		{"completed due soon", at(time.Hour), StatusCompleted, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.wantOverdue, task.IsOverdue(now), "IsOverdue")
			assert.Equal(t, tt.wantDueSoon, task.IsDueSoon(now), "IsDueSoon")
		})
	}
}

func TestTask_FormattedDueDate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, (&Task{}).FormattedDueDate())

	due := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	got := (&Task{DueDate: &due}).FormattedDueDate()
	require.NotNil(t, got)
	assert.Equal(t, "2026-03-04", *got)
}

func TestRanks(t *testing.T) {
	t.Parallel()

	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Less(t, StatusPending.Rank(), StatusInProgress.Rank())
	assert.Less(t, StatusInProgress.Rank(), StatusCompleted.Rank())
	assert.False(t, Status("done").Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, limit int
		total       int64
		wantPages   int64
	}{
		{1, 20, 0, 0},
		{1, 20, 20, 1},
		{2, 2, 5, 3},
		{1, 100, 101, 2},
	}
	for _, tt := range tests {
		p := NewPagination(tt.page, tt.limit, tt.total)
		assert.Equal(t, tt.wantPages, p.Pages, "total=%d limit=%d", tt.total, tt.limit)
	}

	assert.Equal(t, 2, ListQuery{Page: 2, Limit: 2}.Offset())
	assert.Equal(t, 0, ListQuery{Page: 0, Limit: 2}.Offset())
}
