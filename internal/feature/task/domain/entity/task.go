// Package entity defines the domain models for the task feature.
package entity

import (
	"math"
	"time"
)

// Status is the progress state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in rank order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s.Rank() > 0
}

// Rank orders statuses pending < in-progress < completed. Unknown values rank 0.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return 0
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

const (
	// DueDateLayout is the date-only rendering of a due date.
	DueDateLayout = "2006-01-02"
	// DueSoonWindow is how far ahead IsDueSoon looks.
	DueSoonWindow = 3 * 24 * time.Hour
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string
	OwnerID     uint
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Status      Status
	Tags        []string
	IsImportant bool
	// CompletedAt is non-nil exactly when Status is StatusCompleted.
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New returns a task for owner with the default priority, status and tags applied.
func New(ownerID uint, title string) *Task {
	return &Task{
		OwnerID:  ownerID,
		Title:    title,
		Priority: PriorityMedium,
		Status:   StatusPending,
		Tags:     []string{},
	}
}

// SetStatus assigns status and keeps CompletedAt consistent with it.
// Entering completed stamps now; staying completed keeps the original stamp;
// leaving completed clears it.
func (t *Task) SetStatus(status Status, now time.Time) {
	switch {
	case status != StatusCompleted:
		t.CompletedAt = nil
	case t.Status != StatusCompleted || t.CompletedAt == nil:
		t.CompletedAt = &now
	}
	t.Status = status
}

// MarkCompleted completes the task and always restamps CompletedAt with now.
func (t *Task) MarkCompleted(now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// ToggleImportance flips the importance flag.
func (t *Task) ToggleImportance() {
	t.IsImportant = !t.IsImportant
}

// IsOverdue reports whether an open task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// IsDueSoon reports whether an open task is due within the next three days,
// counting partial days as whole ones.
func (t *Task) IsDueSoon(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	days := math.Ceil(t.DueDate.Sub(now).Hours() / 24)
	return days >= 0 && days <= 3
}

// FormattedDueDate renders the due date as YYYY-MM-DD in the local zone, or nil.
func (t *Task) FormattedDueDate() *string {
	if t.DueDate == nil {
		return nil
	}
	s := t.DueDate.In(time.Local).Format(DueDateLayout)
	return &s
}

// Stats aggregates an owner's tasks.
type Stats struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"inProgress"`
	HighPriority int64 `json:"highPriority"`
	Overdue      int64 `json:"overdue"`
}
