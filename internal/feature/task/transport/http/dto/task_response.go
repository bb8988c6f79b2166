package dto

import (
	"time"

	"task_backend/internal/feature/task/domain/entity"
)

// TaskResponse is the API view of a task, including the fields derived at read time.
type TaskResponse struct {
	ID               string     `json:"id"`
	UserID           uint       `json:"userId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DueDate          *time.Time `json:"dueDate"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	Tags             []string   `json:"tags"`
	IsImportant      bool       `json:"isImportant"`
	CompletedAt      *time.Time `json:"completedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	IsOverdue        bool       `json:"isOverdue"`
	IsDueSoon        bool       `json:"isDueSoon"`
	FormattedDueDate *string    `json:"formattedDueDate"`
}

// NewTaskResponse renders t with its derived fields evaluated at now.
func NewTaskResponse(t *entity.Task, now time.Time) TaskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskResponse{
		ID:               t.ID,
		UserID:           t.OwnerID,
		Title:            t.Title,
		Description:      t.Description,
		DueDate:          t.DueDate,
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		Tags:             tags,
		IsImportant:      t.IsImportant,
		CompletedAt:      t.CompletedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		IsOverdue:        t.IsOverdue(now),
		IsDueSoon:        t.IsDueSoon(now),
		FormattedDueDate: t.FormattedDueDate(),
	}
}

// NewTaskResponses renders a list of tasks.
func NewTaskResponses(tasks []entity.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i], now))
	}
	return out
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Task TaskResponse `json:"task"`
}

// TaskListEnvelope wraps a list of tasks.
type TaskListEnvelope struct {
	Tasks []TaskResponse `json:"tasks"`
}

// TaskPageEnvelope is the data of GET /tasks.
type TaskPageEnvelope struct {
	Tasks      []TaskResponse    `json:"tasks"`
	Pagination entity.Pagination `json:"pagination"`
	Stats      entity.Stats      `json:"stats"`
}
