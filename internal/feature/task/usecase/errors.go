// Package usecase implements task lifecycle and query logic.
package usecase

import "task_backend/internal/shared/apperr"

var (
	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = apperr.NotFound("Task not found")

	// The ownership errors differ only in wording per operation.
	ErrTaskAccessDenied = apperr.Authorization("Not authorized to access this task")
	ErrTaskUpdateDenied = apperr.Authorization("Not authorized to update this task")
	ErrTaskDeleteDenied = apperr.Authorization("Not authorized to delete this task")
	ErrTaskModifyDenied = apperr.Authorization("Not authorized to modify this task")

	// ErrDueDateInPast is returned when a due date falls before today.
	ErrDueDateInPast = apperr.Validation("dueDate", "Due date must be today or in the future")

	// ErrInvalidDueDate is returned when a due date cannot be parsed.
	ErrInvalidDueDate = apperr.Validation("dueDate", "Due date must be a valid date")
)
