package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"task_backend/internal/feature/task/domain/entity"
	"task_backend/internal/shared/validate"
)

// TaskRepository abstracts task persistence and queries.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TaskRepository interface {
	// Create persists a new task and assigns its ID and timestamps.
	Create(ctx context.Context, task *entity.Task) error
	// FindByID returns the task with id regardless of owner, or ErrTaskNotFound.
	FindByID(ctx context.Context, id string) (*entity.Task, error)
	// Save writes every field of an existing task.
	Save(ctx context.Context, task *entity.Task) error
	// Delete permanently removes the owner's task.
	Delete(ctx context.Context, id string, ownerID uint) error
	// List returns one page of tasks matching q and the total number of matches.
	List(ctx context.Context, q entity.ListQuery) ([]entity.Task, int64, error)
	// Stats aggregates every task of owner, evaluating overdue at now.
	Stats(ctx context.Context, ownerID uint, now time.Time) (entity.Stats, error)
	// FindOverdue returns open tasks of owner due before now.
	FindOverdue(ctx context.Context, ownerID uint, now time.Time) ([]entity.Task, error)
	// FindDueBetween returns open tasks of owner due within [from, to].
	FindDueBetween(ctx context.Context, ownerID uint, from, to time.Time) ([]entity.Task, error)
}

// ListResult is one page of tasks with its pagination and the owner's stats.
type ListResult struct {
	Tasks      []entity.Task
	Pagination entity.Pagination
	Stats      entity.Stats
}

// taskUsecase implements task lifecycle and query operations.
type taskUsecase struct {
	tasks  TaskRepository
	schema *validate.Schema
	now    func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase.
func NewTaskUsecase(tasks TaskRepository) *taskUsecase {
	return &taskUsecase{
		tasks:  tasks,
		schema: validate.New(),
		now:    time.Now,
	}
}

// List returns a filtered, sorted page of the owner's tasks plus stats over all of them.
func (u *taskUsecase) List(ctx context.Context, ownerID uint, in ListInput) (*ListResult, error) {
	in.Search = strings.TrimSpace(in.Search)
	if err := u.schema.Check(in); err != nil {
		return nil, err
	}
	q, err := in.toQuery(ownerID)
	if err != nil {
		return nil, err
	}

	tasks, total, err := u.tasks.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	stats, err := u.tasks.Stats(ctx, ownerID, u.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}

	return &ListResult{
		Tasks:      tasks,
		Pagination: entity.NewPagination(q.Page, q.Limit, total),
		Stats:      stats,
	}, nil
}

// Get returns a single task owned by ownerID.
func (u *taskUsecase) Get(ctx context.Context, ownerID uint, id string) (*entity.Task, error) {
	return u.owned(ctx, ownerID, id, ErrTaskAccessDenied)
}

// owned loads the task and checks existence before ownership, so a foreign
// task yields denied rather than not-found.
func (u *taskUsecase) owned(ctx context.Context, ownerID uint, id string, denied error) (*entity.Task, error) {
	task, err := u.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		slog.Warn("task ownership check failed", "task_id", id, "user_id", ownerID)
		return nil, denied
	}
	return task, nil
}

// Create validates the input, applies defaults and stores a new task for ownerID.
func (u *taskUsecase) Create(ctx context.Context, ownerID uint, in CreateTaskInput) (*entity.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = trimTags(in.Tags)
	if err := u.schema.Check(in); err != nil {
		return nil, err
	}

	now := u.now()
	task := entity.New(ownerID, in.Title)
	task.Description = in.Description
	task.IsImportant = in.IsImportant
	if in.Tags != nil {
		task.Tags = in.Tags
	}
	if in.Priority != "" {
		task.Priority = entity.Priority(in.Priority)
	}
	if in.Status != "" {
		task.SetStatus(entity.Status(in.Status), now)
	}
	if strings.TrimSpace(in.DueDate) != "" {
		due, err := parseDueDate(in.DueDate)
		if err != nil {
			return nil, err
		}
		if err := checkDueDate(due, now); err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	slog.Info("task created", "task_id", task.ID, "user_id", ownerID)
	return task, nil
}

// Update applies the supplied fields to the owner's task. The due date rule is
// skipped when the same update marks the task completed.
func (u *taskUsecase) Update(ctx context.Context, ownerID uint, id string, in UpdateTaskInput) (*entity.Task, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		in.Description = &desc
	}
	in.Tags = trimTags(in.Tags)
	if err := u.schema.Check(in); err != nil {
		return nil, err
	}

	task, err := u.owned(ctx, ownerID, id, ErrTaskUpdateDenied)
	if err != nil {
		return nil, err
	}

	now := u.now()
	completing := in.Status != nil && entity.Status(*in.Status) == entity.StatusCompleted

	var due *time.Time
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		parsed, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		if !completing {
			if err := checkDueDate(parsed, now); err != nil {
				return nil, err
			}
		}
		due = &parsed
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		task.DueDate = due
	}
	if in.Priority != nil {
		task.Priority = entity.Priority(*in.Priority)
	}
	if in.Status != nil {
		task.SetStatus(entity.Status(*in.Status), now)
	}
	if in.Tags != nil {
		task.Tags = in.Tags
	}
	if in.IsImportant != nil {
		task.IsImportant = *in.IsImportant
	}

	if err := u.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete permanently removes the owner's task.
func (u *taskUsecase) Delete(ctx context.Context, ownerID uint, id string) error {
	if _, err := u.owned(ctx, ownerID, id, ErrTaskDeleteDenied); err != nil {
		return err
	}
	if err := u.tasks.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	slog.Info("task deleted", "task_id", id, "user_id", ownerID)
	return nil
}

// ToggleImportance flips the importance flag of the owner's task.
func (u *taskUsecase) ToggleImportance(ctx context.Context, ownerID uint, id string) (*entity.Task, error) {
	return u.modify(ctx, ownerID, id, func(t *entity.Task, _ time.Time) { t.ToggleImportance() })
}

// MarkCompleted completes the owner's task, restamping completedAt.
func (u *taskUsecase) MarkCompleted(ctx context.Context, ownerID uint, id string) (*entity.Task, error) {
	return u.modify(ctx, ownerID, id, func(t *entity.Task, now time.Time) { t.MarkCompleted(now) })
}

// MarkInProgress moves the owner's task to in-progress.
func (u *taskUsecase) MarkInProgress(ctx context.Context, ownerID uint, id string) (*entity.Task, error) {
	return u.modify(ctx, ownerID, id, func(t *entity.Task, now time.Time) { t.SetStatus(entity.StatusInProgress, now) })
}

// MarkPending moves the owner's task back to pending.
func (u *taskUsecase) MarkPending(ctx context.Context, ownerID uint, id string) (*entity.Task, error) {
	return u.modify(ctx, ownerID, id, func(t *entity.Task, now time.Time) { t.SetStatus(entity.StatusPending, now) })
}

func (u *taskUsecase) modify(ctx context.Context, ownerID uint, id string, apply func(*entity.Task, time.Time)) (*entity.Task, error) {
	task, err := u.owned(ctx, ownerID, id, ErrTaskModifyDenied)
	if err != nil {
		return nil, err
	}
	apply(task, u.now())
	if err := u.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Overdue returns the owner's open tasks whose due date has passed.
func (u *taskUsecase) Overdue(ctx context.Context, ownerID uint) ([]entity.Task, error) {
	tasks, err := u.tasks.FindOverdue(ctx, ownerID, u.now())
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue tasks: %w", err)
	}
	return tasks, nil
}

// DueSoon returns the owner's open tasks due within the next days days.
// An empty days means three; otherwise it must be between 1 and 30.
func (u *taskUsecase) DueSoon(ctx context.Context, ownerID uint, days string) ([]entity.Task, error) {
	n, err := parseDueSoonDays(days)
	if err != nil {
		return nil, err
	}
	now := u.now()
	tasks, err := u.tasks.FindDueBetween(ctx, ownerID, now, now.Add(time.Duration(n)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks due soon: %w", err)
	}
	return tasks, nil
}
