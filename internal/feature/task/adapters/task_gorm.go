package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task_backend/internal/feature/task/domain/entity"
	"task_backend/internal/feature/task/usecase"
)

const likeEscape = "!"

type taskRepository struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskRepository)(nil)

// NewTaskRepository creates a GORM task repository.
func NewTaskRepository(db *gorm.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	m := toModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	task.ID = m.ID
	task.CreatedAt = m.CreatedAt
	task.UpdatedAt = m.UpdatedAt
	return nil
}

// FindByID looks the task up by ID only; ownership is checked by the caller.
// IDs that are not UUIDs cannot exist and report not found.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usecase.ErrTaskNotFound
	}
	var m TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	t := toEntity(&m)
	return &t, nil
}

// Save overwrites every mutable column, including zero values.
func (r *taskRepository) Save(ctx context.Context, task *entity.Task) error {
	m := toModel(task)
	m.UpdatedAt = r.db.NowFunc()
	res := r.db.WithContext(ctx).
		Model(&TaskModel{ID: task.ID}).
		Select("*").
		Omit("id", "owner_id", "created_at").
		UpdateColumns(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	task.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&TaskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

// List applies the owner scope first, then the optional filters, and returns
// the requested page together with the total match count.
func (r *taskRepository) List(ctx context.Context, q entity.ListQuery) ([]entity.Task, int64, error) {
	base := r.db.WithContext(ctx).Model(&TaskModel{}).Where("owner_id = ?", q.OwnerID)
	if q.Status != "" {
		base = base.Where("status = ?", string(q.Status))
	}
	if q.Priority != "" {
		base = base.Where("priority = ?", string(q.Priority))
	}
	if q.Important != nil {
		base = base.Where("is_important = ?", *q.Important)
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		base = base.Where(
			"(title_folded LIKE ? ESCAPE '"+likeEscape+"' OR description_folded LIKE ? ESCAPE '"+likeEscape+"')",
			pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []TaskModel
	err := base.Session(&gorm.Session{}).
		Order(orderClause(q.Sort, q.Order)).
		Order("created_at DESC").
		Order("id ASC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toEntities(rows), total, nil
}

// Stats aggregates all of the owner's tasks in a single query.
func (r *taskRepository) Stats(ctx context.Context, ownerID uint, now time.Time) (entity.Stats, error) {
	var stats entity.Stats
	err := r.db.WithContext(ctx).Model(&TaskModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS high_priority,
			COALESCE(SUM(CASE WHEN status <> ? AND due_date IS NOT NULL AND due_date < ? THEN 1 ELSE 0 END), 0) AS overdue`,
			string(entity.StatusCompleted),
			string(entity.StatusPending),
			string(entity.StatusInProgress),
			string(entity.PriorityHigh),
			string(entity.StatusCompleted), now.UTC(),
		).
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	if err != nil {
		return entity.Stats{}, err
	}
	return stats, nil
}

func (r *taskRepository) FindOverdue(ctx context.Context, ownerID uint, now time.Time) ([]entity.Task, error) {
	return r.findOpen(ctx, ownerID, "due_date < ?", now.UTC())
}

func (r *taskRepository) FindDueBetween(ctx context.Context, ownerID uint, from, to time.Time) ([]entity.Task, error) {
	return r.findOpen(ctx, ownerID, "due_date >= ? AND due_date <= ?", from.UTC(), to.UTC())
}

// findOpen returns the owner's tasks that are not completed, have a due date
// and match cond, earliest due first.
func (r *taskRepository) findOpen(ctx context.Context, ownerID uint, cond string, args ...any) ([]entity.Task, error) {
	var rows []TaskModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status <> ? AND due_date IS NOT NULL", ownerID, string(entity.StatusCompleted)).
		Where(cond, args...).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// orderClause maps an API sort field to SQL. Priority and status sort by rank,
// and tasks without a due date always sort last.
func orderClause(field entity.SortField, order entity.SortOrder) string {
	dir := " DESC"
	if order == entity.OrderAsc {
		dir = " ASC"
	}
	switch field {
	case entity.SortTitle:
		return "title" + dir
	case entity.SortDueDate:
		return "CASE WHEN due_date IS NULL THEN 1 ELSE 0 END ASC, due_date" + dir
	case entity.SortPriority:
		return "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END" + dir
	case entity.SortStatus:
		return "CASE status WHEN 'pending' THEN 1 WHEN 'in-progress' THEN 2 WHEN 'completed' THEN 3 ELSE 0 END" + dir
	case entity.SortUpdatedAt:
		return "updated_at" + dir
	default:
		return "created_at" + dir
	}
}

// escapeLike escapes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(s)
}
