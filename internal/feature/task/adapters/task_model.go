// Package adapters provides the GORM-backed task repository.
package adapters

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task_backend/internal/feature/task/domain/entity"
)

// TaskModel is the persisted form of entity.Task.
type TaskModel struct {
	ID          string     `gorm:"primaryKey;size:36"`
	OwnerID     uint       `gorm:"not null;index:idx_tasks_owner_status,priority:1;index:idx_tasks_owner_priority,priority:1;index:idx_tasks_owner_due,priority:1;index:idx_tasks_owner_created,priority:1"`
	Title       string     `gorm:"size:100;not null"`
	Description string     `gorm:"size:500;not null;default:''"`
	DueDate     *time.Time `gorm:"index:idx_tasks_owner_due,priority:2"`
	Priority    string     `gorm:"size:16;not null;default:medium;index:idx_tasks_owner_priority,priority:2"`
	Status      string     `gorm:"size:16;not null;default:pending;index:idx_tasks_owner_status,priority:2"`
	Tags        []string   `gorm:"serializer:json;type:text"`
	IsImportant bool       `gorm:"not null;default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"index:idx_tasks_owner_created,priority:2"`
	UpdatedAt   time.Time

	// Lower-cased Title and Description matched by search. SQLite's LOWER()
	// only folds ASCII.
	TitleFolded       string `gorm:"type:text;not null;default:''"`
	DescriptionFolded string `gorm:"type:text;not null;default:''"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

// BeforeCreate assigns a random UUID when the ID is empty.
func (m *TaskModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// toModel converts e for storage. Timestamps are stored in UTC so that
// comparisons stay correct on drivers that store times as text.
func toModel(e *entity.Task) *TaskModel {
	return &TaskModel{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		DueDate:     utc(e.DueDate),
		Priority:    string(e.Priority),
		Status:      string(e.Status),
		Tags:        e.Tags,
		IsImportant: e.IsImportant,
		CompletedAt: utc(e.CompletedAt),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,

		TitleFolded:       strings.ToLower(e.Title),
		DescriptionFolded: strings.ToLower(e.Description),
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toEntity(m *TaskModel) entity.Task {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return entity.Task{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		Priority:    entity.Priority(m.Priority),
		Status:      entity.Status(m.Status),
		Tags:        tags,
		IsImportant: m.IsImportant,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toEntities(ms []TaskModel) []entity.Task {
	out := make([]entity.Task, 0, len(ms))
	for i := range ms {
		out = append(out, toEntity(&ms[i]))
	}
	return out
}
