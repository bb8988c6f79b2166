package usecase

import (
	"strconv"
	"strings"
	"time"

	"task_backend/internal/feature/task/domain/entity"
	"task_backend/internal/shared/apperr"
	"task_backend/internal/shared/validate"
)

const (
	titleMessage       = "Title must be between 1 and 100 characters"
	descriptionMessage = "Description cannot exceed 500 characters"
	priorityMessage    = "Priority must be low, medium, or high"
	statusMessage      = "Status must be pending, in-progress, or completed"
	tagsMessage        = "Tags must be an array with maximum 10 items"
	tagMessage         = "Each tag must be between 1 and 20 characters"

	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100

	defaultDueSoonDays = 3
	maxDueSoonDays     = 30
)

// fieldMessages is shared by the create and update inputs.
var fieldMessages = validate.Messages{
	"title.required":  titleMessage,
	"title.min":       titleMessage,
	"title.max":       titleMessage,
	"description.max": descriptionMessage,
	"priority.oneof":  priorityMessage,
	"status.oneof":    statusMessage,
	"tags.max":        tagsMessage,
	"tags[].min":      tagMessage,
	"tags[].max":      tagMessage,
	"tags[].required": tagMessage,
}

// CreateTaskInput holds the fields of a new task. Empty optional fields take their defaults.
type CreateTaskInput struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=20"`
	IsImportant bool     `json:"isImportant"`
}

func (CreateTaskInput) ValidationMessages() validate.Messages { return fieldMessages }

// UpdateTaskInput is a partial update: nil fields are left unchanged.
// A non-nil empty DueDate clears the due date; a non-nil empty Tags clears the tags.
type UpdateTaskInput struct {
	Title       *string  `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=500"`
	DueDate     *string  `json:"dueDate"`
	Priority    *string  `json:"priority" validate:"omitnil,oneof=low medium high"`
	Status      *string  `json:"status" validate:"omitnil,oneof=pending in-progress completed"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=20"`
	IsImportant *bool    `json:"isImportant"`
}

func (UpdateTaskInput) ValidationMessages() validate.Messages { return fieldMessages }

// ListInput carries the raw query parameters of a task listing.
type ListInput struct {
	Status    string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority  string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Important string `json:"important" validate:"omitempty,boolean"`
	Search    string `json:"search" validate:"max=100"`
	Sort      string `json:"sort" validate:"omitempty,oneof=title dueDate priority status createdAt updatedAt"`
	Order     string `json:"order" validate:"omitempty,oneof=asc desc"`
	Page      string `json:"page" validate:"omitempty,number"`
	Limit     string `json:"limit" validate:"omitempty,number"`
}

func (ListInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"status.oneof":      statusMessage,
		"priority.oneof":    priorityMessage,
		"important.boolean": "Important must be true or false",
		"search.max":        "Search term must be between 1 and 100 characters",
		"sort.oneof":        "Invalid sort field",
		"order.oneof":       "Order must be asc or desc",
		"page.number":       pageMessage,
		"limit.number":      limitMessage,
	}
}

const (
	pageMessage  = "Page must be a positive integer"
	limitMessage = "Limit must be between 1 and 100"
	daysMessage  = "Days must be between 1 and 30"
)

// toQuery converts a validated ListInput into a repository query for owner.
func (in ListInput) toQuery(ownerID uint) (entity.ListQuery, error) {
	q := entity.ListQuery{
		OwnerID:  ownerID,
		Status:   entity.Status(in.Status),
		Priority: entity.Priority(in.Priority),
		Search:   in.Search,
		Sort:     entity.SortCreatedAt,
		Order:    entity.OrderDesc,
		Page:     defaultPage,
		Limit:    defaultLimit,
	}
	if in.Sort != "" {
		q.Sort = entity.SortField(in.Sort)
	}
	if in.Order != "" {
		q.Order = entity.SortOrder(in.Order)
	}
	if in.Important != "" {
		important, _ := strconv.ParseBool(in.Important)
		q.Important = &important
	}
	if in.Page != "" {
		page, err := strconv.Atoi(in.Page)
		if err != nil || page < 1 {
			return q, apperr.Validation("page", pageMessage)
		}
		q.Page = page
	}
	if in.Limit != "" {
		limit, err := strconv.Atoi(in.Limit)
		if err != nil || limit < 1 || limit > maxLimit {
			return q, apperr.Validation("limit", limitMessage)
		}
		q.Limit = limit
	}
	return q, nil
}

// parseDueSoonDays reads the look-ahead window in days, defaulting to three.
func parseDueSoonDays(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultDueSoonDays, nil
	}
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days < 1 || days > maxDueSoonDays {
		return 0, apperr.Validation("days", daysMessage)
	}
	return days, nil
}

// dueDateLayouts are the accepted ISO 8601 forms, most specific first.
var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", entity.DueDateLayout}

// parseDueDate parses an ISO 8601 date or timestamp. Values without a zone,
// including bare dates, are read in the local zone.
func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}

// startOfDay returns local midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// checkDueDate rejects due dates on a calendar day before today.
func checkDueDate(due, now time.Time) error {
	if startOfDay(due).Before(startOfDay(now)) {
		return ErrDueDateInPast
	}
	return nil
}

func trimTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.TrimSpace(tag)
	}
	return out
}
