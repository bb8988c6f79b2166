// Package handler provides the HTTP handlers for the task feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task_backend/internal/feature/task/domain/entity"
	"task_backend/internal/feature/task/transport/http/dto"
	"task_backend/internal/feature/task/usecase"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/response"
)

// TaskUsecase defines the task operations used by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type TaskUsecase interface {
	List(ctx context.Context, ownerID uint, in usecase.ListInput) (*usecase.ListResult, error)
	Get(ctx context.Context, ownerID uint, id string) (*entity.Task, error)
	Create(ctx context.Context, ownerID uint, in usecase.CreateTaskInput) (*entity.Task, error)
	Update(ctx context.Context, ownerID uint, id string, in usecase.UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, ownerID uint, id string) error
	ToggleImportance(ctx context.Context, ownerID uint, id string) (*entity.Task, error)
	MarkCompleted(ctx context.Context, ownerID uint, id string) (*entity.Task, error)
	MarkInProgress(ctx context.Context, ownerID uint, id string) (*entity.Task, error)
	MarkPending(ctx context.Context, ownerID uint, id string) (*entity.Task, error)
	Overdue(ctx context.Context, ownerID uint) ([]entity.Task, error)
	DueSoon(ctx context.Context, ownerID uint, days string) ([]entity.Task, error)
}

// TaskHandler handles HTTP requests for tasks. Every route requires authentication.
type TaskHandler struct {
	tasks TaskUsecase
	now   func() time.Time
}

// NewTaskHandler creates a new TaskHandler with the injected usecase.
func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks, now: time.Now}
}

func (h *TaskHandler) ownerID(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Not authorized")
	}
	return id, ok
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn("invalid request body", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *TaskHandler) writeTask(c *gin.Context, status int, message string, task *entity.Task) {
	response.OK(c, status, message, dto.TaskEnvelope{Task: dto.NewTaskResponse(task, h.now())})
}

// List handles GET /tasks.
func (h *TaskHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	res, err := h.tasks.List(c.Request.Context(), ownerID, usecase.ListInput{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Important: c.Query("important"),
		Search:    c.Query("search"),
		Sort:      c.Query("sort"),
		Order:     c.Query("order"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.TaskPageEnvelope{
		Tasks:      dto.NewTaskResponses(res.Tasks, h.now()),
		Pagination: res.Pagination,
		Stats:      res.Stats,
	})
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writeTask(c, http.StatusOK, "", task)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), ownerID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        req.Tags,
		IsImportant: req.IsImportant,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writeTask(c, http.StatusCreated, "Task created successfully", task)
}

// Update handles PUT /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), ownerID, c.Param("id"), usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        req.Tags,
		IsImportant: req.IsImportant,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.writeTask(c, http.StatusOK, "Task updated successfully", task)
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Task deleted successfully", nil)
}

// ToggleImportance handles PATCH /tasks/:id/toggle-importance.
func (h *TaskHandler) ToggleImportance(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	task, err := h.tasks.ToggleImportance(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Task marked as not important"
	if task.IsImportant {
		message = "Task marked as important"
	}
	h.writeTask(c, http.StatusOK, message, task)
}

// transition adapts a status helper of the usecase into a handler.
func (h *TaskHandler) transition(message string, apply func(ctx context.Context, ownerID uint, id string) (*entity.Task, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := h.ownerID(c)
		if !ok {
			return
		}
		task, err := apply(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		h.writeTask(c, http.StatusOK, message, task)
	}
}

// Complete handles PATCH /tasks/:id/complete.
func (h *TaskHandler) Complete(c *gin.Context) {
	h.transition("Task marked as completed", h.tasks.MarkCompleted)(c)
}

// InProgress handles PATCH /tasks/:id/in-progress.
func (h *TaskHandler) InProgress(c *gin.Context) {
	h.transition("Task marked as in progress", h.tasks.MarkInProgress)(c)
}

// Pending handles PATCH /tasks/:id/pending.
func (h *TaskHandler) Pending(c *gin.Context) {
	h.transition("Task marked as pending", h.tasks.MarkPending)(c)
}

// Overdue handles GET /tasks/overdue.
func (h *TaskHandler) Overdue(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.Overdue(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.TaskListEnvelope{Tasks: dto.NewTaskResponses(tasks, h.now())})
}

// DueSoon handles GET /tasks/due-soon.
func (h *TaskHandler) DueSoon(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.DueSoon(c.Request.Context(), ownerID, c.Query("days"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "", dto.TaskListEnvelope{Tasks: dto.NewTaskResponses(tasks, h.now())})
}

// RegisterRoutes mounts the task routes on rg. rg must already require authentication.
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/overdue", h.Overdue)
	rg.GET("/due-soon", h.DueSoon)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/toggle-importance", h.ToggleImportance)
	rg.PATCH("/:id/complete", h.Complete)
	rg.PATCH("/:id/in-progress", h.InProgress)
	rg.PATCH("/:id/pending", h.Pending)
}
