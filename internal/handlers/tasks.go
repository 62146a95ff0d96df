package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
	"github.com/trackit-app/trackit/pkg/errors"
	"github.com/trackit-app/trackit/pkg/response"
)

// TaskHandler exposes HTTP endpoints for the task lifecycle.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title          string     `json:"title" validate:"omitempty,max=200"`
	Description    string     `json:"description"`
	Status         string     `json:"status" validate:"omitempty,oneof=todo in_progress blocked done"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Labels         []string   `json:"labels"`
	AssigneeUserID string     `json:"assignee_user_id"`
	TemplateID     string     `json:"template_id"`
	DueAt          *time.Time `json:"due_at"`
}

type updateTaskRequest struct {
	Title          *string    `json:"title" validate:"omitempty,max=200"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status" validate:"omitempty,oneof=todo in_progress blocked done"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Labels         *[]string  `json:"labels"`
	AssigneeUserID *string    `json:"assignee_user_id"`
	DueAt          *time.Time `json:"due_at"`
	ClearDueAt     bool       `json:"clear_due_at"`
}

// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	opts := services.ListTasksOptions{
		Status:         c.Query("status"),
		Priority:       c.Query("priority"),
		AssigneeUserID: c.Query("assignee"),
		Search:         c.Query("q"),
		Limit:          parseIntQuery(c, "limit", 25),
		Offset:         parseIntQuery(c, "offset", 0),
	}
	if c.Query("mine") == "true" {
		opts.OwnerUserID = middleware.UserID(c)
	}
	if raw := strings.TrimSpace(c.Query("due_before")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, errors.NewBadRequest("due_before must be an RFC 3339 timestamp"))
			return
		}
		opts.DueBefore = &parsed
	}

	tasks, total, err := h.tasks.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, tasks, &response.Meta{Total: int(total)})
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Create(requestContext(c), services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Labels:         req.Labels,
		OwnerUserID:    middleware.UserID(c),
		AssigneeUserID: req.AssigneeUserID,
		TemplateID:     req.TemplateID,
		DueAt:          req.DueAt,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusCreated, task)
}

// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}

	task, err := h.tasks.Update(requestContext(c), c.Param("id"), services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Labels:         req.Labels,
		AssigneeUserID: req.AssigneeUserID,
		DueAt:          req.DueAt,
		ClearDueAt:     req.ClearDueAt,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusOK, task)
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
