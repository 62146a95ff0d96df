package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
	"github.com/trackit-app/trackit/pkg/response"
)

// TemplateHandler exposes HTTP endpoints for task templates.
type TemplateHandler struct {
	templates *services.TemplateService
}

// NewTemplateHandler constructs a template handler.
func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type createTemplateRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	Description        string   `json:"description"`
	DefaultTitle       string   `json:"default_title" validate:"max=200"`
	DefaultDescription string   `json:"default_description"`
	DefaultPriority    string   `json:"default_priority" validate:"omitempty,oneof=low medium high urgent"`
	DefaultLabels      []string `json:"default_labels"`
}

type updateTemplateRequest struct {
	Name               *string   `json:"name" validate:"omitempty,max=120"`
	Description        *string   `json:"description"`
	DefaultTitle       *string   `json:"default_title" validate:"omitempty,max=200"`
	DefaultDescription *string   `json:"default_description"`
	DefaultPriority    *string   `json:"default_priority" validate:"omitempty,oneof=low medium high urgent"`
	DefaultLabels      *[]string `json:"default_labels"`
}

// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(requestContext(c))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, templates)
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templates.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, template)
}

// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	template, err := h.templates.Create(requestContext(c), services.CreateTemplateInput{
		Name:               req.Name,
		Description:        req.Description,
		DefaultTitle:       req.DefaultTitle,
		DefaultDescription: req.DefaultDescription,
		DefaultPriority:    req.DefaultPriority,
		DefaultLabels:      req.DefaultLabels,
		OwnerUserID:        middleware.UserID(c),
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusCreated, template)
}

// PATCH /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req updateTemplateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	template, err := h.templates.Update(requestContext(c), c.Param("id"), services.UpdateTemplateInput{
		Name:               req.Name,
		Description:        req.Description,
		DefaultTitle:       req.DefaultTitle,
		DefaultDescription: req.DefaultDescription,
		DefaultPriority:    req.DefaultPriority,
		DefaultLabels:      req.DefaultLabels,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusOK, template)
}

// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
