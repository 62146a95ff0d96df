package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
	"github.com/trackit-app/trackit/pkg/response"
)

// CommentHandler exposes HTTP endpoints for task comments.
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler constructs a comment handler.
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

// GET /api/tasks/:id/comments
func (h *CommentHandler) ListForTask(c *gin.Context) {
	comments, err := h.comments.ListForTask(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// POST /api/tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	comment, err := h.comments.Create(requestContext(c), services.CreateCommentInput{
		TaskID:       c.Param("id"),
		AuthorUserID: middleware.UserID(c),
		Body:         req.Body,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(requestContext(c), c.Param("id"), middleware.UserID(c)); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
