package api

import (
	"net/http"

	"github.com/campus-content-api/internal/moderation"
	"github.com/campus-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles moderation and dashboard endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// moderateRequest is the body of PATCH /v1/admin/comments.
type moderateRequest struct {
	CommentID string `json:"commentId"`
	Action    string `json:"action"`
}

// ModerateComment handles PATCH /v1/admin/comments
func (h *AdminHandler) ModerateComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.CommentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commentId is required"})
		return
	}
	action := moderation.Action(req.Action)
	if !moderation.IsValidAction(action) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of: approve, reject, flag"})
		return
	}

	status, err := h.services.Comment.Moderate(ctx, req.CommentID, action)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commentId": req.CommentID,
		"status":    status,
	})
}

// deleteRequest is the body of DELETE /v1/admin/comments.
type deleteRequest struct {
	CommentID string `json:"commentId"`
}

// DeleteComment handles DELETE /v1/admin/comments. The comment and
// its entire reply subtree are removed regardless of moderation
// state.
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.CommentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commentId is required"})
		return
	}

	removed, err := h.services.Comment.Delete(ctx, req.CommentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commentId": req.CommentID,
		"deleted":   removed,
	})
}

// Dashboard handles GET /v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.services.Stats.ComputeStats(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
