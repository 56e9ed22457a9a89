package api

import (
	"net/http"

	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/repository"
	"github.com/campus-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles learner-facing comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

// createCommentRequest is the body of POST /v1/comments.
type createCommentRequest struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Subject   string `json:"subject"`
	Module    string `json:"module"`
	Type      string `json:"type"`
	ContentID string `json:"contentId"`
	Year      string `json:"year"`
	Semester  string `json:"semester"`
	Branch    string `json:"branch"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
}

// CreateComment handles POST /v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	comment := &models.Comment{
		Author:      req.Author,
		Content:     req.Content,
		Subject:     req.Subject,
		Module:      req.Module,
		ContentType: req.Type,
		ContentID:   req.ContentID,
		Year:        req.Year,
		Semester:    req.Semester,
		Branch:      req.Branch,
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
	}
	created, err := h.services.Comment.Create(ctx, comment)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListComments handles GET /v1/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()

	filter := repository.CommentFilter{
		ContentType: c.Query("type"),
		Subject:     c.Query("subject"),
		Module:      c.Query("module"),
		ContentID:   c.Query("contentId"),
	}
	comments, err := h.services.Comment.List(ctx, filter, c.Query("status"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// patchCommentRequest is the body of PATCH /v1/comments: a vote
// toggle or a reply, selected by action.
type patchCommentRequest struct {
	CommentID string     `json:"commentId"`
	Action    string     `json:"action"`
	UserID    string     `json:"userId"`
	ReplyData *replyData `json:"replyData,omitempty"`
}

type replyData struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
}

// PatchComment handles PATCH /v1/comments
func (h *CommentHandler) PatchComment(c *gin.Context) {
	ctx := c.Request.Context()

	var req patchCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.CommentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commentId is required"})
		return
	}

	switch req.Action {
	case "like", "dislike":
		result, err := h.services.Comment.Vote(ctx, req.CommentID, req.UserID, models.VoteKind(req.Action))
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, result)

	case "reply":
		if req.ReplyData == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "replyData is required for reply"})
			return
		}
		reply := &models.Comment{
			Author:    req.ReplyData.Author,
			Content:   req.ReplyData.Content,
			UserID:    req.ReplyData.UserID,
			UserEmail: req.ReplyData.UserEmail,
		}
		created, err := h.services.Comment.Reply(ctx, req.CommentID, reply)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, created)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of: like, dislike, reply"})
	}
}
