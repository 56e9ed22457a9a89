package api

import (
	"net/http"

	"github.com/campus-content-api/internal/contentpath"
	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/service"
	"github.com/campus-content-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContentHandler handles content tree endpoints
type ContentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(services *service.Services, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		services: services,
		log:      log.With().Str("handler", "content").Logger(),
	}
}

// contentRequest is the body shared by the content upsert and delete
// endpoints: the five path fields, plus the bucket and optional
// version token on writes.
type contentRequest struct {
	Year            string         `json:"year"`
	Semester        string         `json:"semester"`
	Branch          string         `json:"branch"`
	Subject         string         `json:"subject"`
	ContentType     string         `json:"contentType"`
	Content         *models.Bucket `json:"content,omitempty"`
	ExpectedVersion *int64         `json:"expectedVersion,omitempty"`
}

func (r *contentRequest) path() contentpath.ContentPath {
	return contentpath.ContentPath{
		Year:        r.Year,
		Semester:    r.Semester,
		Branch:      r.Branch,
		Subject:     r.Subject,
		ContentType: r.ContentType,
	}
}

func pathFromQuery(c *gin.Context) contentpath.ContentPath {
	return contentpath.ContentPath{
		Year:        c.Query("year"),
		Semester:    c.Query("semester"),
		Branch:      c.Query("branch"),
		Subject:     c.Query("subject"),
		ContentType: c.Query("contentType"),
	}
}

// GetContent handles GET /v1/content
func (h *ContentHandler) GetContent(c *gin.Context) {
	ctx := c.Request.Context()

	sb, err := h.services.Content.Get(ctx, pathFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": sb.Bucket,
		"version": sb.Version,
	})
}

// UpsertContent handles POST /v1/content and PUT /v1/content
func (h *ContentHandler) UpsertContent(c *gin.Context) {
	ctx := c.Request.Context()

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if err := h.services.Content.Set(ctx, req.path(), req.Content, req.ExpectedVersion); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "content saved"})
}

// DeleteContent handles DELETE /v1/content. The path fields arrive
// in the body, or as query parameters for clients that cannot send a
// DELETE body.
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	ctx := c.Request.Context()

	path := pathFromQuery(c)
	if path.Year == "" {
		var req contentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		path = req.path()
	}

	if err := h.services.Content.Unset(ctx, path); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "content removed"})
}

// topicRequest is the body of the topic upload endpoint.
type topicRequest struct {
	Year        string       `json:"year"`
	Semester    string       `json:"semester"`
	Branch      string       `json:"branch"`
	Subject     string       `json:"subject"`
	ContentType string       `json:"contentType"`
	ModuleID    string       `json:"moduleId"`
	Topic       models.Topic `json:"topic"`
}

// UpsertTopic handles POST /v1/content/topics
func (h *ContentHandler) UpsertTopic(c *gin.Context) {
	ctx := c.Request.Context()

	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if errs := validation.ValidateTopic(&req.Topic); len(errs) > 0 {
		respondError(c, h.log, validation.Errors(errs))
		return
	}

	path := contentpath.ContentPath{
		Year:        req.Year,
		Semester:    req.Semester,
		Branch:      req.Branch,
		Subject:     req.Subject,
		ContentType: req.ContentType,
	}
	topic, moduleID, err := h.services.Content.UpsertTopic(ctx, path, req.ModuleID, req.Topic)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"topic":    topic,
		"moduleId": moduleID,
	})
}
