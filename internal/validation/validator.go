package validation

import (
	"strings"

	"github.com/campus-content-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a validation failure carrying one entry per bad field.
// It satisfies error so services can return it up to the request
// boundary intact.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Field + ": " + ve.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateNewComment checks the required fields of a new top-level
// comment. Author, content, subject, module and type must all be
// present.
func ValidateNewComment(c *models.Comment) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Author) == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}
	if strings.TrimSpace(c.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	if strings.TrimSpace(c.Subject) == "" {
		errors = append(errors, ValidationError{Field: "subject", Message: "subject is required"})
	}
	if strings.TrimSpace(c.Module) == "" {
		errors = append(errors, ValidationError{Field: "module", Message: "module is required"})
	}
	if strings.TrimSpace(c.ContentType) == "" {
		errors = append(errors, ValidationError{Field: "type", Message: "type is required"})
	}

	return errors
}

// ValidateReply checks the required fields of a reply. The thread
// coordinates are inherited from the parent, so only the author and
// content are required.
func ValidateReply(author, content string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(author) == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	}
	if strings.TrimSpace(content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	return errors
}

// ValidateStatusFilter checks a comment listing status filter. The
// empty string and "all" are accepted alongside the moderation
// statuses.
func ValidateStatusFilter(status string) []ValidationError {
	if status == "" || status == "all" {
		return nil
	}
	if !models.ValidStatuses[models.CommentStatus(status)] {
		return []ValidationError{{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected, flagged, all",
			Value:   status,
		}}
	}
	return nil
}

// ValidateTopic checks the required fields of a topic upload. A
// topic must carry a title and at least one of a video URL, a PDF
// URL or inline notes.
func ValidateTopic(t *models.Topic) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(t.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}
	if t.VideoURL == "" && t.PDFURL == "" && t.Notes == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "one of videoUrl, pdfUrl or notes is required"})
	}

	return errors
}
