package api

import (
	"errors"
	"net/http"

	"github.com/campus-content-api/internal/contentpath"
	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError converts a service failure into the structured error
// response for its class. Internal failures are logged and returned
// as a generic message; everything else carries its real message.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": []validation.ValidationError(validationErrs),
		})
		return
	}

	var segErr *contentpath.ErrInvalidSegment
	if errors.As(err, &segErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": segErr.Error()})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrVersionConflict),
		errors.Is(err, models.ErrModuleConflict),
		errors.Is(err, models.ErrTopicConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
