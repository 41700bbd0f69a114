package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autotrackr/autotrackr/internal/apperr"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its HTTP shape. Unclassified errors
// become an opaque 500; internal details never reach the client.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	detail := "internal server error"

	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.KindInternal {
		detail = e.Message
	}

	c.JSON(statusFor(kind), gin.H{"code": string(kind), "detail": detail})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":   string(apperr.KindValidation),
		"detail": "invalid request: " + err.Error(),
	})
}
