package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"account-api/internal/auth"
	"account-api/internal/repository"
	"account-api/internal/service"
)

// writeError is the single place where error kinds become status codes.
// Unknown errors are logged in full and answered with a generic body.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already registered"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrUnauthenticated.Error()})
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to access this user"})
	default:
		h.logEntry(c).WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func writeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
}
