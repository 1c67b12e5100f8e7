package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

// writeError maps service errors onto status codes. Unknown errors are
// attached to the context for the access log and reported as 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error(c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "invalid token", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error(c, http.StatusForbidden, "only the author can modify this post", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrAuthorRequired):
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"author_id": "is required"})
	case errors.Is(err, application.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "cover uploads are not configured", nil)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
