package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

// Context keys set on a resolved request.
const (
	KeyUserID    = "userID"
	KeyUserName  = "userName"
	KeyUserEmail = "userEmail"
	KeySessionID = "sessionID"
	KeyToken     = "token"
)

// TokenResolver maps a session token to the identity it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*application.Identity, error)
}

// RequireToken rejects requests without a token that resolves to a user.
// On success userID, userName and userEmail are set in the Gin context.
func RequireToken(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing token", nil)
			return
		}
		resolve(c, r, token)
	}
}

// OptionalToken lets anonymous requests through but still rejects a token that does not resolve.
func OptionalToken(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		resolve(c, r, token)
	}
}

func resolve(c *gin.Context, r TokenResolver, token string) {
	id, err := r.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, application.ErrUnauthorized) {
			response.Abort(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		_ = c.Error(err)
		response.Abort(c, http.StatusInternalServerError, "could not verify token", nil)
		return
	}
	c.Set(KeyUserID, id.UserID)
	c.Set(KeyUserName, id.Name)
	c.Set(KeyUserEmail, id.Email)
	c.Set(KeySessionID, id.SessionID)
	c.Set(KeyToken, token)
	c.Next()
}

// extractToken accepts either a bare token or "Bearer <token>".
func extractToken(header string) string {
	h := strings.TrimSpace(header)
	const prefix = "bearer "
	if len(h) >= len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return h
}

// UserID returns the resolved caller id, or "" for anonymous requests.
func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }

func Token(c *gin.Context) string { return c.GetString(KeyToken) }
