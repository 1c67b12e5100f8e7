package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

// AuthService is the part of application.AuthService the handlers need.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*application.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*application.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Svc    AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// loginRequest leaves emptiness to the service so that any bad pair is a 401.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func toAuthResponse(res *application.AuthResult) authResponse {
	return authResponse{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email, Token: res.Token}
}

func authMeta(res *application.AuthResult) any {
	if res.ExpiresAt.IsZero() {
		return nil
	}
	return gin.H{"expires_at": res.ExpiresAt}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := application.ContextWithClientInfo(c.Request.Context(), application.ClientInfo{
		IP:        middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toAuthResponse(res), "login successful", authMeta(res))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithField("user_id", res.User.ID).Info("user registered")
	}
	response.Success(c, http.StatusOK, toAuthResponse(res), "registration successful", authMeta(res))
}

// Logout revokes the token the request was authenticated with.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
