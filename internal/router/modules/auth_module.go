package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

type AuthModule struct {
	Handler  *handlers.AuthHandler
	Resolver middleware.TokenResolver
}

func NewAuthModule(h *handlers.AuthHandler, resolver middleware.TokenResolver) *AuthModule {
	return &AuthModule{Handler: h, Resolver: resolver}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/login", m.Handler.Login)
	rg.POST("/register", m.Handler.Register)
	rg.POST("/logout", middleware.RequireToken(m.Resolver), m.Handler.Logout)
}
