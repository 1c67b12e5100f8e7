package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

type PostModule struct {
	Handler             *handlers.PostHandler
	Resolver            middleware.TokenResolver
	CreateRequiresToken bool
}

func NewPostModule(h *handlers.PostHandler, resolver middleware.TokenResolver, createRequiresToken bool) *PostModule {
	return &PostModule{Handler: h, Resolver: resolver, CreateRequiresToken: createRequiresToken}
}

func (m *PostModule) Name() string { return "posts" }

func (m *PostModule) Register(rg *gin.RouterGroup) {
	// creating a post is open unless configured otherwise; everything else needs a token
	create := middleware.OptionalToken(m.Resolver)
	if m.CreateRequiresToken {
		create = middleware.RequireToken(m.Resolver)
	}
	rg.POST("/posts", create, m.Handler.Create)

	posts := rg.Group("/posts")
	posts.Use(middleware.RequireToken(m.Resolver))
	{
		posts.GET("", m.Handler.List)
		posts.GET("/search", m.Handler.Search)
		posts.GET("/:id", m.Handler.GetByID)
		posts.PUT("/:id", m.Handler.Update)
		posts.DELETE("/:id", m.Handler.Delete)
		posts.PUT("/:id/cover", m.Handler.UploadCover)
	}
}
