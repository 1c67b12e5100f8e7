package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Registry collects modules and the middleware shared by every /api route.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
	Logger *logrus.Logger

	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add queues mod; a second module with the same name is ignored.
func (r *Registry) Add(mod Module) {
	for _, m := range r.modules {
		if m.Name() == mod.Name() {
			if r.Logger != nil {
				r.Logger.WithField("module", mod.Name()).Warn("module already added")
			}
			return
		}
	}
	r.modules = append(r.modules, mod)
}

// Names lists queued modules in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m.Name())
	}
	return out
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		if r.Logger != nil {
			r.Logger.WithField("module", m.Name()).Debug("module registered")
		}
	}
}
