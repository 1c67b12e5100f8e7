package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Name() string { return "debug" }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
