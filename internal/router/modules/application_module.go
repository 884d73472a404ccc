package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
)

// ApplicationModule wires submitting and reviewing applications.
type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Guards  Guards
}

func NewApplicationModule(h *handlers.ApplicationHandler, g Guards) *ApplicationModule {
	return &ApplicationModule{Handler: h, Guards: g}
}

func (m *ApplicationModule) Register(rg *gin.RouterGroup) {
	g := m.Guards

	auth := rg.Group("", g.authed()...)
	{
		auth.POST("/apply", g.limit(30, time.Hour, middleware.KeyByUserID()), m.Handler.Apply)
		auth.GET("/my-applications", m.Handler.MyApplications)
	}

	admin := rg.Group("/applications/admin", g.admin()...)
	{
		admin.GET("", m.Handler.Pending)
		admin.POST("/:id/:action", m.Handler.Review)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
