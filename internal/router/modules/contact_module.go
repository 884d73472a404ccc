package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
)

// ContactModule: public submit, admin inbox. Message ids are accepted as a
// path segment or as ?pk=.
type ContactModule struct {
	Handler *handlers.ContactHandler
	Guards  Guards
}

func NewContactModule(h *handlers.ContactHandler, g Guards) *ContactModule {
	return &ContactModule{Handler: h, Guards: g}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	h := m.Handler
	rg.POST("/contact", m.Guards.limit(5, time.Minute, middleware.KeyByIP()), h.Submit)

	admin := rg.Group("/contact", m.Guards.admin()...)
	{
		admin.GET("", h.List)
		admin.PUT("", h.Update)
		admin.PATCH("", h.Patch)
		admin.DELETE("", h.Delete)

		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.PATCH("/:id", h.Patch)
		admin.DELETE("/:id", h.Delete)
	}
}
