package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
)

type AboutModule struct {
	Handler *handlers.AboutHandler
	Guards  Guards
}

func NewAboutModule(h *handlers.AboutHandler, g Guards) *AboutModule {
	return &AboutModule{Handler: h, Guards: g}
}

func (m *AboutModule) Register(rg *gin.RouterGroup) {
	rg.GET("/about", m.Handler.About)
	rg.GET("/admin/about", append(m.Guards.admin(), m.Handler.About)...)
	rg.POST("/change-language", m.Guards.limit(30, time.Minute, middleware.KeyByIP()), m.Handler.ChangeLanguage)
}
