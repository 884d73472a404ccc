package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
)

// UserModule wires account routes under /users.
// Public: register, login, token/refresh, all-users, user-count
// Authenticated: logout, change-password, profile
type UserModule struct {
	Handler *handlers.UserHandler
	Guards  Guards
}

func NewUserModule(h *handlers.UserHandler, g Guards) *UserModule {
	return &UserModule{Handler: h, Guards: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := m.Guards
	users := rg.Group("/users")

	users.POST("/register", g.limit(20, time.Minute, middleware.KeyByIP()), m.Handler.Register)
	users.POST("/login", g.limit(10, time.Minute, middleware.KeyByIP()), m.Handler.Login)
	users.POST("/token/refresh", g.limit(60, time.Minute, middleware.KeyByIP()), m.Handler.Refresh)
	users.GET("/all-users", m.Handler.AllUsers)
	users.GET("/user-count", m.Handler.UserCount)

	auth := users.Group("", g.authed()...)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/change-password", g.limit(10, time.Minute, middleware.KeyByUserID()), m.Handler.ChangePassword)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile", m.Handler.DeleteProfilePicture)
	}
}
