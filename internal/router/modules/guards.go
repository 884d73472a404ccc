package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/internship-portal/internal/interface/middleware"
)

// Guards are the access and throttling middleware modules attach per route.
type Guards struct {
	Auth  gin.HandlerFunc
	Admin gin.HandlerFunc
	RDB   *redis.Client // nil limits in-process
}

func (g Guards) limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.RDB, max, window, key, nil)
}

// authed is the chain for authenticated routes.
func (g Guards) authed() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		g.Auth,
		g.limit(120, time.Minute, middleware.KeyByUserID()),
	}
}

// admin is the chain for admin-only routes.
func (g Guards) admin() []gin.HandlerFunc {
	return append(g.authed(), g.Admin)
}
