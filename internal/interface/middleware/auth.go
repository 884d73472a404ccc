package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
	"github.com/oksasatya/internship-portal/pkg/helpers"
	"github.com/oksasatya/internship-portal/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxSessionID = "sessionID"
	CtxRole      = "role"
)

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if t, err := c.Cookie("access_token"); err == nil {
		return t
	}
	return ""
}

// Auth validates the access token from the Authorization header, falling back
// to the access_token cookie, and requires its session to still exist.
// It sets userID, sessionID and role in the Gin context on success.
func Auth(sessions repo.SessionStore, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "authentication credentials were not provided", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil || sess.UserID != claims.UserID {
			response.Fail(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxSessionID, sess.ID)
		c.Set(CtxRole, sess.Role())
		c.Next()
	}
}

// Require rejects callers whose role does not allow need. Use after Auth.
func Require(need entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentRole(c).Allows(need) {
			response.Fail(c, http.StatusForbidden, "you do not have permission to perform this action", nil)
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc { return Require(entity.RoleAdmin) }

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}

// CurrentRole returns the caller's role; unauthenticated callers are public.
func CurrentRole(c *gin.Context) entity.Role {
	if r, ok := c.Get(CtxRole); ok {
		if role, ok := r.(entity.Role); ok {
			return role
		}
	}
	return entity.RolePublic
}
