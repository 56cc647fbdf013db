package middleware

import (
	"strings"

	"care_program_backend/internal/config"
	"care_program_backend/internal/model"
	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stashes the claims in the
// request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		claims, err := util.ParseJWT(strings.TrimPrefix(header, "Bearer "), cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		util.Forbidden(c)
		c.Abort()
	}
}

// ActivityMiddleware stamps last-seen for authenticated requests. Best
// effort; never blocks the request.
func ActivityMiddleware(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			go users.TouchLastSeen(claims.UserID)
		}
		c.Next()
	}
}
