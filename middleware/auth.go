// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"petmily/models"
	"petmily/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// JWTAuthMiddleware validates the bearer token and stores the authenticated
// actor (id + role) in the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		sub, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		switch models.Role(role) {
		case models.RoleOwner, models.RoleWalker, models.RoleAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: sub, Role: models.Role(role)})
		c.Next()
	}
}

// AdminOnlyMiddleware gates a route group to admin actors. It must run after
// JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// ActorFromContext retrieves the authenticated actor set by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	raw, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := raw.(models.Actor)
	return actor, ok
}
