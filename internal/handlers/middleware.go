package handlers

import (
	"net/http"
	"strings"

	"donation-service/internal/models"
	"donation-service/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxAdminID = "admin_id"
	ctxEmail   = "admin_email"
	ctxRole    = "admin_role"
	ctxClaims  = "claims"
)

// AuthMiddleware checks the bearer token. A missing header is 401, a present
// but unusable token is 403. Tokens minted before the role claim existed
// default to the regular admin role.
func AuthMiddleware(jwt *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		claims, err := jwt.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		role := claims.Role
		if role == "" {
			role = string(models.RoleAdmin)
		}

		c.Set(ctxAdminID, claims.AdminID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireRole guards a route group to the listed roles.
func RequireRole(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.AdminRole(c.GetString(ctxRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

func currentAdminID(c *gin.Context) int64 {
	id, _ := c.Get(ctxAdminID)
	adminID, _ := id.(int64)
	return adminID
}

// getClientIP prefers proxy headers over the socket address: the first entry
// of X-Forwarded-For, then X-Real-IP, then the connection peer.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
