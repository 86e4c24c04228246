package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lacquerlab/salon-scheduler/internal/config"
)

const (
	ContextUsername   = "username"
	ContextInstanceID = "instanceID"
	ContextRole       = "role"

	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// AuthMiddleware verifies the bearer token and exposes the principal
// {instanceId, role} to handlers. Credential verification happened at
// login; everything downstream only trusts these claims.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		username, ok1 := claims["sub"].(string)
		instanceID, ok2 := claims["instanceId"].(string)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUsername, username)
		c.Set(ContextInstanceID, instanceID)
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireInstanceAdmin guards admin operations: the principal must be an
// admin of the :instanceId being addressed, or a superadmin.
func RequireInstanceAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == RoleSuperAdmin {
			c.Next()
			return
		}
		if role != RoleAdmin || c.GetString(ContextInstanceID) != c.Param("instanceId") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "wrong_instance"})
			return
		}
		c.Next()
	}
}
