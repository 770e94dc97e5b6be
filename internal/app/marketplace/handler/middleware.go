package handler

import (
	"net/http"
	"strings"

	"berrymarket/internal/app/marketplace/entity"
	"berrymarket/internal/app/marketplace/util"

	"github.com/gin-gonic/gin"
)

// principalKey - ключ gin-контекста с аутентифицированным пользователем
const principalKey = "principal"

type AuthMiddleware struct {
	jwtManager *util.JWTManager
}

func NewAuthMiddleware(jwtManager *util.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate проверяет Bearer токен и кладет Principal в контекст
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Роль из токена обязана входить в закрытый набор
		if !claims.Role.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set(principalKey, entity.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})

		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли
// Сервисы дополнительно проверяют роль в предусловиях операций
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := getPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if principal.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getPrincipal извлекает аутентифицированного пользователя из контекста
func getPrincipal(c *gin.Context) (entity.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return entity.Principal{}, false
	}

	principal, ok := value.(entity.Principal)
	return principal, ok
}
