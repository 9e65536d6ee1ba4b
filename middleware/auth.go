package middleware

import (
	"net/http"
	"strings"

	"eclinic/models"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
)

// JWTSessionMiddleware decodes the bearer token into a models.Session stored on the context.
func JWTSessionMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		session, err := utils.SessionFromToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "message": err.Error()})
			return
		}

		c.Set(utils.SessionContextKey, session)
		c.Next()
	}
}

// SessionFromContext returns the session set by JWTSessionMiddleware.
func SessionFromContext(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(utils.SessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
