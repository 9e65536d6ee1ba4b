package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects sessions whose role is not listed. It must run after JWTSessionMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if !allowed[session.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role", "role": session.Role})
			return
		}
		c.Next()
	}
}
