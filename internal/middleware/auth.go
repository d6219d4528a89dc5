package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyToken is where the bearer token is stashed for handlers.
const ContextKeyToken = "token"

// TokenMiddleware extracts the bearer token from the Authorization header.
// It does not validate the token; the service layer resolves it against the
// live session set as the first check of every operation, so validity and
// revocation are decided in one place.
func TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		token := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}

		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// GetToken returns the bearer token stored by TokenMiddleware.
func GetToken(c *gin.Context) string {
	val, exists := c.Get(ContextKeyToken)
	if !exists {
		return ""
	}
	token, ok := val.(string)
	if !ok {
		return ""
	}
	return token
}
