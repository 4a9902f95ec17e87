package middleware

import (
	"net/http"
	"strings"

	"tourly/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware establishes the caller's identity from a bearer token.
// Token issuance lives in the auth service; here the subject claim is
// extracted and stored on the request context as "userID".
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
