package auth

import (
	"github.com/gin-gonic/gin"

	"pairplay/backend/pkg/jwt"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwt.ParseToken(tokenString); err == nil {
				c.Set(userIDKey, claims.UserID)
				c.Set(emailKey, claims.Email)
			}
		}
		c.Next()
	}
}
