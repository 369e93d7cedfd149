package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotelpos-api/pkg/utils"
)

// AuthMiddleware verifies the hosted auth provider's access token and puts
// the auth user id in the gin context.
func AuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(AuthUIDKey, claims.Subject)
		c.Set(AuthEmailKey, claims.Email)

		c.Next()
	}
}
