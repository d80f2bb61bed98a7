package middleware

import (
	"net/http"
	"strings"

	"coinplay/utils"

	"github.com/gin-gonic/gin"
)

// KYCAdminCapability gates the review queue and manual decision endpoints.
const KYCAdminCapability = "kyc:admin"

// RequireCapability checks that the bearer token carries the given
// capability claim. It must run after JWTAuthUserMiddleware.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		caps, err := utils.ExtractCapabilitiesFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		for _, granted := range caps {
			if granted == capability {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
