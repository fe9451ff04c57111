// Package middleware holds gin middleware shared by protected routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/tasknest/internal/token"
)

// KeyUserID is the gin context key under which RequireAuth stores the
// authenticated user's id.
const KeyUserID = "AUTH_USER_ID"

// RequireAuth rejects requests without a valid bearer access token. All
// failure modes collapse to one 401 message.
func RequireAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		userID, err := codec.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(KeyUserID, userID)
		c.Next()
	}
}
