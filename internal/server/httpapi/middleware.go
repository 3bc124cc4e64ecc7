package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/listora/listora/internal/server/auth"
)

// ctxKeyUserID is where the middleware stores the authenticated subject.
const ctxKeyUserID = "user_id"

// requireAccessToken rejects requests without a valid Bearer access token and
// exposes the token subject to downstream handlers.
func (h *Handler) requireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := h.issuer.Verify(token, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Next()
	}
}
