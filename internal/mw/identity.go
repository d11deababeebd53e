package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the caller's identity.
const IdentityKey = "identity"

// Identity extracts the opaque caller identity from the configured
// header and stores it in the request context. The engine never
// interprets the value beyond equality; authentication happens upstream.
func Identity(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(header); id != "" {
			c.Set(IdentityKey, id)
		}
		c.Next()
	}
}

// RequireIdentity rejects requests that arrived without an identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(IdentityKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity is required"})
			return
		}
		c.Next()
	}
}
