// Package auth implements the bearer-token check guarding the API surface.
// The deployment model is a single static token mapped to one caller
// identity; token verification uses a constant-time comparison.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextCallerKey is the gin context key under which the middleware stores
// the authenticated caller identity.
const ContextCallerKey = "caller_id"

// ExtractBearer returns the token portion of an "Authorization: Bearer ..."
// header, or "" if the header is absent or malformed.
func ExtractBearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Verify reports whether the presented token matches the expected one.
func Verify(presented, expected string) bool {
	if presented == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// Middleware rejects requests without a valid bearer token and seeds the
// caller identity into the request context.
func Middleware(token, callerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := ExtractBearer(c.GetHeader("Authorization"))
		if presented == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "missing token"})
			return
		}
		if !Verify(presented, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "invalid token"})
			return
		}
		c.Set(ContextCallerKey, callerID)
		c.Next()
	}
}

// CallerFromContext returns the identity stored by Middleware.
func CallerFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(ContextCallerKey)
	if !ok {
		return "", false
	}
	caller, ok := val.(string)
	if !ok || caller == "" {
		return "", false
	}
	return caller, true
}
