package token

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderJWT is the request header carrying the session token.
const HeaderJWT = "jwt"

// Gin context keys set by SessionRequired.
const (
	// ContextUserID holds the authenticated user's ID.
	ContextUserID = "userID"
	// ContextToken holds the rotated token that the response body must
	// return to the client in its "jwt" field.
	ContextToken = "jwt"
)

// SessionRequired returns a Gin middleware that gates authenticated
// routes. It verifies and renews the incoming session token, then
// extracts the authenticated identity into the request context.
//
// Two requests racing on the same token both pass: rotation is additive,
// there is no single-use enforcement.
func SessionRequired(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderJWT)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		// Gate 1: verify the token and rotate it. The renewed token
		// replaces the incoming one for the eventual response.
		renewed, err := issuer.VerifyAndRenew(c.Request.Context(), raw)
		if err != nil {
			slog.Warn("session verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		// Gate 2: decrypt the payload again to resolve the identity for
		// downstream handlers.
		payload, err := issuer.Verify(renewed)
		if err != nil {
			slog.Warn("session payload extraction failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(ContextUserID, payload.UserID)
		c.Set(ContextToken, renewed)
		c.Next()
	}
}

// UserID returns the authenticated user ID resolved by SessionRequired.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Rotated returns the renewed session token for inclusion in the
// response body.
func Rotated(c *gin.Context) string {
	return c.GetString(ContextToken)
}
