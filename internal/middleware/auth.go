package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/security"
)

// SessionCookie is the single cookie carrying the signed session token.
const SessionCookie = "token"

const claimsKey = "session_claims"

// SessionValidator re-validates a token's claims against the live store.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*security.Claims, error)
}

// RequireClaims extracts and re-validates the session on every request
// that needs an identity. A missing cookie, a bad token, and a stale
// session are each rejected distinctly; staleness gets 401 so the client
// re-authenticates instead of seeing an internal error.
func RequireClaims(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_credential"})
			return
		}

		claims, err := sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			switch apperr.KindOf(err) {
			case apperr.KindStaleSession:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "stale_session"})
			case apperr.KindUnauthorized:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credential"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			}
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalClaims resolves claims when a token is present but never fails
// the request on absence. A present-but-invalid token is still rejected.
func OptionalClaims(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credential"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the validated claims set by the guard, if any.
func ClaimsFrom(c *gin.Context) (*security.Claims, bool) {
	val, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*security.Claims)
	return claims, ok
}
