package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
)

const (
	// ClaimsContextKey is a gin context key for authenticated claims.
	ClaimsContextKey = "authClaims"

	// SessionTokenHeader carries the per-order session token issued at
	// checkout. It is read by handlers, not by this middleware.
	SessionTokenHeader = "x-order-session-token"
)

// TokenParser validates bearer tokens for the middleware.
type TokenParser interface {
	ParseUserToken(token string) (*pkgAuth.Claims, error)
}

// Authenticate attaches claims when a bearer token is present. Requests
// without a token pass through anonymously; ownership checks downstream
// decide what they may see. A present but invalid token is rejected.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := parser.ParseUserToken(token)
		if err != nil {
			if err == pkgAuth.ErrInvalidToken {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequireAdmin guards admin endpoints. It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// CurrentClaims extracts authenticated claims from context, nil when anonymous.
func CurrentClaims(c *gin.Context) *pkgAuth.Claims {
	val, ok := c.Get(ClaimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := val.(*pkgAuth.Claims)
	return claims
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
