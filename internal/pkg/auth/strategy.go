package auth

import "time"

// Claims is the authenticated identity extracted from a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (c Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// Strategy issues and verifies bearer tokens for authenticated users.
type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

// SessionClaims is the identity a guest order session token carries. The
// token is bound to exactly one order.
type SessionClaims struct {
	OrderID string
	Email   string
}

// SessionStrategy issues and verifies order session tokens handed out at
// checkout and presented in the x-order-session-token header.
type SessionStrategy interface {
	IssueOrderToken(orderID, email string) (string, error)
	ParseOrderToken(token string) (*SessionClaims, error)
}

// Options tunes token lifetimes.
type Options struct {
	TTL time.Duration
}
