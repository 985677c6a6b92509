package test

import (
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
)

// StrategyStub issues and parses bearer tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Claims) (string, error)
	ParseFn func(string) (*pkgAuth.Claims, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(claims pkgAuth.Claims) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(claims)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Claims{UserID: "user-1", Email: "user@example.com"}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// SessionStrategyStub issues and parses order session tokens.
type SessionStrategyStub struct {
	IssueFn func(orderID, email string) (string, error)
	ParseFn func(string) (*pkgAuth.SessionClaims, error)
}

// IssueOrderToken returns deterministic session tokens for tests.
func (s SessionStrategyStub) IssueOrderToken(orderID, email string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(orderID, email)
	}
	return "session:" + orderID, nil
}

// ParseOrderToken parses previously issued session tokens.
func (s SessionStrategyStub) ParseOrderToken(token string) (*pkgAuth.SessionClaims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.SessionClaims{OrderID: "order-1", Email: "user@example.com"}, nil
}

// TokenParserStub implements the middleware token parsing contract.
type TokenParserStub struct {
	Claims  *pkgAuth.Claims
	Err     error
	ParseFn func(string) (*pkgAuth.Claims, error)
}

// ParseUserToken either delegates to the override or returns predefined claims.
func (s TokenParserStub) ParseUserToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Claims != nil {
		return s.Claims, nil
	}
	return &pkgAuth.Claims{UserID: "user-1", Email: "user@example.com"}, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.SessionStrategy = SessionStrategyStub{}
