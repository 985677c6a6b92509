package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HMACSession implements order session tokens using HMAC signatures. The
// claims bind the token to a single (order, email) pair.
type HMACSession struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACSession builds an order session token strategy.
func NewHMACSession(secret string, opts Options) *HMACSession {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &HMACSession{secret: []byte(secret), ttl: ttl}
}

// IssueOrderToken generates the signed session token returned at checkout.
func (s *HMACSession) IssueOrderToken(orderID, email string) (string, error) {
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%s:%d", encodeField(orderID), encodeField(email), expires)
	token := fmt.Sprintf("%s:%s", payload, s.sign(payload))
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseOrderToken validates signature and expiry and returns the claims.
func (s *HMACSession) ParseOrderToken(token string) (*SessionClaims, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return nil, ErrInvalidToken
	}

	payload := strings.Join(parts[:3], ":")
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[3])) {
		return nil, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(time.Now()) {
		return nil, ErrInvalidToken
	}

	orderID, err := decodeField(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, err := decodeField(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &SessionClaims{OrderID: orderID, Email: email}, nil
}

func (s *HMACSession) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
