package link

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Signer produces and verifies time-limited signed download URLs. The
// signature covers the order, the item (empty for an order-level bundle
// link) and the expiry, so a URL cannot be replayed against other material.
type Signer struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

// NewSigner builds a Signer. TTL bounds how long issued links stay valid.
func NewSigner(baseURL, secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Signer{baseURL: strings.TrimRight(baseURL, "/"), secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured link lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign issues a signed URL for an order item. An empty itemID signs the
// order-level bundle download.
func (s *Signer) Sign(orderID, itemID string, now time.Time) (string, time.Time) {
	expiresAt := now.Add(s.ttl)
	sig := s.signature(orderID, itemID, expiresAt.Unix())

	p := fmt.Sprintf("%s/api/fulfillment/%s/download", s.baseURL, url.PathEscape(orderID))
	if itemID != "" {
		p += "/" + url.PathEscape(itemID)
	}
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))
	q.Set("sig", sig)
	return p + "?" + q.Encode(), expiresAt
}

// Verify checks a presented signature and expiry.
func (s *Signer) Verify(orderID, itemID string, expires int64, sig string, now time.Time) bool {
	if now.Unix() > expires {
		return false
	}
	expected := s.signature(orderID, itemID, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *Signer) signature(orderID, itemID string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d", orderID, itemID, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
