package model

import "time"

// AccessMethod records which ownership check granted a sensitive read.
type AccessMethod string

const (
	AccessMethodSessionToken AccessMethod = "session_token"
	AccessMethodAdmin        AccessMethod = "admin"
	AccessMethodUserID       AccessMethod = "user_id_match"
	AccessMethodEmail        AccessMethod = "email_match"
	AccessMethodSignedURL    AccessMethod = "signed_url"
)

// DeliveryAudit is an append-only record of a key access attempt. It is
// written whether or not the reveal succeeded.
type DeliveryAudit struct {
	ID        string
	OrderID   string
	ItemID    string
	Method    AccessMethod
	Success   bool
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// RevealedKey carries a decrypted credential back to the caller. It exists
// only in a response, never in storage.
type RevealedKey struct {
	OrderID       string
	ItemID        string
	PlainKey      string
	ContentType   string
	RevealedAt    time.Time
	ExpiresAt     time.Time
	DownloadCount int
}
