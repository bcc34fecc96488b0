package domain

import "time"

// TokenPair is what the token endpoints hand out. Refresh is empty on a
// refresh exchange when rotation is disabled.
type TokenPair struct {
	Access  string
	Refresh string
}

// RefreshToken models the stored refresh token record in the DB.
type RefreshToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"` // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Usable reports whether the token can still be exchanged at now.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
