package models

import (
	"time"

	"github.com/google/uuid"
)

// User holds an account's credentials. Password sign-ups carry a bcrypt
// hash; federated sign-ins carry the provider subject instead and an
// empty hash.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	GoogleID     *string   `json:"-"` // Nullable; set for federated sign-ins
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the user can sign in with credentials.
// Federated-only users have no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
