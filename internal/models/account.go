package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the owning user's display identity on the public page.
// The selected theme is embedded by value.
type Profile struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"image_url"`
	Theme       Theme  `json:"theme"`
}

// Analytics holds the public-read counters for one account.
type Analytics struct {
	Views  int64 `json:"views"`
	Clicks int64 `json:"clicks"`
}

// Account is the full persisted aggregate for one user: profile, the
// ordered link collection, and analytics counters. It is keyed by the
// owning user's id and looked up by username for public rendering.
type Account struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Profile   Profile   `json:"profile"`
	Links     []Link    `json:"links"`
	Analytics Analytics `json:"analytics"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultAccount synthesizes the aggregate written on a user's first
// dashboard visit: display name taken from the handle, one seed link,
// counters at zero.
func DefaultAccount(userID uuid.UUID, username, displayName string) *Account {
	if displayName == "" {
		displayName = username
	}
	return &Account{
		UserID:   userID,
		Username: username,
		Profile: Profile{
			DisplayName: displayName,
			Bio:         "",
			ImageURL:    "",
			Theme:       DefaultTheme(),
		},
		Links: []Link{
			{
				ID:      uuid.New(),
				Title:   "My Instagram",
				URL:     "https://instagram.com/" + username,
				Icon:    IconInstagram,
				Enabled: true,
			},
		},
		Analytics: Analytics{},
	}
}
