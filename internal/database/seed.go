package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"linkdeck/internal/models"
)

// Seed populates the database with initial development data: a demo
// user and a provisioned account so the dashboard and public page are
// reachable out of the box. It is a no-op if any user already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, "demo@linkdeck.local", string(hash)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	acct := models.Account{
		Username: "demo",
		Profile: models.Profile{
			DisplayName: "Demo Creator",
			Bio:         "Digital creator & photographer based in San Francisco",
			Theme:       models.DefaultTheme(),
		},
	}
	profileJSON, err := json.Marshal(acct.Profile)
	if err != nil {
		return fmt.Errorf("seed marshal profile: %w", err)
	}
	seedLinks := models.DefaultAccount(uuid.Nil, "demo", "").Links
	linksJSON, err := json.Marshal(seedLinks)
	if err != nil {
		return fmt.Errorf("seed marshal links: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO accounts (user_id, username, profile, links)
		VALUES ($1, $2, $3, $4)
	`, userID, acct.Username, profileJSON, linksJSON)
	if err != nil {
		return fmt.Errorf("seed insert account: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", "demo@linkdeck.local",
		"password", "demo",
		"username", "demo",
	)

	return nil
}
