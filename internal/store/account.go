package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"linkdeck/internal/models"
)

// AccountStore handles the per-user aggregate: profile, link collection,
// and analytics counters. Profile and links live in JSONB columns and
// are always written as a whole, never merged field by field.
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore creates a new AccountStore with the given database connection.
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `user_id, username, profile, links, views, clicks, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var profileJSON, linksJSON []byte
	err := row.Scan(
		&a.UserID, &a.Username, &profileJSON, &linksJSON,
		&a.Analytics.Views, &a.Analytics.Clicks, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &a.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal(linksJSON, &a.Links); err != nil {
		return nil, fmt.Errorf("decode links: %w", err)
	}
	return a, nil
}

// FindByUserID retrieves the aggregate for its owner. Returns nil if the
// user has never visited the dashboard.
func (s *AccountStore) FindByUserID(userID uuid.UUID) (*models.Account, error) {
	a, err := scanAccount(s.db.QueryRow(
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("find account by user id: %w", err)
	}
	return a, nil
}

// FindByUsername resolves a public handle to an account. The username
// column is unique; ordering by created_at makes any legacy duplicate
// resolve to the earliest-created row. Returns nil if not found.
func (s *AccountStore) FindByUsername(username string) (*models.Account, error) {
	a, err := scanAccount(s.db.QueryRow(
		`SELECT `+accountColumns+` FROM accounts
		 WHERE username = $1 ORDER BY created_at ASC LIMIT 1`, username))
	if err != nil {
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return a, nil
}

// UsernameTaken reports whether a handle is already assigned.
func (s *AccountStore) UsernameTaken(username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("username taken: %w", err)
	}
	return exists, nil
}

// Create inserts a new aggregate. Counters start at zero regardless of
// what the passed value carries.
func (s *AccountStore) Create(acct *models.Account) (*models.Account, error) {
	profileJSON, linksJSON, err := encodeAggregate(acct)
	if err != nil {
		return nil, err
	}

	created, err := scanAccount(s.db.QueryRow(`
		INSERT INTO accounts (user_id, username, profile, links)
		VALUES ($1, $2, $3, $4)
		RETURNING `+accountColumns,
		acct.UserID, acct.Username, profileJSON, linksJSON))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// Replace writes the profile and link collection as a full replacement
// of those fields. Counters and username are untouched: public visits
// may race an editor save without losing increments.
func (s *AccountStore) Replace(userID uuid.UUID, profile models.Profile, links []models.Link) error {
	profileJSON, linksJSON, err := encodeAggregate(&models.Account{Profile: profile, Links: links})
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE accounts SET profile = $1, links = $2, updated_at = NOW()
		WHERE user_id = $3
	`, profileJSON, linksJSON, userID)
	if err != nil {
		return fmt.Errorf("replace account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("replace account: no account for user %s", userID)
	}
	return nil
}

// IncrementViews bumps the view counter by one as a single atomic
// statement, never a read-modify-write from the client.
func (s *AccountStore) IncrementViews(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET views = views + 1 WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementClicks bumps the click counter by one atomically.
func (s *AccountStore) IncrementClicks(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET clicks = clicks + 1 WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	return nil
}

func encodeAggregate(acct *models.Account) (profileJSON, linksJSON []byte, err error) {
	profileJSON, err = json.Marshal(acct.Profile)
	if err != nil {
		return nil, nil, fmt.Errorf("encode profile: %w", err)
	}
	links := acct.Links
	if links == nil {
		links = []models.Link{}
	}
	linksJSON, err = json.Marshal(links)
	if err != nil {
		return nil, nil, fmt.Errorf("encode links: %w", err)
	}
	return profileJSON, linksJSON, nil
}
