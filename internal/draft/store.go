package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces draft keys in Valkey.
	keyPrefix = "draft:"

	// defaultTTL matches the session lifetime so drafts never outlive
	// the session they belong to.
	defaultTTL = 24 * time.Hour
)

// Store persists editing state in Valkey keyed by session ID, so an
// interrupted editing session survives server restarts and page reloads.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a draft store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: defaultTTL}
}

// Load retrieves the editing state for a session. Returns nil when no
// draft exists (the caller starts a fresh one from the database).
func (s *Store) Load(ctx context.Context, sessionID string) (*State, error) {
	payload, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft load: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("draft unmarshal: %w", err)
	}

	return &state, nil
}

// Save writes the editing state back to Valkey, resetting the TTL.
func (s *Store) Save(ctx context.Context, sessionID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft save: %w", err)
	}

	return nil
}

// Delete removes the editing state, typically on sign-out.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}
