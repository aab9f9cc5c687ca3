// Package persist saves and restores game session state.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"euchre-server/pkg/storage"
)

// SchemaVersion is the current snapshot schema. Snapshots written with a
// different version cannot be loaded; the caller starts a fresh session.
const SchemaVersion = 1

// DefaultTTL is how long a saved session survives without activity
const DefaultTTL = time.Hour * 24

// ErrNotFound is returned when no snapshot exists for the session
var ErrNotFound = errors.New("snapshot not found")

// ErrCorrupt is returned when the stored snapshot cannot be parsed
var ErrCorrupt = errors.New("snapshot is corrupt")

// SchemaMismatchError is returned when the stored snapshot was written with a
// different schema version
type SchemaMismatchError struct {
	Found int
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("snapshot schema version %d does not match %d", e.Found, SchemaVersion)
}

// Snapshot is the stored form of a session
type Snapshot struct {
	SchemaVersion int             `json:"schemaVersion"`
	SessionID     string          `json:"sessionId"`
	SavedAt       time.Time       `json:"savedAt"`
	State         json.RawMessage `json:"state"`
}

// Store saves and loads session snapshots
type Store struct {
	kv  storage.KV
	ttl time.Duration
}

// NewStore returns a snapshot store backed by kv. A ttl of 0 uses DefaultTTL.
func NewStore(kv storage.KV, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &Store{kv: kv, ttl: ttl}
}

func key(sessionID string) string {
	return "session:" + sessionID
}

// Save stores the session state under the current schema version
func (s *Store) Save(ctx context.Context, sessionID string, state json.RawMessage) error {
	snapshot := Snapshot{
		SchemaVersion: SchemaVersion,
		SessionID:     sessionID,
		SavedAt:       time.Now(),
		State:         state,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return s.kv.Set(ctx, key(sessionID), data, s.ttl)
}

// Load returns the saved snapshot for the session.
// Returns ErrNotFound if no snapshot exists, ErrCorrupt if it cannot be
// parsed, or a SchemaMismatchError if it was written with a different schema.
func (s *Store) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	data, err := s.kv.Get(ctx, key(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, ErrCorrupt
	}

	if snapshot.SchemaVersion != SchemaVersion {
		return nil, SchemaMismatchError{Found: snapshot.SchemaVersion}
	}

	return &snapshot, nil
}

// Remove deletes the saved snapshot for the session
func (s *Store) Remove(ctx context.Context, sessionID string) error {
	return s.kv.Remove(ctx, key(sessionID))
}
