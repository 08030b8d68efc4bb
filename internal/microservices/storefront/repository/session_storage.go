package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-storefront/internal/cart"
)

// SessionStorage - cart.Storage поверх таблицы session_storage, один
// namespace на сессию браузера.
type SessionStorage struct {
	db        *sql.DB
	sessionID string
}

func NewSessionStorage(db *sql.DB, sessionID string) *SessionStorage {
	return &SessionStorage{db: db, sessionID: sessionID}
}

// SessionStorageFactory plugs SessionStorage into cart.Sessions.
func SessionStorageFactory(db *sql.DB) cart.StorageFactory {
	return func(sessionID string) cart.Storage {
		return NewSessionStorage(db, sessionID)
	}
}

func (s *SessionStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `
SELECT value FROM session_storage WHERE session_id = $1 AND key = $2
`, s.sessionID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return v, nil
}

func (s *SessionStorage) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO session_storage (session_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`, s.sessionID, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM session_storage WHERE session_id = $1 AND key = $2
`, s.sessionID, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
