package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists sessions in the portal_session table. Token and identity
// share one row per session; upserts keep writes atomic per session.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) SetToken(ctx context.Context, sessionID, token string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO portal_session (id, token, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET token = $2, updated_at = NOW()`,
		sessionID, token)
	if err != nil {
		return fmt.Errorf("set token for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PGStore) Token(ctx context.Context, sessionID string) (string, error) {
	var tok *string
	err := s.pool.QueryRow(ctx,
		`SELECT token FROM portal_session WHERE id = $1`, sessionID).Scan(&tok)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token for session %s: %w", sessionID, err)
	}
	if tok == nil {
		return "", nil
	}
	return *tok, nil
}

func (s *PGStore) RemoveToken(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE portal_session SET token = NULL, updated_at = NOW() WHERE id = $1`,
		sessionID)
	if err != nil {
		return fmt.Errorf("remove token for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PGStore) SetIdentity(ctx context.Context, sessionID string, raw []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO portal_session (id, identity, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET identity = $2, updated_at = NOW()`,
		sessionID, raw)
	if err != nil {
		return fmt.Errorf("set identity for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PGStore) Identity(ctx context.Context, sessionID string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT identity FROM portal_session WHERE id = $1`, sessionID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity for session %s: %w", sessionID, err)
	}
	return raw, nil
}

func (s *PGStore) RemoveIdentity(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE portal_session SET identity = NULL, updated_at = NOW() WHERE id = $1`,
		sessionID)
	if err != nil {
		return fmt.Errorf("remove identity for session %s: %w", sessionID, err)
	}
	return nil
}
