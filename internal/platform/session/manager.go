// Package session resolves, establishes, and tears down portal sessions.
// The browser holds only an opaque session id cookie; the bearer token and
// patient identity issued by the upstream auth service live server-side in
// a Store.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/token"
)

// Manager owns session state transitions. It is injected into handlers, not
// reached through a package global, so tests can swap in their own stores.
type Manager struct {
	store Store
	log   zerolog.Logger
}

func NewManager(store Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Restore resolves the current state for a session id. A session whose token
// is missing or expired comes back Anonymous with any stale identity cleared;
// an unparseable identity blob clears both token and identity. Restore never
// returns a Session in StateUnknown.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*Session, error) {
	tok, err := m.store.Token(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	if !token.Valid(tok) {
		// Expired or absent token: the mirrored identity is stale too.
		if err := m.clear(ctx, sessionID); err != nil {
			return nil, err
		}
		return &Session{ID: sessionID, State: StateAnonymous}, nil
	}

	raw, err := m.store.Identity(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if raw == nil {
		return &Session{ID: sessionID, State: StateAnonymous, Token: tok}, nil
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		m.log.Warn().Str("session_id", sessionID).Err(err).
			Msg("stored identity is unreadable, clearing session")
		if err := m.clear(ctx, sessionID); err != nil {
			return nil, err
		}
		return &Session{ID: sessionID, State: StateAnonymous}, nil
	}

	return &Session{ID: sessionID, State: StateAuthenticated, Identity: &id, Token: tok}, nil
}

// Login persists the token and identity for the session. Callers invoke it
// only after a successful upstream authentication response.
func (m *Manager) Login(ctx context.Context, sessionID string, identity *Identity, tok string) (*Session, error) {
	if err := m.store.SetToken(ctx, sessionID, tok); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("login: marshal identity: %w", err)
	}
	if err := m.store.SetIdentity(ctx, sessionID, raw); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &Session{ID: sessionID, State: StateAuthenticated, Identity: identity, Token: tok}, nil
}

// Logout clears the session locally. There is no upstream call to make; the
// bearer token simply stops being presented.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.clear(ctx, sessionID)
}

func (m *Manager) clear(ctx context.Context, sessionID string) error {
	if err := m.store.RemoveToken(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := m.store.RemoveIdentity(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
