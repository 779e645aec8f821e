package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nakeddeadlines/deadline/pkg/crypto"
	"github.com/nakeddeadlines/deadline/pkg/cryptox"
)

type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// SessionManager owns the owner-session lifecycle. The upstream OAuth
// flow is an external collaborator: it hands over an authenticated
// handle plus the publisher access token, and the manager issues an
// opaque bearer token in exchange. Only the token's hash is stored.
type SessionManager struct {
	config  SessionConfig
	storage SessionStorage
	cache   Cache // optional, can be nil if caching is disabled
	sealer  *cryptox.Sealer
	clock   func() time.Time
}

type CreateSessionResult struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

func NewSessionManager(config SessionConfig, storage SessionStorage, cache Cache, sealer *cryptox.Sealer, clock func() time.Time) *SessionManager {
	if clock == nil {
		clock = time.Now
	}
	return &SessionManager{
		config:  config,
		storage: storage,
		cache:   cache,
		sealer:  sealer,
		clock:   clock,
	}
}

// Create issues a session for owner. accessToken is the publisher
// credential captured at sign-in; it is sealed before it is persisted.
func (sm *SessionManager) Create(ctx context.Context, owner Identity, accessToken, ipAddress, userAgent string) (*CreateSessionResult, error) {
	if owner.Handle == "" {
		return nil, ErrHandleRequired
	}
	if accessToken == "" {
		return nil, ErrCredentialRequired
	}

	pair, err := crypto.GenerateHashedToken(crypto.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	credential, err := sm.sealer.Seal([]byte(accessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to seal credential: %w", err)
	}

	now := sm.clock()
	session := &Session{
		ID:         uuid.NewString(),
		Owner:      owner.Handle,
		TokenHash:  pair.Hash,
		Credential: credential,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(sm.config.MaxAge),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// We don't fail the request if caching fails
	if sm.cache != nil {
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &CreateSessionResult{Session: session, Token: pair.Token}, nil
}

// Verify resolves a raw bearer token to its live session.
func (sm *SessionManager) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	// Try cache first if caching is enabled
	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil && session != nil {
			if sm.clock().Before(session.ExpiresAt) {
				return session, nil
			}
			_ = sm.cache.Delete(tokenHash)
			return nil, ErrSessionExpired
		}
		// Cache miss - fall through to storage
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if sm.clock().After(session.ExpiresAt) {
		_ = sm.storage.DeleteSessionByHash(ctx, tokenHash)
		return nil, ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

// Destroy invalidates the session for the given raw token.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	return sm.storage.DeleteSessionByHash(ctx, tokenHash)
}

// DeleteExpired removes sessions past their expiry and reports how many
// were deleted.
func (sm *SessionManager) DeleteExpired(ctx context.Context) (int, error) {
	if sm.cache != nil {
		_ = sm.cache.Clear()
	}
	return sm.storage.DeleteExpiredSessions(ctx)
}

// Credential unseals the publisher access token carried by session.
func (sm *SessionManager) Credential(session *Session) (string, error) {
	if len(session.Credential) == 0 {
		return "", ErrCredentialRequired
	}
	plaintext, err := sm.sealer.Open(session.Credential)
	if err != nil {
		return "", fmt.Errorf("failed to unseal credential: %w", err)
	}
	return string(plaintext), nil
}
