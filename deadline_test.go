package deadline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type MockStorage struct {
	mu       sync.RWMutex
	timers   map[string]*TimerRecord
	sessions map[string]*Session
	getErr   error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		timers:   make(map[string]*TimerRecord),
		sessions: make(map[string]*Session),
	}
}

// TimerStorage methods
func (m *MockStorage) GetTimer(ctx context.Context, owner string) (*TimerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.timers[owner]
	if !ok {
		return nil, ErrTimerNotFound
	}
	return rec, nil
}

func (m *MockStorage) UpsertTimer(ctx context.Context, rec *TimerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[rec.Owner] = rec
	return nil
}

func (m *MockStorage) DeleteTimer(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, owner)
	return nil
}

func (m *MockStorage) GetTimerByToken(ctx context.Context, token string) (*TimerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.timers {
		if rec.ConfirmationToken == token {
			return rec, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (m *MockStorage) SetVerified(ctx context.Context, token string) (*TimerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.timers {
		if rec.ConfirmationToken == token {
			rec.IsVerified = true
			return rec, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (m *MockStorage) ListExpired(ctx context.Context, now time.Time, limit int) ([]*TimerRecord, error) {
	return nil, nil
}

// SessionStorage methods
func (m *MockStorage) CreateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *MockStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MockStorage) GetSessionByOwner(ctx context.Context, owner string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Owner == owner {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (m *MockStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *MockStorage) DeleteExpiredSessions(ctx context.Context) (int, error) { return 0, nil }

// PaymentStorage methods (minimal stubs)
func (m *MockStorage) GetPaymentStatus(ctx context.Context, owner string) (*PaymentStatus, error) {
	return &PaymentStatus{Owner: owner}, nil
}
func (m *MockStorage) MarkPaid(ctx context.Context, owner string) error { return nil }
func (m *MockStorage) RecordPaymentFailure(ctx context.Context, owner string) (int, error) {
	return 1, nil
}
func (m *MockStorage) ClearPaymentStatus(ctx context.Context, owner string) error { return nil }

// dummy collaborators
type dummyHTTP struct{}

func (d *dummyHTTP) RegisterRoutes(handler TimerHandler, basePath string) error { return nil }

type dummyPublisher struct{}

func (d *dummyPublisher) Publish(ctx context.Context, credential string, image *Image, caption string) (string, error) {
	return "post-1", nil
}

func TestNewShouldWireEngine(t *testing.T) {
	storage := NewMockStorage()

	engine, err := New(Config{
		Secret:    "01234567890123456789012345678901",
		BaseURL:   "https://deadlines.test",
		Database:  storage,
		HTTP:      &dummyHTTP{},
		Publisher: &dummyPublisher{},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	result, err := engine.SignIn(ctx, SignInInput{Handle: "alice", AccessToken: "tok"}, "127.0.0.1", "ua")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	data, err := engine.GetSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if data.Identity.Handle != "alice" {
		t.Fatalf("Handle = %q, want alice", data.Identity.Handle)
	}
}

func TestNewShouldReturnErrSecretTooShort(t *testing.T) {
	cfg := Config{
		Secret:    "short-secret",
		Database:  NewMockStorage(),
		HTTP:      &dummyHTTP{},
		Publisher: &dummyPublisher{},
	}

	_, err := New(cfg)
	if !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort sentinel (errors.Is), got %v", err)
	}
	// Message should include the minimum length
	if !strings.Contains(err.Error(), "32") {
		t.Fatalf("expected error message to include minimum length, got %v", err)
	}
}

func TestNewShouldRequirePublisher(t *testing.T) {
	cfg := Config{
		Secret:   "01234567890123456789012345678901",
		Database: NewMockStorage(),
		HTTP:     &dummyHTTP{},
	}

	_, err := New(cfg)
	if !errors.Is(err, ErrPublisherRequired) {
		t.Fatalf("expected ErrPublisherRequired, got %v", err)
	}
}
