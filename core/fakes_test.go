package core

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Fake adapters for engine tests. Error fields let individual tests
// inject failures without building a new fake per scenario.

type FakeStorage struct {
	mu       sync.Mutex
	timers   map[string]*TimerRecord // keyed by owner
	sessions map[string]*Session     // keyed by token hash
	payments map[string]*PaymentStatus

	GetTimerErr      error
	UpsertTimerErr   error
	DeleteTimerErr   error
	GetByTokenErr    error
	SetVerifiedErr   error
	ListExpiredErr   error
	CreateSessionErr error
	GetSessionErr    error
	PaymentStatusErr error
	RecordFailureErr error
	ClearPaymentErr  error

	DeleteTimerCalls int
	UpsertTimerCalls int
	GetByTokenCalls  int

	// BeforeGetByToken runs before each token lookup. Race tests use it
	// to interleave a verification between the caller's first read and
	// the engine's authoritative re-check.
	BeforeGetByToken func()
}

var _ StorageAdapter = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		timers:   make(map[string]*TimerRecord),
		sessions: make(map[string]*Session),
		payments: make(map[string]*PaymentStatus),
	}
}

func (f *FakeStorage) GetTimer(ctx context.Context, owner string) (*TimerRecord, error) {
	if f.GetTimerErr != nil {
		return nil, f.GetTimerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.timers[owner]
	if !ok {
		return nil, ErrTimerNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *FakeStorage) UpsertTimer(ctx context.Context, rec *TimerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpsertTimerCalls++
	if f.UpsertTimerErr != nil {
		return f.UpsertTimerErr
	}
	copied := *rec
	f.timers[rec.Owner] = &copied
	return nil
}

func (f *FakeStorage) DeleteTimer(ctx context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteTimerCalls++
	if f.DeleteTimerErr != nil {
		return f.DeleteTimerErr
	}
	if _, ok := f.timers[owner]; !ok {
		return ErrTimerNotFound
	}
	delete(f.timers, owner)
	return nil
}

func (f *FakeStorage) GetTimerByToken(ctx context.Context, token string) (*TimerRecord, error) {
	if f.BeforeGetByToken != nil {
		f.BeforeGetByToken()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetByTokenCalls++
	if f.GetByTokenErr != nil {
		return nil, f.GetByTokenErr
	}
	for _, rec := range f.timers {
		if rec.ConfirmationToken == token {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (f *FakeStorage) SetVerified(ctx context.Context, token string) (*TimerRecord, error) {
	if f.SetVerifiedErr != nil {
		return nil, f.SetVerifiedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.timers {
		if rec.ConfirmationToken == token {
			rec.IsVerified = true
			copied := *rec
			return &copied, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (f *FakeStorage) ListExpired(ctx context.Context, now time.Time, limit int) ([]*TimerRecord, error) {
	if f.ListExpiredErr != nil {
		return nil, f.ListExpiredErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*TimerRecord
	for _, rec := range f.timers {
		if !rec.IsVerified && !rec.Deadline.After(now) {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeStorage) CreateSession(ctx context.Context, session *Session) error {
	if f.CreateSessionErr != nil {
		return f.CreateSessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.TokenHash] = &copied
	return nil
}

func (f *FakeStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error) {
	if f.GetSessionErr != nil {
		return nil, f.GetSessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *FakeStorage) GetSessionByOwner(ctx context.Context, owner string) (*Session, error) {
	if f.GetSessionErr != nil {
		return nil, f.GetSessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest *Session
	for _, s := range f.sessions {
		if s.Owner != owner {
			continue
		}
		if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
			newest = s
		}
	}
	if newest == nil {
		return nil, ErrSessionNotFound
	}
	copied := *newest
	return &copied, nil
}

func (f *FakeStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	deleted := 0
	for hash, s := range f.sessions {
		if now.After(s.ExpiresAt) {
			delete(f.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (f *FakeStorage) GetPaymentStatus(ctx context.Context, owner string) (*PaymentStatus, error) {
	if f.PaymentStatusErr != nil {
		return nil, f.PaymentStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.payments[owner]
	if !ok {
		return &PaymentStatus{Owner: owner}, nil
	}
	copied := *status
	return &copied, nil
}

func (f *FakeStorage) MarkPaid(ctx context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.payments[owner]
	if !ok {
		status = &PaymentStatus{Owner: owner}
		f.payments[owner] = status
	}
	status.Paid = true
	status.UpdatedAt = time.Now()
	return nil
}

func (f *FakeStorage) RecordPaymentFailure(ctx context.Context, owner string) (int, error) {
	if f.RecordFailureErr != nil {
		return 0, f.RecordFailureErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.payments[owner]
	if !ok {
		status = &PaymentStatus{Owner: owner}
		f.payments[owner] = status
	}
	status.Attempts++
	status.UpdatedAt = time.Now()
	return status.Attempts, nil
}

func (f *FakeStorage) ClearPaymentStatus(ctx context.Context, owner string) error {
	if f.ClearPaymentErr != nil {
		return f.ClearPaymentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payments, owner)
	return nil
}

// FakePublisher records publish calls. BeforePublish runs between the
// engine's authoritative re-check and the side effect, which lets race
// tests interleave a verification.
type FakePublisher struct {
	mu            sync.Mutex
	Calls         int
	LastCaption   string
	LastImage     *Image
	PublishErr    error
	PostID        string
	BeforePublish func()
}

var _ Publisher = (*FakePublisher)(nil)

func (f *FakePublisher) Publish(ctx context.Context, credential string, image *Image, caption string) (string, error) {
	if f.BeforePublish != nil {
		f.BeforePublish()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishErr != nil {
		return "", f.PublishErr
	}
	f.Calls++
	f.LastCaption = caption
	f.LastImage = image
	if f.PostID == "" {
		return "post-1", nil
	}
	return f.PostID, nil
}

type FakeNotifier struct {
	Calls   int
	LastReq VerificationRequest
	SendErr error
}

var _ Notifier = (*FakeNotifier)(nil)

func (f *FakeNotifier) SendVerificationRequest(ctx context.Context, req VerificationRequest) (string, error) {
	if f.SendErr != nil {
		return "", f.SendErr
	}
	f.Calls++
	f.LastReq = req
	return "msg-1", nil
}

type FakePayments struct {
	Calls       int
	CheckoutURL string
	CheckoutErr error
}

var _ PaymentProvider = (*FakePayments)(nil)

func (f *FakePayments) CreateCheckoutSession(ctx context.Context, owner string) (string, error) {
	f.Calls++
	if f.CheckoutErr != nil {
		return "", f.CheckoutErr
	}
	if f.CheckoutURL == "" {
		return "https://checkout.test/session", nil
	}
	return f.CheckoutURL, nil
}

type FakeImageStore struct {
	mu     sync.Mutex
	images map[string]*Image
	Purged []string
	GetErr error
}

var _ ImageStore = (*FakeImageStore)(nil)

func NewFakeImageStore() *FakeImageStore {
	return &FakeImageStore{images: make(map[string]*Image)}
}

func (f *FakeImageStore) Put(key string, image *Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[key] = image
}

func (f *FakeImageStore) GetImage(ctx context.Context, key string) (*Image, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	image, ok := f.images[key]
	if !ok {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (f *FakeImageStore) PurgeImage(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.images, key)
	f.Purged = append(f.Purged, key)
	return nil
}

// nopHTTP satisfies the HTTP port for tests that never serve requests.
type nopHTTP struct{}

func (nopHTTP) RegisterRoutes(handler TimerHandler, basePath string) error { return nil }

const testSecret = "0123456789abcdef0123456789abcdef"

type engineOption func(*Config)

func withClock(clock func() time.Time) engineOption {
	return func(c *Config) { c.Clock = clock }
}

func withNotifier(n Notifier) engineOption {
	return func(c *Config) { c.Notifier = n }
}

func withPayments(p PaymentProvider) engineOption {
	return func(c *Config) { c.Payments = p }
}

func withImages(s ImageStore) engineOption {
	return func(c *Config) { c.Images = s }
}

func newTestEngine(t testingT, storage *FakeStorage, publisher *FakePublisher, opts ...engineOption) *Engine {
	config := Config{
		Secret:    testSecret,
		BaseURL:   "https://deadlines.test",
		Database:  storage,
		HTTP:      nopHTTP{},
		Publisher: publisher,
	}
	for _, opt := range opts {
		opt(&config)
	}
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// testingT is the slice of *testing.T the helpers need.
type testingT interface {
	Fatalf(format string, args ...any)
}
