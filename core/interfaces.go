package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// TimerStorage defines timer-record database operations.
//
// The record must be addressable both by owner and by confirmation
// token; the token is the sole credential for verification.
type TimerStorage interface {
	GetTimer(ctx context.Context, owner string) (*TimerRecord, error)
	UpsertTimer(ctx context.Context, rec *TimerRecord) error
	DeleteTimer(ctx context.Context, owner string) error
	GetTimerByToken(ctx context.Context, token string) (*TimerRecord, error)
	// SetVerified flips isVerified to true for the record matching
	// token and returns the updated record. The flag is monotonic:
	// once true it is never reset while the record exists.
	SetVerified(ctx context.Context, token string) (*TimerRecord, error)
	// ListExpired returns records whose deadline is at or before now
	// and which have not been verified, oldest deadline first.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*TimerRecord, error)
}

// SessionStorage defines session-related database operations
type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	// GetSessionByOwner returns the most recently created live session
	// for owner. Used by the expiry sweeper to publish on the owner's
	// behalf when no browser session is open.
	GetSessionByOwner(ctx context.Context, owner string) (*Session, error)
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// PaymentStorage defines escape-fee ledger operations.
type PaymentStorage interface {
	// GetPaymentStatus returns the ledger row for owner, or a zero row
	// (paid=false, attempts=0) when none exists.
	GetPaymentStatus(ctx context.Context, owner string) (*PaymentStatus, error)
	MarkPaid(ctx context.Context, owner string) error
	// RecordPaymentFailure increments the failed-attempt counter and
	// returns the new count.
	RecordPaymentFailure(ctx context.Context, owner string) (int, error)
	ClearPaymentStatus(ctx context.Context, owner string) error
}

type StorageAdapter interface {
	TimerStorage
	SessionStorage
	PaymentStorage
}

// ============================================
// CACHE PORT
// ============================================

// Cache defines session caching operations.
//
// The cache is a read accelerator for session verification only. The
// pre-publish verification re-check always goes to storage.
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error
	Clear() error
}

// CacheWithStats extends Cache with statistics tracking
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// COLLABORATOR PORTS (outbound calls)
// ============================================

// Publisher posts an image under the owner's social account. This is
// the sole mechanism for exposure.
type Publisher interface {
	Publish(ctx context.Context, credential string, image *Image, caption string) (postID string, err error)
}

// VerificationRequest is the payload handed to the Notifier when a
// timer is created.
type VerificationRequest struct {
	FriendEmail     string
	ConfirmationURL string
	GoalDescription string
	Deadline        time.Time
	OwnerHandle     string
}

// Notifier delivers the confirmation link to the verifying friend.
// Delivery failure is non-fatal to timer creation.
type Notifier interface {
	SendVerificationRequest(ctx context.Context, req VerificationRequest) (messageID string, err error)
}

// PaymentProvider creates hosted checkout sessions for the escape fee.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, owner string) (url string, err error)
}

// ImageStore is keyed blob storage for the at-stake photo. In the web
// deployment the blob lives only in the owner's browser, so the default
// implementation reports ErrImageNotFound for every key.
type ImageStore interface {
	GetImage(ctx context.Context, key string) (*Image, error)
	PurgeImage(ctx context.Context, key string) error
}

// ============================================
// TIMER HANDLER (for HTTP adapters)
// ============================================

// TimerHandler provides the lifecycle operations for HTTP adapters.
type TimerHandler interface {
	SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionData, error)

	CreateTimer(ctx context.Context, owner Identity, input CreateTimerInput) (*CreateTimerResult, error)
	ActiveTimer(ctx context.Context, owner string) (*TimerStatus, error)
	DeleteTimer(ctx context.Context, owner string) error

	LookupByToken(ctx context.Context, token string) (*TimerStatus, error)
	Verify(ctx context.Context, token string) (*TimerStatus, error)

	Expose(ctx context.Context, session *Session, image *Image, message string) (*ExposeResult, error)
	Escape(ctx context.Context, owner string) (*EscapeResult, error)

	CreateCheckout(ctx context.Context, owner string) (string, error)
	GetPaymentStatus(ctx context.Context, owner string) (*PaymentStatus, error)
	ConfirmPayment(ctx context.Context, owner string) error
	CancelPayment(ctx context.Context, owner string) error
	ClearPaymentStatus(ctx context.Context, owner string) error
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(handler TimerHandler, basePath string) error
}
