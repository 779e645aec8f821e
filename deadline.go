// Package deadline is the NakedDeadlines lifecycle engine: one timer
// record per owner, a friend holding a confirmation link, and a photo
// that gets published if the deadline passes unverified.
package deadline

import (
	"github.com/nakeddeadlines/deadline/core"
)

// interfaces
type (
	StorageAdapter = core.StorageAdapter
	TimerStorage   = core.TimerStorage
	SessionStorage = core.SessionStorage
	PaymentStorage = core.PaymentStorage
	Cache          = core.Cache

	HTTPAdapter = core.HTTPAdapter

	Publisher       = core.Publisher
	Notifier        = core.Notifier
	PaymentProvider = core.PaymentProvider
	ImageStore      = core.ImageStore

	TimerHandler   = core.TimerHandler
	SessionManager = core.SessionManager
)

// structs
type (
	Engine        = core.Engine
	Config        = core.Config
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	Sweeper       = core.Sweeper
)

type (
	TimerRecord         = core.TimerRecord
	TimerStatus         = core.TimerStatus
	Snapshot            = core.Snapshot
	Identity            = core.Identity
	Session             = core.Session
	SessionData         = core.SessionData
	PaymentStatus       = core.PaymentStatus
	Image               = core.Image
	VerificationRequest = core.VerificationRequest
	CacheStats          = core.CacheStats

	SignInInput       = core.SignInInput
	SignInResult      = core.SignInResult
	CreateTimerInput  = core.CreateTimerInput
	CreateTimerResult = core.CreateTimerResult
	ExposeResult      = core.ExposeResult
	EscapeResult      = core.EscapeResult
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = core.NewInMemoryCache
	NewSweeper           = core.NewSweeper
	DefaultSessionConfig = core.DefaultSessionConfig

	Evaluate     = core.Evaluate
	Remaining    = core.Remaining
	ElapsedRatio = core.ElapsedRatio
	IsExpired    = core.IsExpired
)

var (
	ErrTimerNotFound = core.ErrTimerNotFound
	ErrTokenNotFound = core.ErrTokenNotFound
	ErrTimerExpired  = core.ErrTimerExpired
	ErrNotExpired    = core.ErrNotExpired
)

var (
	ErrHandleRequired      = core.ErrHandleRequired
	ErrImageKeyRequired    = core.ErrImageKeyRequired
	ErrGoalRequired        = core.ErrGoalRequired
	ErrDeadlineRequired    = core.ErrDeadlineRequired
	ErrFriendEmailRequired = core.ErrFriendEmailRequired
	ErrInvalidEmail        = core.ErrInvalidEmail
	ErrDeadlineNotFuture   = core.ErrDeadlineNotFuture
	ErrTokenRequired       = core.ErrTokenRequired
	ErrImageRequired       = core.ErrImageRequired
	ErrCredentialRequired  = core.ErrCredentialRequired
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
	ErrSessionNotFound   = core.ErrSessionNotFound
	ErrSessionExpired    = core.ErrSessionExpired
	ErrCacheNotFound     = core.ErrCacheNotFound
)

var (
	ErrPublishFailed = core.ErrPublishFailed
	ErrPaymentFailed = core.ErrPaymentFailed
	ErrImageNotFound = core.ErrImageNotFound
	ErrStoreFailed   = core.ErrStoreFailed
)

var (
	ErrStorageRequired   = core.ErrStorageRequired
	ErrHTTPRequired      = core.ErrHTTPRequired
	ErrPublisherRequired = core.ErrPublisherRequired
	ErrSecretRequired    = core.ErrSecretRequired
	ErrSecretTooShort    = core.ErrSecretTooShort
)

// New wires a lifecycle engine from config and registers its routes on
// the configured HTTP adapter.
func New(config Config) (*Engine, error) {
	return core.NewEngine(config)
}
