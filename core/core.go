package core

import (
	"time"

	"github.com/nakeddeadlines/deadline/pkg/cryptox"
	"github.com/nakeddeadlines/deadline/pkg/logging"
)

const (
	defaultBasePath           = "/api"
	defaultSecretLen          = 32
	defaultMaxPaymentAttempts = 2
)

type Config struct {
	// Secret seals publisher credentials at rest. Minimum 32 characters.
	Secret string

	// BaseURL is the public origin used to build confirmation links.
	BaseURL string

	Database  StorageAdapter
	HTTP      HTTPAdapter
	Publisher Publisher

	// Optional config
	Notifier           Notifier        // nil: owner shares the link manually
	Payments           PaymentProvider // nil: escape is free
	Images             ImageStore      // nil: images stay client-local
	CacheAdapter       Cache
	SessionConfig      *SessionConfig
	Logger             logging.Logger
	BasePath           string
	MaxPaymentAttempts int
	Clock              func() time.Time
}

// Engine is the deadline lifecycle engine. All mutation of a timer
// record flows through exactly one of its operations.
type Engine struct {
	Store    StorageAdapter
	Sessions *SessionManager
	Images   ImageStore

	publisher Publisher
	notifier  Notifier
	payments  PaymentProvider

	log      logging.Logger
	baseURL  string
	basePath string
	sealer   *cryptox.Sealer
	clock    func() time.Time

	maxPaymentAttempts int
}

var _ TimerHandler = (*Engine)(nil)

func NewEngine(config Config) (*Engine, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, ErrSecretTooShort
	}
	if config.Database == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPRequired
	}
	if config.Publisher == nil {
		return nil, ErrPublisherRequired
	}

	// Set Defaults

	cache := config.CacheAdapter
	if cache == nil {
		cache = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		c := DefaultSessionConfig()
		sessionConfig = &c
	}

	log := config.Logger
	if log == nil {
		log = logging.NewNop()
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	images := config.Images
	if images == nil {
		images = NoImageStore{}
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	maxAttempts := config.MaxPaymentAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxPaymentAttempts
	}

	sealer, err := cryptox.NewSealer(config.Secret)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		Store:              config.Database,
		Sessions:           NewSessionManager(*sessionConfig, config.Database, cache, sealer, clock),
		Images:             images,
		publisher:          config.Publisher,
		notifier:           config.Notifier,
		payments:           config.Payments,
		log:                log,
		baseURL:            config.BaseURL,
		basePath:           basePath,
		sealer:             sealer,
		clock:              clock,
		maxPaymentAttempts: maxAttempts,
	}

	if err := config.HTTP.RegisterRoutes(engine, basePath); err != nil {
		return nil, err
	}

	return engine, nil
}
