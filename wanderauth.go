package wanderauth

import (
	"context"
	"sync"
	"time"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/cache"
	"github.com/lborres/wanderauth/pkg/crypto"
	"github.com/lborres/wanderauth/pkg/kv"
	"github.com/lborres/wanderauth/pkg/logging"
	"github.com/lborres/wanderauth/services"
)

// interfaces
type (
	Storage        = core.Storage
	StorageCloser  = core.StorageCloser
	HTTPAdapter    = core.HTTPAdapter
	AuthHandler    = core.AuthHandler
	DeviceProvider = core.DeviceProvider

	PasswordHandler = crypto.PasswordHandler
	IDGenerator     = crypto.IDGenerator
	Logger          = logging.Logger
)

// structs
type (
	Config          = core.Config
	CacheConfig     = core.CacheConfig
	StorageKeys     = core.StorageKeys
	ProviderProfile = core.ProviderProfile
	Store           = services.AuthService
)

type (
	User          = core.User
	Account       = core.Account
	Provider      = core.Provider
	RegisterInput = core.RegisterInput
	SignInInput   = core.SignInInput
	SessionData   = core.SessionData
	CacheStats    = core.CacheStats
)

const (
	ProviderPassword = core.ProviderPassword
	ProviderGoogle   = core.ProviderGoogle
)

const (
	defaultBasePath     = "/api/auth"
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheMaxSize = 500
)

// Constructors & helpers (convenience re-exports)
var (
	NewMemoryStorage   = kv.NewMemoryStorage
	NewFallbackHasher  = crypto.NewFallback
	NewSHA256          = crypto.NewSHA256
	NewDJB2            = crypto.NewDJB2
	NewArgon2          = crypto.NewArgon2
	NewIDGenerator     = crypto.NewIDGenerator
	DefaultStorageKeys = core.DefaultStorageKeys
	GetInitials        = core.GetInitials
	NormalizeEmail     = core.NormalizeEmail
)

var (
	ErrDuplicateAccount   = core.ErrDuplicateAccount
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrNameRequired     = core.ErrNameRequired
	ErrEmailRequired    = core.ErrEmailRequired
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrProviderRequired = core.ErrProviderRequired
)

var (
	ErrStorageRequired = core.ErrStorageRequired
)

// Wanderauth hands out stores bound to one storage. Every store it creates
// shares one lock so concurrent devices never interleave their writes to
// the accounts collection.
type Wanderauth struct {
	config   Config
	BasePath string

	lock    sync.Mutex
	devices *cache.InMemoryCache[*services.AuthService]
}

var _ core.DeviceProvider = (*Wanderauth)(nil)

func New(config Config) (*Wanderauth, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	if config.PasswordHasher == nil {
		config.PasswordHasher = crypto.NewFallback()
	}
	if config.IDGenerator == nil {
		config.IDGenerator = crypto.UUID{}
	}
	if config.Keys.Accounts == "" {
		config.Keys.Accounts = core.DefaultAccountsKey
	}
	if config.Keys.Session == "" {
		config.Keys.Session = core.DefaultSessionKey
	}
	if config.Providers == nil {
		config.Providers = core.DefaultProviderProfiles()
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if config.BasePath == "" {
		config.BasePath = defaultBasePath
	}
	if config.DeviceCache.TTL == 0 {
		config.DeviceCache.TTL = defaultCacheTTL
	}
	if config.DeviceCache.MaxSize == 0 {
		config.DeviceCache.MaxSize = defaultCacheMaxSize
	}

	w := &Wanderauth{
		config:   config,
		BasePath: config.BasePath,
	}
	if !config.DisableCache {
		w.devices = cache.NewInMemoryCache[*services.AuthService](config.DeviceCache)
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(w, w.BasePath); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Open returns the store of the default device with initialization started.
// Wait on Ready before reading the current user.
func (w *Wanderauth) Open(ctx context.Context) *services.AuthService {
	s, _ := w.Store(ctx, "")
	return s
}

// Device implements core.DeviceProvider.
func (w *Wanderauth) Device(ctx context.Context, deviceID string) (core.AuthHandler, error) {
	return w.Store(ctx, deviceID)
}

// Store returns the store of deviceID with initialization started. An empty
// id names the default device.
func (w *Wanderauth) Store(ctx context.Context, deviceID string) (*services.AuthService, error) {
	if w.devices == nil {
		return w.newStore(ctx, deviceID), nil
	}
	return w.devices.GetOrCreate(deviceID, func() (*services.AuthService, error) {
		return w.newStore(ctx, deviceID), nil
	})
}

// CacheStats reports device cache counters. It is zero when caching is disabled.
func (w *Wanderauth) CacheStats() core.CacheStats {
	if w.devices == nil {
		return core.CacheStats{}
	}
	return w.devices.Stats()
}

func (w *Wanderauth) newStore(ctx context.Context, deviceID string) *services.AuthService {
	logger := w.config.Logger
	if deviceID != "" {
		logger = logger.With("device_id", deviceID)
	}

	s := services.NewAuthService(services.AuthServiceConfig{
		Storage:   w.config.Storage,
		Keys:      w.config.Keys.ForDevice(deviceID),
		Passwords: w.config.PasswordHasher,
		IDs:       w.config.IDGenerator,
		Providers: w.config.Providers,
		Logger:    logger,
		Lock:      &w.lock,
	})

	go s.Init(context.WithoutCancel(ctx))
	return s
}
