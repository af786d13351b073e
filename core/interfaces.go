package core

import (
	"context"
	"time"
)

// ============================================
// AUTH HANDLER (for presentation adapters)
// ============================================

// AuthHandler is the store as seen by a presentation layer
type AuthHandler interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	SignIn(ctx context.Context, input SignInInput) (*User, error)
	SignInWithProvider(ctx context.Context, provider Provider) (*User, error)
	SignOut(ctx context.Context) error

	CurrentUser() *User
	IsLoading() bool
	Ready() <-chan struct{}
}

// DeviceProvider hands out the store bound to one device's session pointer
type DeviceProvider interface {
	Device(ctx context.Context, deviceID string) (AuthHandler, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(devices DeviceProvider, basePath string) error
}

// ============================================
// CACHE
// ============================================

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
