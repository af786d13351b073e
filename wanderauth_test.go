package wanderauth

import (
	"context"
	"errors"
	"testing"
)

// dummy HTTP Adapter
type dummyHTTP struct {
	basePath string
	devices  DeviceProvider
	err      error
}

func (d *dummyHTTP) RegisterRoutes(devices DeviceProvider, basePath string) error {
	d.devices = devices
	d.basePath = basePath
	return d.err
}

func TestNewShouldReturnErrStorageRequired(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired, got %v", err)
	}
}

func TestNewShouldRegisterRoutesUnderDefaultBasePath(t *testing.T) {
	adapter := &dummyHTTP{}

	w, err := New(Config{Storage: NewMemoryStorage(), HTTP: adapter})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if adapter.basePath != "/api/auth" || w.BasePath != "/api/auth" {
		t.Errorf("expected base path /api/auth, got adapter=%q instance=%q", adapter.basePath, w.BasePath)
	}
	if adapter.devices == nil {
		t.Error("adapter should receive the device provider")
	}
}

func TestNewShouldReturnRouteRegistrationError(t *testing.T) {
	boom := errors.New("route conflict")
	adapter := &dummyHTTP{err: boom}

	if _, err := New(Config{Storage: NewMemoryStorage(), HTTP: adapter}); !errors.Is(err, boom) {
		t.Fatalf("expected route registration error, got %v", err)
	}
}

// Requirement: Open returns a store that finishes loading and restores the
// persisted session.
func TestOpenShouldRestorePersistedSession(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	first, err := New(Config{Storage: storage})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	store := first.Open(ctx)
	<-store.Ready()
	registered, err := store.Register(ctx, RegisterInput{Name: "Jane Doe", Email: "jane@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// A new instance over the same storage simulates an app restart
	second, _ := New(Config{Storage: storage})
	restored := second.Open(ctx)
	<-restored.Ready()

	if restored.IsLoading() {
		t.Error("restored store should not be loading")
	}
	if u := restored.CurrentUser(); u == nil || u.ID != registered.ID {
		t.Errorf("expected restored user %q, got %+v", registered.ID, u)
	}
}

func TestDeviceShouldReuseCachedStore(t *testing.T) {
	w, _ := New(Config{Storage: NewMemoryStorage()})
	ctx := context.Background()

	a, _ := w.Device(ctx, "phone")
	b, _ := w.Device(ctx, "phone")
	c, _ := w.Device(ctx, "laptop")

	if a != b {
		t.Error("same device should reuse its store")
	}
	if a == c {
		t.Error("different devices should get different stores")
	}
	if stats := w.CacheStats(); stats.Size != 2 || stats.Hits != 1 {
		t.Errorf("unexpected cache stats %+v", stats)
	}
}

func TestDeviceShouldNotUseCacheWhenDisableCacheTrue(t *testing.T) {
	w, _ := New(Config{Storage: NewMemoryStorage(), DisableCache: true})
	ctx := context.Background()

	a, _ := w.Device(ctx, "phone")
	b, _ := w.Device(ctx, "phone")

	if a == b {
		t.Error("with caching disabled every call should build a fresh store")
	}
	if w.CacheStats() != (CacheStats{}) {
		t.Errorf("expected zero cache stats, got %+v", w.CacheStats())
	}
}

// Requirement: devices share accounts but keep their own sessions.
func TestDevicesShareAccountsButNotSessions(t *testing.T) {
	ctx := context.Background()
	w, _ := New(Config{Storage: NewMemoryStorage(), DisableCache: true})

	phone, _ := w.Device(ctx, "phone")
	<-phone.Ready()
	if _, err := phone.Register(ctx, RegisterInput{Name: "A", Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	laptop, _ := w.Device(ctx, "laptop")
	<-laptop.Ready()
	if laptop.CurrentUser() != nil {
		t.Error("laptop should start signed out")
	}
	if _, err := laptop.SignIn(ctx, SignInInput{Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("laptop SignIn failed: %v", err)
	}

	phoneAgain, _ := w.Device(ctx, "phone")
	<-phoneAgain.Ready()
	if u := phoneAgain.CurrentUser(); u == nil || u.Email != "a@x.io" {
		t.Errorf("phone session should survive, got %+v", u)
	}
}
