// Package config loads runtime settings from WANDERAUTH_ environment
// variables, optionally seeded from a .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/crypto"
)

const EnvPrefix = "WANDERAUTH_"

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverAFS      = "afs"
	DriverPostgres = "postgres"
)

// Password schemes
const (
	PasswordSHA256   = "sha256"
	PasswordArgon2ID = "argon2id"
)

type Config struct {
	Storage StorageConfig `env:",prefix=STORAGE_"`

	IDScheme       string `env:"ID_SCHEME,default=uuid"`
	PasswordScheme string `env:"PASSWORD_SCHEME,default=sha256"`

	AccountsKey string `env:"ACCOUNTS_KEY,default=ww_users"`
	SessionKey  string `env:"SESSION_KEY,default=ww_session"`

	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	BasePath   string `env:"BASE_PATH,default=/api/auth"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	CacheTTL     time.Duration `env:"CACHE_TTL,default=5m"`
	CacheSize    int           `env:"CACHE_SIZE,default=500"`
	DisableCache bool          `env:"DISABLE_CACHE,default=false"`
}

type StorageConfig struct {
	Driver      string `env:"DRIVER,default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,default=wanderauth.db"`
	AFSURL      string `env:"AFS_URL"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// Load reads the given .env files (or ./.env when none are named), then the
// process environment. Missing .env files are ignored; variables already set
// in the environment win.
func Load(ctx context.Context, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads WANDERAUTH_ variables through l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	config := Config{}
	if err := envconfig.ProcessWith(ctx, &config, envconfig.PrefixLookuper(EnvPrefix, l)); err != nil {
		return Config{}, fmt.Errorf("parsing env vars: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case DriverMemory, DriverSQLite:
	case DriverAFS:
		if c.Storage.AFSURL == "" {
			return fmt.Errorf("%w: %s requires %sSTORAGE_AFS_URL", core.ErrUnknownStorage, DriverAFS, EnvPrefix)
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("%w: %s requires %sSTORAGE_POSTGRES_DSN", core.ErrUnknownStorage, DriverPostgres, EnvPrefix)
		}
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownStorage, c.Storage.Driver)
	}

	if _, err := c.PasswordHandler(); err != nil {
		return err
	}
	if _, err := c.IDGenerator(); err != nil {
		return err
	}
	return nil
}

// PasswordHandler resolves PasswordScheme. sha256 keeps the DJB2 fallback.
func (c Config) PasswordHandler() (crypto.PasswordHandler, error) {
	switch strings.ToLower(strings.TrimSpace(c.PasswordScheme)) {
	case "", PasswordSHA256:
		return crypto.NewFallback(), nil
	case PasswordArgon2ID:
		return crypto.NewArgon2(), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownPasswordScheme, c.PasswordScheme)
	}
}

func (c Config) IDGenerator() (crypto.IDGenerator, error) {
	ids, err := crypto.NewIDGenerator(c.IDScheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownIDScheme, c.IDScheme)
	}
	return ids, nil
}

func (c Config) Keys() core.StorageKeys {
	return core.StorageKeys{Accounts: c.AccountsKey, Session: c.SessionKey}
}

func (c Config) DeviceCache() core.CacheConfig {
	return core.CacheConfig{TTL: c.CacheTTL, MaxSize: c.CacheSize}
}
