package core

import (
	"github.com/lborres/wanderauth/pkg/crypto"
	"github.com/lborres/wanderauth/pkg/logging"
)

type Config struct {
	Storage Storage

	// Optional config
	HTTP           HTTPAdapter
	Keys           StorageKeys
	PasswordHasher crypto.PasswordHandler
	IDGenerator    crypto.IDGenerator
	Providers      map[Provider]ProviderProfile
	Logger         logging.Logger
	BasePath       string

	// DeviceCache bounds how many device stores stay resident
	DeviceCache  CacheConfig
	DisableCache bool
}
