package core

// RegisterInput contains the data needed to register a new account
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInInput contains the credentials for password sign-in
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionData is the model returned to clients asking for the current session
type SessionData struct {
	User    *User `json:"user"`
	Loading bool  `json:"loading"`
}

// ProviderProfile is the fixed demo identity a provider sign-in resolves to
type ProviderProfile struct {
	Email string
	Name  string
}

// StorageKeys names the two records kept in key-value storage
type StorageKeys struct {
	Accounts string
	Session  string
}

const (
	DefaultAccountsKey = "ww_users"
	DefaultSessionKey  = "ww_session"
)

func DefaultStorageKeys() StorageKeys {
	return StorageKeys{
		Accounts: DefaultAccountsKey,
		Session:  DefaultSessionKey,
	}
}

// ForDevice namespaces the session pointer of a device. The accounts
// collection stays shared.
func (k StorageKeys) ForDevice(deviceID string) StorageKeys {
	if deviceID == "" {
		return k
	}
	return StorageKeys{
		Accounts: k.Accounts,
		Session:  k.Session + ":" + deviceID,
	}
}

// DefaultProviderProfiles returns the demo identities of known providers.
func DefaultProviderProfiles() map[Provider]ProviderProfile {
	return map[Provider]ProviderProfile{
		ProviderGoogle: {Email: "google_user@example.com", Name: "Google User"},
	}
}

// FallbackProviderProfile is used for providers without a configured profile.
var FallbackProviderProfile = ProviderProfile{Email: "user@example.com", Name: "Demo User"}
