package core

import "strings"

// Provider tags how an account authenticates
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// Account represents a persisted account record
//
// This is the "credential" - the only shape that carries the password digest.
// Field names follow the stored JSON format so existing collections keep working.
type Account struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	AvatarURL    *string  `json:"avatarUrl,omitempty"`
	Provider     Provider `json:"provider,omitempty"`
	PasswordHash string   `json:"passHash,omitempty"`
}

// IsPasswordAccount reports whether the account can sign in with a password.
func (a *Account) IsPasswordAccount() bool {
	return a.Provider == ProviderPassword || a.PasswordHash != ""
}

// Public derives the view that is safe to hand to callers.
func (a *Account) Public() *User {
	u := &User{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Provider: a.Provider,
	}
	if a.AvatarURL != nil {
		avatar := *a.AvatarURL
		u.AvatarURL = &avatar
	}
	return u
}

// NormalizeEmail trims and lowercases an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
