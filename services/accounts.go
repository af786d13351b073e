package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/logging"
)

// AccountRepository reads and writes the accounts collection as a single
// JSON array under one storage key.
type AccountRepository struct {
	storage core.Storage
	key     string
	logger  logging.Logger
}

func NewAccountRepository(storage core.Storage, key string, logger logging.Logger) *AccountRepository {
	if key == "" {
		key = core.DefaultAccountsKey
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &AccountRepository{storage: storage, key: key, logger: logger}
}

// List returns the stored accounts in insertion order. A missing record or
// content that does not decode as an array of accounts reads as empty.
func (r *AccountRepository) List(ctx context.Context) ([]core.Account, error) {
	raw, err := r.storage.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []core.Account{}, nil
	}

	var accounts []core.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		r.logger.Warn(ctx, "accounts record is malformed, treating as empty", "key", r.key, "error", err)
		return []core.Account{}, nil
	}
	if accounts == nil {
		return []core.Account{}, nil
	}
	return accounts, nil
}

// Save replaces the whole collection.
func (r *AccountRepository) Save(ctx context.Context, accounts []core.Account) error {
	if accounts == nil {
		accounts = []core.Account{}
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := r.storage.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to write accounts: %w", err)
	}
	return nil
}

// FindByID returns the account with the given id, or nil.
func FindByID(accounts []core.Account, id string) *core.Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}

// FindByEmail returns the first account whose normalized email matches and
// that satisfies match, or nil. A nil match accepts any account.
func FindByEmail(accounts []core.Account, email string, match func(*core.Account) bool) *core.Account {
	email = core.NormalizeEmail(email)
	for i := range accounts {
		a := &accounts[i]
		if core.NormalizeEmail(a.Email) != email {
			continue
		}
		if match == nil || match(a) {
			return a
		}
	}
	return nil
}
