package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lborres/wanderauth/core"
)

// SessionManager owns the session pointer: the id of the signed-in account
// stored under one key. An absent or empty record means no session.
type SessionManager struct {
	storage core.Storage
	key     string
}

func NewSessionManager(storage core.Storage, key string) *SessionManager {
	if key == "" {
		key = core.DefaultSessionKey
	}
	return &SessionManager{storage: storage, key: key}
}

// Current returns the stored account id, or "" when there is no session.
func (sm *SessionManager) Current(ctx context.Context) (string, error) {
	raw, err := sm.storage.Get(ctx, sm.key)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (sm *SessionManager) Set(ctx context.Context, accountID string) error {
	if err := sm.storage.Set(ctx, sm.key, []byte(accountID)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the pointer. Clearing an absent pointer is not an error.
func (sm *SessionManager) Clear(ctx context.Context) error {
	if err := sm.storage.Delete(ctx, sm.key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Resolve loads the pointer and finds the account it names. A missing
// pointer or a pointer to an unknown id resolves to nil without error.
func (sm *SessionManager) Resolve(ctx context.Context, accounts *AccountRepository) (*core.Account, error) {
	id, err := sm.Current(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	list, err := accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	return FindByID(list, id), nil
}
