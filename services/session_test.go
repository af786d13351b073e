package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lborres/wanderauth/core"
)

func seedAccounts(t *testing.T, storage *FakeStorage, accounts ...core.Account) {
	t.Helper()
	raw, err := json.Marshal(accounts)
	if err != nil {
		t.Fatalf("failed to encode seed accounts: %v", err)
	}
	storage.Put(core.DefaultAccountsKey, string(raw))
}

// Requirement: the session pointer round-trips and an absent pointer reads as "".
func TestSessionManager_SetCurrentClear(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := NewFakeStorage()
	manager := NewSessionManager(storage, "")

	// Act & Assert
	id, err := manager.Current(ctx)
	if err != nil || id != "" {
		t.Fatalf("Current() on empty storage = %q, %v; want \"\", nil", id, err)
	}

	if err := manager.Set(ctx, "u1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if raw, _ := storage.Raw(core.DefaultSessionKey); raw != "u1" {
		t.Errorf("stored pointer = %q, want %q", raw, "u1")
	}

	id, _ = manager.Current(ctx)
	if id != "u1" {
		t.Errorf("Current() = %q, want %q", id, "u1")
	}

	if err := manager.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := manager.Clear(ctx); err != nil {
		t.Errorf("second Clear() should not error, got %v", err)
	}
	if _, ok := storage.Raw(core.DefaultSessionKey); ok {
		t.Error("pointer should be removed after Clear()")
	}
}

// Requirement: Resolve returns the pointed-to account, and nil for a missing
// or dangling pointer.
func TestSessionManager_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		pointer string
		wantID  string
	}{
		{name: "resolves existing account", pointer: "u1", wantID: "u1"},
		{name: "dangling pointer resolves to nil", pointer: "u404", wantID: ""},
		{name: "empty pointer resolves to nil", pointer: "", wantID: ""},
		{name: "whitespace pointer resolves to nil", pointer: "  ", wantID: ""},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			seedAccounts(t, storage, core.Account{ID: "u1", Name: "Ann", Email: "ann@x.io", Provider: core.ProviderPassword, PasswordHash: "h"})
			storage.Put(core.DefaultSessionKey, test.pointer)
			manager := NewSessionManager(storage, "")

			// Act
			account, err := manager.Resolve(context.Background(), NewAccountRepository(storage, "", nil))

			// Assert
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			gotID := ""
			if account != nil {
				gotID = account.ID
			}
			if gotID != test.wantID {
				t.Errorf("Resolve() id = %q, want %q", gotID, test.wantID)
			}
		})
	}
}

// Requirement: storage read failures are reported by the session manager.
func TestSessionManager_CurrentPropagatesStorageErrors(t *testing.T) {
	storage := NewFakeStorage()
	storage.getErr = errors.New("disk unavailable")
	manager := NewSessionManager(storage, "")

	if _, err := manager.Current(context.Background()); !errors.Is(err, storage.getErr) {
		t.Errorf("Current() error = %v, want wrapped %v", err, storage.getErr)
	}
}

// Requirement: malformed or null account collections read as empty.
func TestAccountRepository_ListDegradesOnMalformedContent(t *testing.T) {
	tests := []struct {
		name      string
		raw       *string
		wantCount int
	}{
		{name: "absent record", raw: nil, wantCount: 0},
		{name: "empty record", raw: strPtr(""), wantCount: 0},
		{name: "null", raw: strPtr("null"), wantCount: 0},
		{name: "not json", raw: strPtr("{{nope"), wantCount: 0},
		{name: "object instead of array", raw: strPtr(`{"id":"u1"}`), wantCount: 0},
		{name: "valid array", raw: strPtr(`[{"id":"u1","name":"Ann","email":"ann@x.io"}]`), wantCount: 1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			if test.raw != nil {
				storage.Put(core.DefaultAccountsKey, *test.raw)
			}
			repo := NewAccountRepository(storage, "", nil)

			// Act
			accounts, err := repo.List(context.Background())

			// Assert
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if accounts == nil {
				t.Fatal("List() should return a non-nil slice")
			}
			if len(accounts) != test.wantCount {
				t.Errorf("List() returned %d accounts, want %d", len(accounts), test.wantCount)
			}
		})
	}
}

// Requirement: Save writes the original JSON field names and keeps order.
func TestAccountRepository_SaveUsesStoredFieldNames(t *testing.T) {
	// Arrange
	storage := NewFakeStorage()
	repo := NewAccountRepository(storage, "", nil)
	accounts := []core.Account{
		{ID: "u1", Name: "Ann", Email: "ann@x.io", Provider: core.ProviderPassword, PasswordHash: "abc"},
		{ID: "u2", Name: "Google User", Email: "google_user@example.com", Provider: core.ProviderGoogle},
	}

	// Act
	if err := repo.Save(context.Background(), accounts); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Assert
	raw, _ := storage.Raw(core.DefaultAccountsKey)
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("stored record is not a JSON array: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["id"] != "u1" || decoded[1]["id"] != "u2" {
		t.Fatalf("unexpected stored accounts %v", decoded)
	}
	if decoded[0]["passHash"] != "abc" {
		t.Errorf("password account should store passHash, got %v", decoded[0])
	}
	if _, ok := decoded[1]["passHash"]; ok {
		t.Errorf("provider account should not store passHash, got %v", decoded[1])
	}
}

func TestFindByEmail(t *testing.T) {
	accounts := []core.Account{
		{ID: "g", Email: "ann@x.io", Provider: core.ProviderGoogle},
		{ID: "p", Email: "Ann@X.io", Provider: core.ProviderPassword, PasswordHash: "h"},
	}

	if got := FindByEmail(accounts, " ANN@x.io ", nil); got == nil || got.ID != "g" {
		t.Errorf("FindByEmail(any) = %+v, want g", got)
	}
	if got := FindByEmail(accounts, "ann@x.io", (*core.Account).IsPasswordAccount); got == nil || got.ID != "p" {
		t.Errorf("FindByEmail(password) = %+v, want p", got)
	}
	if got := FindByEmail(accounts, "bob@x.io", nil); got != nil {
		t.Errorf("FindByEmail(unknown) = %+v, want nil", got)
	}
}

func strPtr(s string) *string {
	return &s
}
