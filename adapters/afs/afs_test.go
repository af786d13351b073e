package afs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/services"
)

func setupAdapter(t *testing.T) (*Adapter, string) {
	t.Helper()
	dir := t.TempDir()
	a := New("file://" + dir)
	t.Cleanup(func() { _ = a.Close() })
	return a, dir
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "ww_users.json", objectName("ww_users"))
	assert.Equal(t, "ww_session~3aphone.json", objectName("ww_session:phone"))
	assert.Equal(t, "a~2fb.json", objectName("a/b"))
}

func TestAdapter_SetWritesOneFilePerKey(t *testing.T) {
	a, dir := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, core.DefaultSessionKey, []byte("u1")))

	data, err := os.ReadFile(filepath.Join(dir, "ww_session.json"))
	require.NoError(t, err)
	assert.Equal(t, "u1", string(data))
}

func TestAdapter_RoundTrip(t *testing.T) {
	a, _ := setupAdapter(t)
	ctx := context.Background()

	v, err := a.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, a.Set(ctx, "k", []byte("old")))
	require.NoError(t, a.Set(ctx, "k", []byte("new")))

	v, err = a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(v))

	require.NoError(t, a.Delete(ctx, "k"))
	require.NoError(t, a.Delete(ctx, "k"))

	v, err = a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

// Requirement: accounts written through the object store are visible to a
// store opened later over the same location.
func TestAdapter_BacksAuthService(t *testing.T) {
	ctx := context.Background()
	a, dir := setupAdapter(t)

	store := services.NewAuthService(services.AuthServiceConfig{Storage: a})
	store.Init(ctx)
	_, err := store.SignInWithProvider(ctx, core.ProviderGoogle)
	require.NoError(t, err)
	require.NoError(t, store.SignOut(ctx))

	reopened := services.NewAuthService(services.AuthServiceConfig{Storage: New("file://" + dir)})
	reopened.Init(ctx)
	assert.Nil(t, reopened.CurrentUser())

	again, err := reopened.SignInWithProvider(ctx, core.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "google_user@example.com", again.Email)

	accounts, err := services.NewAccountRepository(a, "", nil).List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
