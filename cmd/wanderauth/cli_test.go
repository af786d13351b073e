package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/config"
)

// withSQLite points the CLI at a fresh database file for the test.
func withSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("WANDERAUTH_STORAGE_DRIVER", config.DriverSQLite)
	t.Setenv("WANDERAUTH_STORAGE_SQLITE_PATH", filepath.Join(t.TempDir(), "wanderauth.db"))
	t.Setenv("WANDERAUTH_LOG_LEVEL", "error")
}

// stubTerminal replaces the terminal seams for the duration of the test.
func stubTerminal(t *testing.T, terminal bool, password string) {
	t.Helper()
	origTerminal, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origTerminal, origRead })

	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return []byte(password), nil }
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func decodeUser(t *testing.T, out string) core.User {
	t.Helper()
	var u core.User
	require.NoError(t, json.Unmarshal([]byte(out), &u), "output: %s", out)
	return u
}

// Requirement: the session written by one invocation is restored by the next.
func TestRun_RegisterWhoamiSignOutSignIn(t *testing.T) {
	withSQLite(t)
	stubTerminal(t, false, "")

	out, err := run(t, "", "register", "--name", "Jane Doe", "--email", "Jane@Example.com", "--password", "pw")
	require.NoError(t, err)
	registered := decodeUser(t, out)
	assert.Equal(t, "jane@example.com", registered.Email)
	assert.NotContains(t, out, "passHash")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, decodeUser(t, out).ID)

	out, err = run(t, "", "sign-out")
	require.NoError(t, err)
	assert.Equal(t, "signed out\n", out)

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out)

	// password piped on stdin
	out, err = run(t, "pw\n", "sign-in", "--email", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, decodeUser(t, out).ID)

	_, err = run(t, "nope\n", "sign-in", "--email", "jane@example.com")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestRun_PromptsForPasswordOnTerminal(t *testing.T) {
	withSQLite(t)
	stubTerminal(t, true, "secret")

	_, err := run(t, "", "register", "-n", "Jane", "-m", "jane@example.com")
	require.NoError(t, err)

	_, err = run(t, "", "sign-out")
	require.NoError(t, err)

	out, err := run(t, "", "sign-in", "-m", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", decodeUser(t, out).Email)
}

func TestRun_ProviderIsDeterministic(t *testing.T) {
	withSQLite(t)

	out, err := run(t, "", "provider", "google")
	require.NoError(t, err)
	first := decodeUser(t, out)
	assert.Equal(t, "google_user@example.com", first.Email)
	assert.Equal(t, core.Provider("google"), first.Provider)

	out, err = run(t, "", "provider", "google")
	require.NoError(t, err)
	assert.Equal(t, first.ID, decodeUser(t, out).ID)

	_, err = run(t, "", "provider", " ")
	assert.ErrorIs(t, err, core.ErrProviderRequired)
}

// Requirement: devices share accounts but keep their own session pointer.
func TestRun_DevicesAreIsolated(t *testing.T) {
	withSQLite(t)

	_, err := run(t, "", "--device", "laptop", "register", "-n", "Jane", "-m", "jane@example.com", "-p", "pw")
	require.NoError(t, err)

	out, err := run(t, "", "--device", "phone", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out)

	_, err = run(t, "", "--device", "phone", "sign-in", "-m", "jane@example.com", "-p", "pw")
	require.NoError(t, err)

	out, err = run(t, "", "-d", "laptop", "initials")
	require.NoError(t, err)
	assert.Equal(t, "J\n", out)
}

func TestRun_Initials(t *testing.T) {
	withSQLite(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "full name", args: []string{"initials", "Jane", "Doe"}, want: "JD\n"},
		{name: "email", args: []string{"initials", "jane@x.io"}, want: "J\n"},
		{name: "nobody signed in", args: []string{"initials"}, want: "?\n"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			out, err := run(t, "", test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.want, out)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("WANDERAUTH_STORAGE_DRIVER", "redis")
		_, err := run(t, "", "whoami")
		assert.ErrorIs(t, err, core.ErrUnknownStorage)
	})

	t.Run("missing required flag", func(t *testing.T) {
		withSQLite(t)
		_, err := run(t, "", "register", "--name", "Jane")
		var flagsErr *flags.Error
		require.True(t, errors.As(err, &flagsErr))
		assert.Equal(t, flags.ErrRequired, flagsErr.Type)
	})

	t.Run("help", func(t *testing.T) {
		out, err := run(t, "", "--help")
		var flagsErr *flags.Error
		require.True(t, errors.As(err, &flagsErr))
		assert.Equal(t, flags.ErrHelp, flagsErr.Type)
		assert.Contains(t, out, "register")
	})
}

func TestOpenStorage_Memory(t *testing.T) {
	ctx := context.Background()

	s, err := openStorage(ctx, config.StorageConfig{Driver: "MEMORY"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}

func TestServe_MountsRoutes(t *testing.T) {
	t.Setenv("WANDERAUTH_STORAGE_DRIVER", config.DriverMemory)
	t.Setenv("WANDERAUTH_BASE_PATH", "/auth")
	t.Setenv("WANDERAUTH_LOG_LEVEL", "error")

	cmd := &serveCommand{
		cli:    &cli{ctx: context.Background(), stdout: io.Discard, stderr: io.Discard},
		Listen: "127.0.0.1:0",
	}
	app, addr, closeStorage, err := cmd.newApp()
	require.NoError(t, err)
	defer closeStorage()
	assert.Equal(t, "127.0.0.1:0", addr)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
