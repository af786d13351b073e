package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/crypto"
	"github.com/lborres/wanderauth/pkg/logging"
)

// AuthServiceConfig wires the collaborators of one store. Only Storage is
// required.
type AuthServiceConfig struct {
	Storage   core.Storage
	Keys      core.StorageKeys
	Passwords crypto.PasswordHandler
	IDs       crypto.IDGenerator
	Providers map[core.Provider]core.ProviderProfile
	Logger    logging.Logger

	// Lock serializes operations. Stores sharing an accounts collection
	// should share one Lock.
	Lock sync.Locker
}

// AuthService is the credential and session store of one device. It starts
// in the loading state until Init has resolved the persisted session.
type AuthService struct {
	accounts       *AccountRepository
	sessionManager *SessionManager
	passwordHasher crypto.PasswordHandler
	ids            crypto.IDGenerator
	providers      map[core.Provider]core.ProviderProfile
	logger         logging.Logger
	lock           sync.Locker

	user     atomic.Pointer[core.User]
	loading  atomic.Bool
	initOnce sync.Once
	ready    chan struct{}

	subMu     sync.Mutex
	subs      map[int]func(*core.User)
	nextSubID int
}

// Ensure AuthService implements AuthHandler
var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(config AuthServiceConfig) *AuthService {
	keys := config.Keys
	if keys.Accounts == "" {
		keys.Accounts = core.DefaultAccountsKey
	}
	if keys.Session == "" {
		keys.Session = core.DefaultSessionKey
	}
	if config.Passwords == nil {
		config.Passwords = crypto.NewFallback()
	}
	if config.IDs == nil {
		config.IDs = crypto.UUID{}
	}
	if config.Providers == nil {
		config.Providers = core.DefaultProviderProfiles()
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if config.Lock == nil {
		config.Lock = &sync.Mutex{}
	}

	s := &AuthService{
		accounts:       NewAccountRepository(config.Storage, keys.Accounts, config.Logger),
		sessionManager: NewSessionManager(config.Storage, keys.Session),
		passwordHasher: config.Passwords,
		ids:            config.IDs,
		providers:      config.Providers,
		logger:         config.Logger.With("session_key", keys.Session),
		lock:           config.Lock,
		ready:          make(chan struct{}),
		subs:           make(map[int]func(*core.User)),
	}
	s.loading.Store(true)
	return s
}

// Init restores the persisted session once. Storage failures are logged and
// leave the store anonymous.
func (s *AuthService) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		defer close(s.ready)
		defer s.loading.Store(false)

		s.lock.Lock()
		defer s.lock.Unlock()

		account, err := s.sessionManager.Resolve(ctx, s.accounts)
		if err != nil {
			s.logger.Warn(ctx, "failed to restore session, continuing signed out", "error", err)
			s.publish(nil)
			return
		}
		if account == nil {
			s.logger.Debug(ctx, "no session to restore")
			s.publish(nil)
			return
		}

		s.logger.Info(ctx, "session restored", "account_id", account.ID)
		s.publish(account.Public())
	})
}

// Ready is closed once Init has finished.
func (s *AuthService) Ready() <-chan struct{} {
	return s.ready
}

func (s *AuthService) IsLoading() bool {
	return s.loading.Load()
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *AuthService) CurrentUser() *core.User {
	return s.user.Load().Clone()
}

// Session returns the client-facing view of the store state.
func (s *AuthService) Session() core.SessionData {
	return core.SessionData{User: s.CurrentUser(), Loading: s.IsLoading()}
}

// Subscribe registers fn to receive every newly published user (nil on
// sign-out). Listeners run synchronously and must not call back into the
// store's mutating methods.
func (s *AuthService) Subscribe(fn func(*core.User)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Register creates a password account and signs it in
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) (*core.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	// Step 1: Check if an account already uses this email
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	email := core.NormalizeEmail(input.Email)
	if FindByEmail(accounts, email, nil) != nil {
		return nil, core.ErrDuplicateAccount
	}

	// Step 2: Hash the password
	digest, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the account
	id, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}
	account := core.Account{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Provider:     core.ProviderPassword,
		PasswordHash: digest,
	}
	if err := s.accounts.Save(ctx, append(accounts, account)); err != nil {
		return nil, err
	}

	// Step 4: Point the session at the new account
	if err := s.sessionManager.Set(ctx, account.ID); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID, "provider", account.Provider)
	return s.publish(account.Public()), nil
}

// SignIn authenticates a password account by email
func (s *AuthService) SignIn(ctx context.Context, input core.SignInInput) (*core.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	// Step 1: Find a password account with this email
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	account := FindByEmail(accounts, input.Email, (*core.Account).IsPasswordAccount)
	if account == nil {
		return nil, core.ErrAccountNotFound
	}
	if account.PasswordHash == "" {
		return nil, core.ErrInvalidCredentials
	}

	// Step 2: Verify the password
	valid, err := s.passwordHasher.Verify(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Point the session at the account
	if err := s.sessionManager.Set(ctx, account.ID); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "signed in", "account_id", account.ID)
	return s.publish(account.Public()), nil
}

// SignInWithProvider signs in as the fixed demo identity of provider,
// creating the account on first use.
func (s *AuthService) SignInWithProvider(ctx context.Context, provider core.Provider) (*core.User, error) {
	provider = core.Provider(strings.TrimSpace(string(provider)))
	if provider == "" {
		return nil, core.ErrProviderRequired
	}

	profile, ok := s.providers[provider]
	if !ok {
		profile = core.FallbackProviderProfile
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	// Step 1: Reuse any account holding the demo email
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	account := FindByEmail(accounts, profile.Email, nil)

	// Step 2: Create it on first use
	if account == nil {
		id, err := s.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate account id: %w", err)
		}
		created := core.Account{
			ID:       id,
			Name:     profile.Name,
			Email:    core.NormalizeEmail(profile.Email),
			Provider: provider,
		}
		if err := s.accounts.Save(ctx, append(accounts, created)); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "provider account created", "account_id", id, "provider", provider)
		account = &created
	}

	// Step 3: Point the session at the account
	if err := s.sessionManager.Set(ctx, account.ID); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "signed in with provider", "account_id", account.ID, "provider", provider)
	return s.publish(account.Public()), nil
}

// SignOut forgets the current user and removes the session pointer. It is a
// no-op when nobody is signed in.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	previous := s.user.Load()
	if previous != nil {
		s.publish(nil)
	}

	if err := s.sessionManager.Clear(ctx); err != nil {
		return err
	}

	if previous != nil {
		s.logger.Info(ctx, "signed out", "account_id", previous.ID)
	}
	return nil
}

// publish swaps the current user and notifies subscribers. It returns a copy
// for the caller.
func (s *AuthService) publish(u *core.User) *core.User {
	s.user.Store(u)

	s.subMu.Lock()
	listeners := make([]func(*core.User), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(u.Clone())
	}
	return u.Clone()
}
