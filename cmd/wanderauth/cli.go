package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/lborres/wanderauth"
	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/config"
	"github.com/lborres/wanderauth/pkg/logging"
)

// Options are shared by every command.
type Options struct {
	EnvFiles []string `short:"e" long:"env-file" description:"dotenv file to load before the environment (repeatable)"`
	Device   string   `short:"d" long:"device" description:"device whose session pointer to use"`
}

type cli struct {
	ctx     context.Context
	options Options

	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{
		ctx:    ctx,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}

	parser := flags.NewParser(&c.options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "wanderauth"

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"register", "Create a password account", "Creates a password account and signs it in on the device.", &registerCommand{cli: c}},
		{"sign-in", "Sign in with email and password", "Signs a password account in on the device.", &signInCommand{cli: c}},
		{"provider", "Sign in with an identity provider", "Signs in with the demo identity of a provider, creating the account on first use.", &providerCommand{cli: c}},
		{"sign-out", "Sign the device out", "Clears the device's session pointer. Accounts are kept.", &signOutCommand{cli: c}},
		{"whoami", "Print the signed-in user", "Prints the device's current user as JSON.", &whoamiCommand{cli: c}},
		{"initials", "Print initials of a name or email", "Prints initials of the argument, or of the current user when none is given.", &initialsCommand{cli: c}},
		{"serve", "Serve the HTTP API", "Serves the store over HTTP with a device cookie per client.", &serveCommand{cli: c}},
	}
	for _, cmd := range commands {
		if _, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			return err
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
		}
		return err
	}
	return nil
}

// session is an opened store together with the storage backing it.
type session struct {
	store   *wanderauth.Store
	storage core.StorageCloser
}

func (s *session) Close() error {
	return s.storage.Close()
}

func (c *cli) loadConfig() (config.Config, error) {
	return config.Load(c.ctx, c.options.EnvFiles...)
}

// open builds the store of the selected device and waits for it to restore
// the persisted session.
func (c *cli) open() (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(c.stderr, cfg.LogLevel)

	storage, err := openStorage(c.ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	w, err := newWanderauth(cfg, storage, logger, nil)
	if err != nil {
		storage.Close()
		return nil, err
	}

	store, err := w.Store(c.ctx, c.options.Device)
	if err != nil {
		storage.Close()
		return nil, err
	}

	select {
	case <-store.Ready():
	case <-c.ctx.Done():
		storage.Close()
		return nil, c.ctx.Err()
	}

	return &session{store: store, storage: storage}, nil
}

func newWanderauth(cfg config.Config, storage core.Storage, logger logging.Logger, httpAdapter core.HTTPAdapter) (*wanderauth.Wanderauth, error) {
	hasher, err := cfg.PasswordHandler()
	if err != nil {
		return nil, err
	}
	ids, err := cfg.IDGenerator()
	if err != nil {
		return nil, err
	}

	return wanderauth.New(wanderauth.Config{
		Storage:        storage,
		HTTP:           httpAdapter,
		Keys:           cfg.Keys(),
		PasswordHasher: hasher,
		IDGenerator:    ids,
		Logger:         logger,
		BasePath:       cfg.BasePath,
		DeviceCache:    cfg.DeviceCache(),
		DisableCache:   cfg.DisableCache,
	})
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type registerCommand struct {
	cli *cli

	Name     string `short:"n" long:"name" description:"display name" required:"true"`
	Email    string `short:"m" long:"email" description:"email address" required:"true"`
	Password string `short:"p" long:"password" description:"password (prompted when omitted)"`
}

func (r *registerCommand) Execute(args []string) error {
	password, err := r.cli.password(r.Password)
	if err != nil {
		return err
	}

	s, err := r.cli.open()
	if err != nil {
		return err
	}
	defer s.Close()

	user, err := s.store.Register(r.cli.ctx, core.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: password,
	})
	if err != nil {
		return err
	}
	return r.cli.printJSON(user)
}

type signInCommand struct {
	cli *cli

	Email    string `short:"m" long:"email" description:"email address" required:"true"`
	Password string `short:"p" long:"password" description:"password (prompted when omitted)"`
}

func (s *signInCommand) Execute(args []string) error {
	password, err := s.cli.password(s.Password)
	if err != nil {
		return err
	}

	sess, err := s.cli.open()
	if err != nil {
		return err
	}
	defer sess.Close()

	user, err := sess.store.SignIn(s.cli.ctx, core.SignInInput{Email: s.Email, Password: password})
	if err != nil {
		return err
	}
	return s.cli.printJSON(user)
}

type providerCommand struct {
	cli *cli

	Args struct {
		Provider string `positional-arg-name:"provider" description:"provider tag, e.g. google"`
	} `positional-args:"yes" required:"yes"`
}

func (p *providerCommand) Execute(args []string) error {
	s, err := p.cli.open()
	if err != nil {
		return err
	}
	defer s.Close()

	user, err := s.store.SignInWithProvider(p.cli.ctx, core.Provider(strings.TrimSpace(p.Args.Provider)))
	if err != nil {
		return err
	}
	return p.cli.printJSON(user)
}

type signOutCommand struct {
	cli *cli
}

func (o *signOutCommand) Execute(args []string) error {
	s, err := o.cli.open()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.SignOut(o.cli.ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.cli.stdout, "signed out")
	return err
}

type whoamiCommand struct {
	cli *cli
}

func (w *whoamiCommand) Execute(args []string) error {
	s, err := w.cli.open()
	if err != nil {
		return err
	}
	defer s.Close()

	user := s.store.CurrentUser()
	if user == nil {
		_, err := fmt.Fprintln(w.cli.stdout, "not signed in")
		return err
	}
	return w.cli.printJSON(user)
}

type initialsCommand struct {
	cli *cli
}

func (i *initialsCommand) Execute(args []string) error {
	of := strings.Join(args, " ")
	if of == "" {
		s, err := i.cli.open()
		if err != nil {
			return err
		}
		defer s.Close()

		if user := s.store.CurrentUser(); user != nil {
			of = user.Name
			if strings.TrimSpace(of) == "" {
				of = user.Email
			}
		}
	}

	_, err := fmt.Fprintln(i.cli.stdout, core.GetInitials(of))
	return err
}
