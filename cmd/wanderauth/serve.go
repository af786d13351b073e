package main

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	fiberadapter "github.com/lborres/wanderauth/adapters/fiber"
	"github.com/lborres/wanderauth/pkg/logging"
)

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}|${queryParams}",

		// errors
		"${errors}",
	}
	return strings.Join(format, "|") + "\n"
}

type serveCommand struct {
	cli *cli

	Listen string `short:"l" long:"listen" description:"listen address (overrides WANDERAUTH_LISTEN_ADDR)"`
}

// newApp builds the Fiber app with the auth routes mounted. The returned
// closer releases the storage.
func (s *serveCommand) newApp() (*fiber.App, string, func() error, error) {
	cfg, err := s.cli.loadConfig()
	if err != nil {
		return nil, "", nil, err
	}
	log := logging.New(s.cli.stderr, cfg.LogLevel)

	storage, err := openStorage(s.cli.ctx, cfg.Storage)
	if err != nil {
		return nil, "", nil, err
	}

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     logFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	w, err := newWanderauth(cfg, storage, log, fiberadapter.New(app))
	if err != nil {
		storage.Close()
		return nil, "", nil, err
	}

	addr := cfg.ListenAddr
	if s.Listen != "" {
		addr = s.Listen
	}
	log.Info(s.cli.ctx, "serving auth api",
		"addr", addr,
		"base_path", w.BasePath,
		"storage", cfg.Storage.Driver,
	)
	return app, addr, storage.Close, nil
}

func (s *serveCommand) Execute(args []string) error {
	app, addr, closeStorage, err := s.newApp()
	if err != nil {
		return err
	}
	defer closeStorage()

	go func() {
		<-s.cli.ctx.Done()
		_ = app.Shutdown()
	}()

	return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}
