package fiber

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/wanderauth/core"
)

var errInvalidBody = errors.New("invalid request body")

// handleRegister handles the register endpoint
func handleRegister(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{Error: errInvalidBody.Error()})
	}

	switch {
	case strings.TrimSpace(input.Name) == "":
		return handleAuthError(c, core.ErrNameRequired)
	case strings.TrimSpace(input.Email) == "":
		return handleAuthError(c, core.ErrEmailRequired)
	case input.Password == "":
		return handleAuthError(c, core.ErrPasswordRequired)
	}

	user, err := storeFrom(c).Register(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(user)
}

// handleSignIn handles the password sign-in endpoint
func handleSignIn(c fiber.Ctx) error {
	var input core.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{Error: errInvalidBody.Error()})
	}

	switch {
	case strings.TrimSpace(input.Email) == "":
		return handleAuthError(c, core.ErrEmailRequired)
	case input.Password == "":
		return handleAuthError(c, core.ErrPasswordRequired)
	}

	user, err := storeFrom(c).SignIn(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(user)
}

// handleSignInWithProvider handles the provider sign-in endpoint
func handleSignInWithProvider(c fiber.Ctx) error {
	provider := core.Provider(strings.TrimSpace(c.Params("provider")))

	user, err := storeFrom(c).SignInWithProvider(c.Context(), provider)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(user)
}

// handleSignOut handles the sign-out endpoint
func handleSignOut(c fiber.Ctx) error {
	if err := storeFrom(c).SignOut(c.Context()); err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(core.MessageResponse{Message: "signed out successfully"})
}

// handleGetSession handles the get-session endpoint
func handleGetSession(c fiber.Ctx) error {
	store := storeFrom(c)
	return c.Status(http.StatusOK).JSON(core.SessionData{
		User:    store.CurrentUser(),
		Loading: store.IsLoading(),
	})
}

// handleGetInitials handles the initials endpoint
func handleGetInitials(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(core.InitialsResponse{
		Initials: core.GetInitials(c.Query("of")),
	})
}

// handleAuthError maps store errors to appropriate HTTP responses
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	return c.Status(status).JSON(core.ErrorResponse{Error: message})
}

// mapErrorToStatus maps store error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrDuplicateAccount):
		return http.StatusConflict

	case errors.Is(err, core.ErrAccountNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrNameRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrProviderRequired):
		return http.StatusBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
