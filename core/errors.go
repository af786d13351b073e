package core

import "errors"

// Authentication Related Errors
var (
	ErrDuplicateAccount   = errors.New("an account with this email already exists") // 409 Conflict
	ErrAccountNotFound    = errors.New("account not found")                         // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid credentials")                       // 401 Unauthorized
)

// Validation errors (client input)
var (
	ErrNameRequired     = errors.New("name is required")     // 400
	ErrEmailRequired    = errors.New("email is required")    // 400
	ErrPasswordRequired = errors.New("password is required") // 400
	ErrProviderRequired = errors.New("provider is required") // 400
)

// Config errors
var (
	ErrStorageRequired       = errors.New("storage adapter is required") // 500
	ErrUnknownIDScheme       = errors.New("unknown id scheme")           // 500
	ErrUnknownPasswordScheme = errors.New("unknown password scheme")     // 500
	ErrUnknownStorage        = errors.New("unknown storage driver")      // 500
)
