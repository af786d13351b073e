package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nrednav/cuid2"
)

// IDGenerator synthesizes opaque unique account identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

const (
	SchemeUUID   = "uuid"
	SchemeCUID2  = "cuid2"
	SchemeNanoID = "nanoid"
)

// UUID generates random (version 4) UUIDs.
type UUID struct{}

var _ IDGenerator = UUID{}

func (UUID) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return id.String(), nil
}

// CUID2 generates collision-resistant ids.
type CUID2 struct{}

var _ IDGenerator = CUID2{}

func (CUID2) NewID() (string, error) {
	return cuid2.Generate(), nil
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() (string, error)

func (f IDGeneratorFunc) NewID() (string, error) {
	return f()
}

// ErrUnknownScheme is wrapped by NewIDGenerator for unsupported names.
var ErrUnknownScheme = errors.New("unknown scheme")

// NewIDGenerator resolves a scheme name. An empty name selects uuid.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeUUID:
		return UUID{}, nil
	case SchemeCUID2:
		return CUID2{}, nil
	case SchemeNanoID:
		return NewNanoID(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}
