package services

import (
	"fmt"

	"github.com/lborres/wanderauth/core"
)

// BaseEndpoints returns framework-agnostic endpoint specifications
// for all store operations.
//
// Each endpoint is a template: Path and Method are set and Metadata carries
// the operation ID adapters dispatch on. This allows multiple adapters to
// share the same endpoint definitions while providing their own
// framework-specific handlers.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/register",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpRegister,
				Description: "Register a password account and sign it in",
				RequestBody: core.RegisterInput{},
				Responses:   map[int]interface{}{201: core.User{}, 409: core.ErrorResponse{}},
			},
		},
		{
			Path:   "/sign-in",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpSignInWithPassword,
				Description: "Sign in a password account using email and password",
				RequestBody: core.SignInInput{},
				Responses:   map[int]interface{}{200: core.User{}, 401: core.ErrorResponse{}, 404: core.ErrorResponse{}},
			},
		},
		{
			Path:   "/providers/:provider/sign-in",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpSignInWithProvider,
				Description: "Sign in as the demo identity of an external provider",
				Responses:   map[int]interface{}{200: core.User{}},
			},
		},
		{
			Path:   "/sign-out",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpSignOut,
				Description: "Sign out the current user and clear the session",
				Responses:   map[int]interface{}{200: core.MessageResponse{}},
			},
		},
		{
			Path:   "/session",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpGetSession,
				Description: "Get the current user and loading state",
				Responses:   map[int]interface{}{200: core.SessionData{}},
			},
		},
		{
			Path:   "/initials",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: core.OpGetInitials,
				Description: "Derive avatar initials from a name or email",
				Responses:   map[int]interface{}{200: core.InitialsResponse{}},
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	// order keeps registration order for deterministic route setup
	order []string
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base endpoints never collide
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// register adds a single endpoint to the registry with conflict detection.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// RegisterPlugin registers additional endpoints. If any of them conflicts
// with a registered endpoint or with another in the same batch, none are
// registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	// First, check for conflicts with existing endpoints
	for i := range endpoints {
		ep := &endpoints[i]
		if _, exists := r.endpoints[endpointKey(ep)]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
	}

	// Check for conflicts within the plugin set itself
	seen := make(map[string]bool)
	for i := range endpoints {
		ep := &endpoints[i]
		key := endpointKey(ep)

		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		_ = r.register(&ep)
	}

	return nil
}

// Endpoints returns all registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}

// ByOperation returns the endpoint with the given operation ID, or nil.
func (r *EndpointRegistry) ByOperation(operationID string) *core.Endpoint {
	for _, key := range r.order {
		if ep := r.endpoints[key]; ep.Metadata.OperationID == operationID {
			return ep
		}
	}
	return nil
}
