package core

// Endpoint is a framework-agnostic route template. Adapters bind their own
// handler to it by Metadata.OperationID.
type Endpoint struct {
	Path     string
	Method   string
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	RequestBody interface{} // for documentation and validation
	Responses   map[int]interface{}
}

// Operation IDs of the base endpoints
const (
	OpRegister           = "register"
	OpSignInWithPassword = "signInWithPassword"
	OpSignInWithProvider = "signInWithProvider"
	OpSignOut            = "signOut"
	OpGetSession         = "getSession"
	OpGetInitials        = "getInitials"
)

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// MessageResponse is returned by operations without a resource payload
type MessageResponse struct {
	Message string `json:"message"`
}

// InitialsResponse carries the result of GetInitials over the wire
type InitialsResponse struct {
	Initials string `json:"initials"`
}
