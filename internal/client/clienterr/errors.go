// Package clienterr defines the error taxonomy shared by the client-side
// components. Callers branch on error class with errors.As; anything not
// covered here is a plain wrapped error.
package clienterr

import "fmt"

// ValidationError reports bad local input. No network call was made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// AuthError reports a sign-in/sign-out failure or a missing/expired session.
// Unauthenticated is true for the 401-class variant (no valid session), as
// opposed to a failed credential exchange.
type AuthError struct {
	Reason          string
	Unauthenticated bool
}

func (e *AuthError) Error() string {
	return "auth error: " + e.Reason
}

// AuthorizationError reports a 403-class rejection (e.g. a non-admin
// attempting moderation, or a storage permission failure). Enforcement is
// server-side; the client only surfaces it.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "authorization error: " + e.Reason
}

// NotFoundError reports a 404-class response.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// APIError is a generic server error passthrough. Detail carries the server's
// own message verbatim when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// Pipeline stages a TransportError can originate from, so multi-stage
// operations surface stage-specific failures.
const (
	StageAIGeneration  = "ai-generation"
	StageStorageUpload = "storage-upload"
	StageDownloadURL   = "download-url"
	StageCreateRecord  = "create-record"
)

// TransportError reports a network/storage/API failure, tagged with the
// stage it happened in.
type TransportError struct {
	Stage string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error at %s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
