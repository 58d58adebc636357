package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps each to an HTTP status.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken covers every way a refresh token can be rejected:
	// malformed, bad signature, expired, wrong type, superseded, revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrInvalidCode covers every way a verification or reset code can be rejected.
	ErrInvalidCode = errors.New("invalid token or code")

	// ErrAlreadyVerified indicates a verification code was requested for a verified account.
	ErrAlreadyVerified = errors.New("email is already verified")

	// ErrIncorrectPassword indicates the old password given for a change does not match.
	ErrIncorrectPassword = errors.New("old password is incorrect")

	// ErrSamePassword indicates the new password equals the old one.
	ErrSamePassword = errors.New("new password must differ from the old password")

	// ErrEmailMismatch indicates a request body names a different account than the bearer token.
	ErrEmailMismatch = errors.New("email does not match the authenticated user")

	// ErrStorageDisabled indicates object storage is not configured.
	ErrStorageDisabled = errors.New("object storage is not configured")

	// ErrEmptyPatch indicates an update request carried no fields.
	ErrEmptyPatch = errors.New("no fields to update")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// NewServiceError wraps err with the service and operation names.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// Error implements error.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
