package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/exitcheck/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is. The API layer maps them to status codes.
var (
	// ErrNoHomeLocation indicates that no home zone has been configured.
	// API layer should map this to HTTP 409 Conflict.
	ErrNoHomeLocation = errors.New("no home location set")

	// ErrItemNotFound indicates that a checklist item does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrNoLocationFix indicates that no current location is known yet.
	ErrNoLocationFix = errors.New("no location fix available")
)

// ServiceError wraps unexpected failures with the service and operation
// that produced them.
type ServiceError struct {
	// Service is the service name (e.g. "home", "checklist")
	Service string
	// Operation is the operation that failed (e.g. "set_home")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err for service and operation. Known store
// sentinels are translated to the service sentinel instead of wrapped.
func NewServiceError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, store.ErrHomeLocationNotFound):
		return ErrNoHomeLocation
	case errors.Is(err, store.ErrChecklistItemNotFound):
		return ErrItemNotFound
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
