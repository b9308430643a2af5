package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/loop"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
	"github.com/phrazzld/exitcheck/internal/store"
)

// MapErrorToStatusCode maps core errors to HTTP status codes without
// exposing their text.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNoHomeLocation),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, exit_session.ErrNoOpenSession),
		errors.Is(err, exit_session.ErrUnknownItem):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrNoLocationFix),
		errors.Is(err, location.ErrAuthorizationInsufficient),
		errors.Is(err, location.ErrMonitoringUnavailable):
		return http.StatusConflict

	case errors.Is(err, loop.ErrQueueFull),
		errors.Is(err, loop.ErrQueueClosed),
		errors.Is(err, location.ErrMonitoringFailed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrNoHomeLocation):
		return "Home location not set"
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrChecklistItemNotFound):
		return "Checklist item not found"
	case errors.Is(err, exit_session.ErrNoOpenSession):
		return "No open exit session"
	case errors.Is(err, exit_session.ErrUnknownItem):
		return "Item is not part of the session"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrInvalidLatitude):
		return "Latitude must be between -90 and 90"
	case errors.Is(err, domain.ErrInvalidLongitude):
		return "Longitude must be between -180 and 180"
	case errors.Is(err, domain.ErrItemTitleEmpty):
		return "Title is required"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid data"

	case errors.Is(err, service.ErrNoLocationFix):
		return "No location fix available"
	case errors.Is(err, location.ErrAuthorizationInsufficient):
		return "Always location authorization is required"
	case errors.Is(err, location.ErrMonitoringUnavailable):
		return "Region monitoring is not available"
	case errors.Is(err, location.ErrMonitoringFailed):
		return "Region monitoring failed"

	case errors.Is(err, loop.ErrQueueFull),
		errors.Is(err, loop.ErrQueueClosed):
		return "Service busy, try again"

	case errors.Is(err, exit_session.ErrRecordFailed):
		return "Failed to record exit"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. A non-empty message
// overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
