package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/phrazzld/parla-api/internal/service/sessiontoken"
	"github.com/phrazzld/parla-api/internal/service/tutor"
	"github.com/phrazzld/parla-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on
// the error type. This prevents leaking internal error types or messages
// to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, sessiontoken.ErrInvalidToken),
		errors.Is(err, sessiontoken.ErrExpiredToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, tutor.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, tutor.ErrNoCurriculumMatch),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, sessiontoken.ErrExpiredToken):
		return "Session token expired"

	case errors.Is(err, sessiontoken.ErrInvalidToken):
		return "Invalid session token"

	case errors.Is(err, tutor.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrNoteNotFound):
		return "Parent note not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, tutor.ErrNoCurriculumMatch):
		return "No curriculum items match the requested goal and age band"

	case errors.Is(err, domain.ErrInvalidAgeBand):
		return "Invalid age band"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'StartSessionRequest.LearnerID' Error:Field
		// validation for 'LearnerID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
