package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quizforge/quizforge-api/internal/api/shared"
	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/service"
	"github.com/quizforge/quizforge-api/internal/service/auth"
	"github.com/quizforge/quizforge-api/internal/store"
)

// MapErrorToStatusCode translates domain, store and service errors into the
// appropriate HTTP status code. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication failures
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Conflicts
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Missing resources
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Validation failures
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrNegativeQuestionCount),
		errors.Is(err, domain.ErrCorrectExceedsTotal),
		errors.Is(err, domain.ErrNegativeStudyTime),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Internal
// details never reach the client; 500s get a generic message.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or missing token"
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, store.ErrEmailExists):
		return "Email address is already registered"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"
	case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrEmptyEmail):
		return "A valid email address is required"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 12 characters long"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters long"
	case errors.Is(err, domain.ErrEmptyPassword):
		return "Password is required"
	case errors.Is(err, domain.ErrNegativeQuestionCount):
		return "Question counts cannot be negative"
	case errors.Is(err, domain.ErrCorrectExceedsTotal):
		return "Correct answers cannot exceed total questions"
	case errors.Is(err, domain.ErrNegativeStudyTime):
		return "Study time cannot be negative"
	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return "Invalid request"
	default:
		return "An internal error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message, logs the
// underlying error, and writes the response. The fallbackMessage is used
// only when the error maps to 500 and carries no safer message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError converts validator.ValidationErrors into a
// client-friendly message listing each failed field, without exposing
// internal struct names.
func SanitizeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request format"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s %s",
			strings.ToLower(fieldErr.Field()),
			getValidationTagMessage(fieldErr)))
	}
	return "Validation failed: " + strings.Join(messages, "; ")
}

// getValidationTagMessage describes a single validation tag failure.
func getValidationTagMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", strings.ToLower(fieldErr.Param()))
	default:
		return "is invalid"
	}
}
