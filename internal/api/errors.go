package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
)

// Messages shared by several handlers.
const (
	msgInvalidJSON    = "Invalid JSON data."
	msgInternal       = "Internal server error."
	msgBadCredentials = "Bad email or password."
	msgEmailTaken     = "Email is already registered."
	msgEmailUnknown   = "Email is not registered."
	msgBadRefresh     = "Invalid or expired refresh token."
	msgBadVerifyCode  = "Invalid confirm token or verification code."
	msgBadResetCode   = "Invalid reset token or reset code."
	msgForbidden      = "You do not have permission to access this resource."
)

// domainValidationErrors are sentinel errors whose text is safe to show.
var domainValidationErrors = []error{
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrEmptyName,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyPassword,
	domain.ErrTaskNameEmpty,
	domain.ErrInvalidFormat,
	domain.ErrInvalidID,
	domain.ErrValidation,
}

func isValidationError(err error) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Rejected flows keep the original API's 400 responses
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, service.ErrEmailMismatch),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		isValidationError(err):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that reveals no
// internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternal
	}

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrNotOwned):
		return msgForbidden

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrInvalidCredentials):
		return msgBadCredentials
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return msgBadRefresh
	case errors.Is(err, service.ErrInvalidCode):
		return "Invalid token or code."
	case errors.Is(err, service.ErrAlreadyVerified):
		return "Email is already verified."
	case errors.Is(err, service.ErrIncorrectPassword):
		return "Old password is incorrect"
	case errors.Is(err, service.ErrSamePassword):
		return "New password must be different from the old password"
	case errors.Is(err, service.ErrEmailMismatch):
		return "Email does not match the authenticated user."
	case errors.Is(err, service.ErrEmptyPatch):
		return "No fields to update."
	case errors.Is(err, service.ErrStorageDisabled):
		return "Avatar uploads are not available."

	case errors.Is(err, store.ErrEmailExists):
		return msgEmailTaken
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, shared.ErrEmptyBody):
		return msgInvalidJSON

	case errors.As(err, &ve):
		return sentence(ve.Error())
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email address."
	case isValidationError(err):
		return sentence(validationText(err))

	default:
		return msgInternal
	}
}

// validationText returns the text of the first domain sentinel err matches.
func validationText(err error) string {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "validation failed"
}

// sentence capitalizes s and ends it with a period.
func sentence(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// SanitizeValidationError turns validator errors into a message naming the
// first offending field.
func SanitizeValidationError(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// jsonFieldName converts a Go field name such as PhoneNumber to phone_number.
// Names that are already snake case pass through unchanged.
func jsonFieldName(field string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range field {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !isUpper && r != '_'
		b.WriteRune(r)
	}
	return b.String()
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
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

// HandleAPIError writes the status and message for err. A non-empty message
// replaces the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
