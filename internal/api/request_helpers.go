package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's UUID placed in the
// context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserID(r.Context())
}

// getPathUUID parses the named chi URL parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUserID writes a 401 and returns false when the request carries no
// authenticated user.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts both the user ID from context and a UUID
// from the path. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// requireSelf is handleUserIDAndPathUUID for routes where the path names a
// user: it also rejects requests about anyone but the caller with 403.
func requireSelf(w http.ResponseWriter, r *http.Request, paramName string, log *slog.Logger) (uuid.UUID, bool) {
	userID, pathID, ok := handleUserIDAndPathUUID(w, r, paramName, log)
	if !ok {
		return uuid.Nil, false
	}
	if userID != pathID {
		log.Debug("request for another user's resource",
			slog.String("user_id", userID.String()),
			slog.String("target_id", pathID.String()))
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return uuid.Nil, false
	}
	return userID, true
}

// pageFromQuery reads page and per_page. Missing or malformed values fall back
// to page 1 and defaultPerPage.
func pageFromQuery(r *http.Request, defaultPerPage int) store.Page {
	q := r.URL.Query()
	number, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		number = 1
	}
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil {
		perPage = defaultPerPage
	}
	return store.NewPage(number, perPage, defaultPerPage)
}

// decodeBody decodes the JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidJSON, err)
		return false
	}
	return true
}

// decodeAndValidate decodes the JSON body into v and runs its validation
// tags. On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !decodeBody(w, r, v) {
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, validationMessage(err), err)
		return false
	}
	return true
}

// validationMessage lists every missing required field, or describes the
// first invalid one.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Validation error"
	}

	var missing []string
	for _, fe := range errs {
		if fe.Tag() == "required" {
			missing = append(missing, jsonFieldName(fe.Field()))
		}
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	if errs[0].Tag() == "email" {
		return "Invalid email address."
	}
	return SanitizeValidationError(err)
}
