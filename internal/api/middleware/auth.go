package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/service/auth"
)

// AuthMiddleware guards routes with bearer JWT authentication.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer access token from the Authorization
// header and adds the user ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.RequireTokenType(auth.TokenTypeAccess)(next)
}

// RequireTokenType returns middleware that accepts only bearer tokens of
// tokenType. Tokens of any other type are rejected with 401.
func (m *AuthMiddleware) RequireTokenType(tokenType auth.TokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				msg := "Invalid authorization format"
				if r.Header.Get("Authorization") == "" {
					msg = "Authorization header required"
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msg, auth.ErrMissingToken)
				return
			}

			claims, err := m.jwtService.ValidateToken(r.Context(), token, tokenType)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
				case errors.Is(err, auth.ErrInvalidToken),
					errors.Is(err, auth.ErrWrongTokenType),
					errors.Is(err, auth.ErrTokenNotYetValid):
					shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err)
				default:
					shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserID(r.Context())
}
