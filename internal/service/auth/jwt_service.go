package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenType tags a JWT with the purpose it was issued for. A token is only
// accepted where its type is expected.
type TokenType string

const (
	// TokenTypeAccess authenticates API requests.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is exchanged for a new token pair.
	TokenTypeRefresh TokenType = "refresh"
	// TokenTypeConfirm wraps an email verification code.
	TokenTypeConfirm TokenType = "confirm"
	// TokenTypeReset wraps a password reset code.
	TokenTypeReset TokenType = "reset"
	// TokenTypePasswordReset is issued once a reset code is verified and
	// only authorizes setting a new password.
	TokenTypePasswordReset TokenType = "password_reset"
)

// JWTService signs and validates the application's JWTs.
type JWTService interface {
	// GenerateToken creates a signed token of the given type for userID.
	// The lifetime depends on the type. Returns the token and its expiry.
	GenerateToken(ctx context.Context, userID uuid.UUID, tokenType TokenType) (string, time.Time, error)

	// ValidateToken checks signature, time claims and type. It returns
	// ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType TokenType
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
