package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
)

// TokenStore persists the per-user token row. Every Set method upserts on
// user_id and only touches the columns of its own purpose.
type TokenStore interface {
	// Get returns ErrTokenNotFound if the user has no token row.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Token, error)

	// SetRefreshToken stores token as the user's only refresh token.
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error

	// ClearRefreshToken removes the stored refresh token and reports
	// whether one was present.
	ClearRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error)

	// SetCode stores the wrapper token, code and expiry for purpose.
	SetCode(
		ctx context.Context,
		userID uuid.UUID,
		purpose domain.CodePurpose,
		token, code string,
		expiresAt time.Time,
	) error

	// ClearCode removes the wrapper token, code and expiry for purpose.
	ClearCode(ctx context.Context, userID uuid.UUID, purpose domain.CodePurpose) error

	// WithTx returns a TokenStore bound to tx.
	WithTx(tx *sql.Tx) TokenStore
}
