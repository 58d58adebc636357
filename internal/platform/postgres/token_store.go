package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/store"
)

// PostgresTokenStore implements store.TokenStore on PostgreSQL.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTokenStore creates a token store. A nil logger falls back to slog.Default.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx.
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{db: tx, logger: s.logger, now: s.now}
}

// codeColumns names the token, code and expiry columns of a purpose.
type codeColumns struct {
	token, code, expiresAt string
}

func columnsFor(purpose domain.CodePurpose) (codeColumns, error) {
	switch purpose {
	case domain.PurposeVerification:
		return codeColumns{"confirm_token", "verification_code", "verification_code_expires_at"}, nil
	case domain.PurposeReset:
		return codeColumns{"reset_token", "reset_code", "reset_code_expires_at"}, nil
	default:
		return codeColumns{}, fmt.Errorf("%w: unknown code purpose %d", store.ErrInvalidEntity, purpose)
	}
}

// Get implements store.TokenStore.Get.
func (s *PostgresTokenStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Token, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, refresh_token, confirm_token, verification_code,
			verification_code_expires_at, reset_token, reset_code,
			reset_code_expires_at, created_at, updated_at
		FROM tokens
		WHERE user_id = $1
	`
	var token domain.Token
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&token.UserID,
		&token.RefreshToken,
		&token.ConfirmToken,
		&token.VerificationCode,
		&token.VerificationCodeExpiresAt,
		&token.ResetToken,
		&token.ResetCode,
		&token.ResetCodeExpiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("token row not found", slog.String("user_id", userID.String()))
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get token row",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return &token, nil
}

// SetRefreshToken implements store.TokenStore.SetRefreshToken.
func (s *PostgresTokenStore) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tokens (user_id, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET refresh_token = EXCLUDED.refresh_token, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, userID, token, s.now()); err != nil {
		log.Error("failed to store refresh token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Debug("refresh token stored", slog.String("user_id", userID.String()))
	return nil
}

// ClearRefreshToken implements store.TokenStore.ClearRefreshToken.
func (s *PostgresTokenStore) ClearRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tokens
		SET refresh_token = NULL, updated_at = $2
		WHERE user_id = $1 AND refresh_token IS NOT NULL
	`
	result, err := s.db.ExecContext(ctx, query, userID, s.now())
	if err != nil {
		log.Error("failed to clear refresh token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTokenNotFound); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}

	log.Debug("refresh token cleared", slog.String("user_id", userID.String()))
	return true, nil
}

// SetCode implements store.TokenStore.SetCode.
func (s *PostgresTokenStore) SetCode(
	ctx context.Context,
	userID uuid.UUID,
	purpose domain.CodePurpose,
	token, code string,
	expiresAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cols, err := columnsFor(purpose)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO tokens (user_id, %[1]s, %[2]s, %[3]s, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET %[1]s = EXCLUDED.%[1]s, %[2]s = EXCLUDED.%[2]s, %[3]s = EXCLUDED.%[3]s,
			updated_at = EXCLUDED.updated_at
	`, cols.token, cols.code, cols.expiresAt)

	if _, err := s.db.ExecContext(ctx, query, userID, token, code, expiresAt.UTC(), s.now()); err != nil {
		log.Error("failed to store code",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("purpose", purpose.String()))
		return MapError(err)
	}

	log.Debug("code stored",
		slog.String("user_id", userID.String()),
		slog.String("purpose", purpose.String()))
	return nil
}

// ClearCode implements store.TokenStore.ClearCode.
func (s *PostgresTokenStore) ClearCode(ctx context.Context, userID uuid.UUID, purpose domain.CodePurpose) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cols, err := columnsFor(purpose)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE tokens
		SET %s = NULL, %s = NULL, %s = NULL, updated_at = $2
		WHERE user_id = $1
	`, cols.token, cols.code, cols.expiresAt)

	if _, err := s.db.ExecContext(ctx, query, userID, s.now()); err != nil {
		log.Error("failed to clear code",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("purpose", purpose.String()))
		return MapError(err)
	}
	return nil
}
