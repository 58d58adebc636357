package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
)

// TokenService manages the lifecycle of every credential a user holds:
// stateless access tokens, the single stored refresh token, and the
// one-time verification and reset codes with their wrapper tokens.
type TokenService interface {
	// GenerateAccessToken signs an access token. Nothing is persisted.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// GeneratePasswordResetToken signs a short-lived token that only
	// authorizes setting a new password. Nothing is persisted.
	GeneratePasswordResetToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// GenerateRefreshToken signs a refresh token and stores it, replacing any previous one.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// VerifyRefreshToken returns the owner of a valid, current refresh token.
	// Every rejection is ErrInvalidRefreshToken.
	VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error)

	// InvalidateRefreshToken clears the stored refresh token and reports whether one existed.
	InvalidateRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error)

	// GenerateVerificationCode issues a fresh email confirmation code and its wrapper token.
	GenerateVerificationCode(ctx context.Context, userID uuid.UUID) (code, token string, err error)

	// GenerateResetCode issues a fresh password reset code and its wrapper token.
	GenerateResetCode(ctx context.Context, userID uuid.UUID) (code, token string, err error)

	// VerifyVerificationCode consumes a confirmation code. Every rejection is ErrInvalidCode.
	VerifyVerificationCode(ctx context.Context, token, code string) (*domain.User, error)

	// VerifyResetCode consumes a reset code. Every rejection is ErrInvalidCode.
	VerifyResetCode(ctx context.Context, token, code string) (*domain.User, error)
}

// TokenServiceImpl implements TokenService.
type TokenServiceImpl struct {
	db                   *sql.DB
	tokenStore           store.TokenStore
	userStore            store.UserStore
	jwtService           auth.JWTService
	codes                auth.CodeGenerator
	verificationLifetime time.Duration
	resetLifetime        time.Duration
	now                  func() time.Time
	logger               *slog.Logger
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a TokenService. Code lifetimes come from cfg.
func NewTokenService(
	db *sql.DB,
	tokenStore store.TokenStore,
	userStore store.UserStore,
	jwtService auth.JWTService,
	codes auth.CodeGenerator,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *TokenServiceImpl {
	return &TokenServiceImpl{
		db:                   db,
		tokenStore:           tokenStore,
		userStore:            userStore,
		jwtService:           jwtService,
		codes:                codes,
		verificationLifetime: time.Duration(cfg.VerificationCodeLifetimeMinutes) * time.Minute,
		resetLifetime:        time.Duration(cfg.ResetCodeLifetimeMinutes) * time.Minute,
		now:                  time.Now,
		logger:               logger.With(slog.String("component", "token_service")),
	}
}

// GenerateAccessToken implements TokenService.
func (s *TokenServiceImpl) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(ctx, userID, auth.TokenTypeAccess)
	if err != nil {
		return "", time.Time{}, NewServiceError("token", "generate_access_token", err)
	}
	return token, expiresAt, nil
}

// GeneratePasswordResetToken implements TokenService.
func (s *TokenServiceImpl) GeneratePasswordResetToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(ctx, userID, auth.TokenTypePasswordReset)
	if err != nil {
		return "", time.Time{}, NewServiceError("token", "generate_password_reset_token", err)
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken implements TokenService.
func (s *TokenServiceImpl) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	token, _, err := s.jwtService.GenerateToken(ctx, userID, auth.TokenTypeRefresh)
	if err != nil {
		return "", NewServiceError("token", "generate_refresh_token", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tokenStore.WithTx(tx).SetRefreshToken(ctx, userID, token)
	})
	if err != nil {
		log.Error("failed to store refresh token",
			"error", err,
			"user_id", userID)
		return "", NewServiceError("token", "generate_refresh_token", err)
	}

	return token, nil
}

// VerifyRefreshToken implements TokenService.
func (s *TokenServiceImpl) VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwtService.ValidateToken(ctx, token, auth.TokenTypeRefresh)
	if err != nil {
		log.Debug("refresh token rejected", "reason", err.Error())
		return uuid.Nil, ErrInvalidRefreshToken
	}

	row, err := s.tokenStore.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			log.Debug("refresh token rejected", "reason", "no token row", "user_id", claims.UserID)
			return uuid.Nil, ErrInvalidRefreshToken
		}
		log.Error("failed to load token row",
			"error", err,
			"user_id", claims.UserID)
		return uuid.Nil, NewServiceError("token", "verify_refresh_token", err)
	}

	if !equalSecret(row.RefreshToken, token) {
		log.Debug("refresh token rejected", "reason", "superseded or revoked", "user_id", claims.UserID)
		return uuid.Nil, ErrInvalidRefreshToken
	}

	return claims.UserID, nil
}

// InvalidateRefreshToken implements TokenService.
func (s *TokenServiceImpl) InvalidateRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var cleared bool
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		cleared, err = s.tokenStore.WithTx(tx).ClearRefreshToken(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("failed to clear refresh token",
			"error", err,
			"user_id", userID)
		return false, NewServiceError("token", "invalidate_refresh_token", err)
	}

	log.Debug("refresh token invalidated", "user_id", userID, "was_present", cleared)
	return cleared, nil
}

// GenerateVerificationCode implements TokenService.
func (s *TokenServiceImpl) GenerateVerificationCode(ctx context.Context, userID uuid.UUID) (string, string, error) {
	return s.generateCode(ctx, userID, domain.PurposeVerification, auth.TokenTypeConfirm, s.verificationLifetime)
}

// GenerateResetCode implements TokenService.
func (s *TokenServiceImpl) GenerateResetCode(ctx context.Context, userID uuid.UUID) (string, string, error) {
	return s.generateCode(ctx, userID, domain.PurposeReset, auth.TokenTypeReset, s.resetLifetime)
}

// VerifyVerificationCode implements TokenService.
func (s *TokenServiceImpl) VerifyVerificationCode(ctx context.Context, token, code string) (*domain.User, error) {
	return s.verifyCode(ctx, domain.PurposeVerification, auth.TokenTypeConfirm, token, code)
}

// VerifyResetCode implements TokenService.
func (s *TokenServiceImpl) VerifyResetCode(ctx context.Context, token, code string) (*domain.User, error) {
	return s.verifyCode(ctx, domain.PurposeReset, auth.TokenTypeReset, token, code)
}

func (s *TokenServiceImpl) generateCode(
	ctx context.Context,
	userID uuid.UUID,
	purpose domain.CodePurpose,
	tokenType auth.TokenType,
	lifetime time.Duration,
) (string, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	op := "generate_" + purpose.String() + "_code"

	code, err := s.codes.Generate()
	if err != nil {
		return "", "", NewServiceError("token", op, err)
	}

	token, _, err := s.jwtService.GenerateToken(ctx, userID, tokenType)
	if err != nil {
		return "", "", NewServiceError("token", op, err)
	}

	expiresAt := s.now().UTC().Add(lifetime)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tokenStore.WithTx(tx).SetCode(ctx, userID, purpose, token, code, expiresAt)
	})
	if err != nil {
		log.Error("failed to store code",
			"error", err,
			"user_id", userID,
			"purpose", purpose.String())
		return "", "", NewServiceError("token", op, err)
	}

	log.Info("code issued",
		"user_id", userID,
		"purpose", purpose.String(),
		"expires_at", expiresAt)
	return code, token, nil
}

func (s *TokenServiceImpl) verifyCode(
	ctx context.Context,
	purpose domain.CodePurpose,
	tokenType auth.TokenType,
	token, code string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	op := "verify_" + purpose.String() + "_code"

	reject := func(reason string, userID uuid.UUID) error {
		log.Debug("code rejected",
			"purpose", purpose.String(),
			"reason", reason,
			"user_id", userID)
		return ErrInvalidCode
	}

	claims, err := s.jwtService.ValidateToken(ctx, token, tokenType)
	if err != nil {
		return nil, reject(err.Error(), uuid.Nil)
	}
	userID := claims.UserID

	var user *domain.User
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tokens := s.tokenStore.WithTx(tx)

		row, err := tokens.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrTokenNotFound) {
				return reject("no token row", userID)
			}
			return err
		}

		storedToken, storedCode, expiresAt := row.Code(purpose)
		if !equalSecret(storedToken, token) {
			return reject("token superseded", userID)
		}
		if !equalSecret(storedCode, code) {
			return reject("code mismatch", userID)
		}
		if expiresAt == nil || !s.now().Before(*expiresAt) {
			return reject("code expired", userID)
		}

		user, err = s.userStore.WithTx(tx).GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return reject("user deleted", userID)
			}
			return err
		}

		return tokens.ClearCode(ctx, userID, purpose)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		log.Error("failed to verify code",
			"error", err,
			"user_id", userID,
			"purpose", purpose.String())
		return nil, NewServiceError("token", op, err)
	}

	log.Info("code verified", "user_id", userID, "purpose", purpose.String())
	return user, nil
}

// equalSecret compares a stored secret with a presented one in constant time.
// A missing stored value never matches.
func equalSecret(stored *string, presented string) bool {
	if stored == nil || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) == 1
}
