package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/platform/mail"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
)

// TokenPair is the credential set handed to a signed-in client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Mailer queues outgoing email. Delivery is best-effort.
type Mailer interface {
	Dispatch(ctx context.Context, msg mail.Message) error
}

// AuthService implements the account flows under /auth.
type AuthService interface {
	// Register creates an account and emails a verification code. It returns
	// the new user and the confirm token the code must be presented with.
	Register(ctx context.Context, input NewUserInput) (*domain.User, string, error)

	// Login checks credentials and issues a token pair. Unknown emails and
	// wrong passwords both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)

	// Refresh exchanges a current refresh token for a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the stored refresh token and reports whether one existed.
	Logout(ctx context.Context, userID uuid.UUID) (bool, error)

	// SendVerificationCode emails a new verification code to an unverified account.
	SendVerificationCode(ctx context.Context, email string) (string, error)

	// VerifyEmail consumes a verification code, marks the account verified and signs it in.
	VerifyEmail(ctx context.Context, confirmToken, code string) (*domain.User, *TokenPair, error)

	// RequestPasswordReset emails a reset code and returns its wrapper token.
	RequestPasswordReset(ctx context.Context, email string) (string, error)

	// VerifyResetCode consumes a reset code and returns a short-lived
	// password reset token. That token is accepted only by the route that
	// sets a new password.
	VerifyResetCode(ctx context.Context, resetToken, code string) (string, time.Time, error)
}

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	users                UserService
	tokens               TokenService
	verifier             auth.PasswordVerifier
	mailer               Mailer
	verificationLifetime time.Duration
	resetLifetime        time.Duration
	logger               *slog.Logger
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService creates an AuthService.
func NewAuthService(
	users UserService,
	tokens TokenService,
	verifier auth.PasswordVerifier,
	mailer Mailer,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:                users,
		tokens:               tokens,
		verifier:             verifier,
		mailer:               mailer,
		verificationLifetime: time.Duration(cfg.VerificationCodeLifetimeMinutes) * time.Minute,
		resetLifetime:        time.Duration(cfg.ResetCodeLifetimeMinutes) * time.Minute,
		logger:               logger.With("component", "auth_service"),
	}
}

// Register implements AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, input NewUserInput) (*domain.User, string, error) {
	user, err := s.users.CreateUser(ctx, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sendVerification(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login implements AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login failed: unknown email")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh implements AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, userID)
}

// Logout implements AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.tokens.InvalidateRefreshToken(ctx, userID)
}

// SendVerificationCode implements AuthService.
func (s *AuthServiceImpl) SendVerificationCode(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.IsVerified {
		return "", ErrAlreadyVerified
	}
	return s.sendVerification(ctx, user)
}

// VerifyEmail implements AuthService.
func (s *AuthServiceImpl) VerifyEmail(
	ctx context.Context,
	confirmToken, code string,
) (*domain.User, *TokenPair, error) {
	user, err := s.tokens.VerifyVerificationCode(ctx, confirmToken, code)
	if err != nil {
		return nil, nil, err
	}

	user, err = s.users.MarkVerified(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("email verified", "user_id", user.ID)
	return user, pair, nil
}

// RequestPasswordReset implements AuthService.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, token, err := s.tokens.GenerateResetCode(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.dispatch(ctx, mail.NewResetPasswordMessage(user.Email, user.Name, code, s.resetLifetime))
	return token, nil
}

// VerifyResetCode implements AuthService.
func (s *AuthServiceImpl) VerifyResetCode(ctx context.Context, resetToken, code string) (string, time.Time, error) {
	user, err := s.tokens.VerifyResetCode(ctx, resetToken, code)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.tokens.GeneratePasswordResetToken(ctx, user.ID)
}

func (s *AuthServiceImpl) sendVerification(ctx context.Context, user *domain.User) (string, error) {
	code, token, err := s.tokens.GenerateVerificationCode(ctx, user.ID)
	if err != nil {
		return "", err
	}
	s.dispatch(ctx, mail.NewConfirmMessage(user.Email, user.Name, code, s.verificationLifetime))
	return token, nil
}

// dispatch queues msg. A failure is logged and otherwise ignored.
func (s *AuthServiceImpl) dispatch(ctx context.Context, msg mail.Message) {
	if err := s.mailer.Dispatch(ctx, msg); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("email not queued",
			"template", msg.Template,
			"error", err)
	}
}

func (s *AuthServiceImpl) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, expiresAt, err := s.tokens.GenerateAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}
