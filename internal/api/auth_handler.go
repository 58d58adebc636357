package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/store"
)

// AuthHandler handles the account flows mounted under /auth.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authService service.AuthService,
	userService service.UserService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeNewUser(w, r)
	if !ok {
		return
	}

	user, confirmToken, err := h.authService.Register(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Success:      true,
		Message:      "User registered successfully. An email has been sent to confirm your account.",
		User:         user,
		ConfirmToken: confirmToken,
	})
}

// CreateUser handles POST /auth/create-user. Unlike Register it sends no
// verification email.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeNewUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) decodeNewUser(w http.ResponseWriter, r *http.Request) (service.NewUserInput, bool) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return service.NewUserInput{}, false
	}

	dob, err := domain.ParseDate(req.DOB)
	if err != nil {
		HandleAPIError(w, r,
			domain.NewValidationError("dob", "must be a date in YYYY-MM-DD format", domain.ErrInvalidFormat), "")
		return service.NewUserInput{}, false
	}

	return service.NewUserInput{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		Name:        req.Name,
		DOB:         dob,
		Gender:      req.Gender,
		PhoneNumber: req.PhoneNumber,
	}, true
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Email and password are required.")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid email address.")
		return
	}

	user, pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:      true,
		Message:      "Login successful.",
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	})
}

// RefreshToken handles POST /auth/refresh-token. The presented refresh token
// is rotated: it stops working once the new pair is issued.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Refresh token is required.")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:      true,
		Message:      "Token refreshed.",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	cleared, err := h.authService.Logout(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !cleared {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Failed to log out. Invalid token.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SendVerificationCode handles POST /auth/send-verification-code.
func (h *AuthHandler) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	email, ok := h.decodeEmail(w, r)
	if !ok {
		return
	}

	token, err := h.authService.SendVerificationCode(r.Context(), email)
	if err != nil {
		handleEmailLookupError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConfirmTokenResponse{
		Success:      true,
		Message:      "Verification code sent to email successfully.",
		ConfirmToken: token,
	})
}

// VerifyEmail handles POST /auth/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ConfirmToken == "" || req.VerificationCode == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Confirm token and verification code are required.")
		return
	}

	user, pair, err := h.authService.VerifyEmail(r.Context(), req.ConfirmToken, req.VerificationCode)
	if err != nil {
		msg := ""
		if errors.Is(err, service.ErrInvalidCode) {
			msg = msgBadVerifyCode
		}
		HandleAPIError(w, r, err, msg)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:      true,
		Message:      "Your email address was verified successfully.",
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := h.decodeEmail(w, r)
	if !ok {
		return
	}

	token, err := h.authService.RequestPasswordReset(r.Context(), email)
	if err != nil {
		handleEmailLookupError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConfirmTokenResponse{
		Success:      true,
		Message:      "Verification code sent successfully to your email.",
		ConfirmToken: token,
	})
}

// VerifyResetCode handles POST /auth/verify-reset-code. The returned
// temporary token is a password reset token: it authorizes
// POST /user/update-new-password and nothing else.
func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ConfirmToken == "" || req.VerificationCode == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Reset token and reset code are required.")
		return
	}

	token, expiresAt, err := h.authService.VerifyResetCode(r.Context(), req.ConfirmToken, req.VerificationCode)
	if err != nil {
		msg := ""
		if errors.Is(err, service.ErrInvalidCode) {
			msg = msgBadResetCode
		}
		HandleAPIError(w, r, err, msg)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TempAccessTokenResponse{
		Success:         true,
		Message:         "Reset code verified successfully.",
		TempAccessToken: token,
		ExpiresAt:       expiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req EmailRequest
	if !decodeBody(w, r, &req) {
		return "", false
	}
	if req.Email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Email is required.")
		return "", false
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid email address.")
		return "", false
	}
	return req.Email, true
}

// handleEmailLookupError reports unknown addresses as a client error rather
// than a missing resource.
func handleEmailLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrUserNotFound) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgEmailUnknown, err)
		return
	}
	HandleAPIError(w, r, err, "")
}
