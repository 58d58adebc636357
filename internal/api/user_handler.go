package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/service"
)

const (
	// DefaultUserPerPage is the page size of GET /user when per_page is absent.
	DefaultUserPerPage = 1000

	// MaxAvatarBytes caps the size of an uploaded avatar image.
	MaxAvatarBytes = 5 << 20

	avatarFormField = "avatar"
)

// UserHandler handles the /user routes.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /user.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), pageFromQuery(r, DefaultUserPerPage))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, users)
}

// Me handles GET /user/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		Success: true,
		Message: "User retrieved successfully.",
		User:    user,
	})
}

// GetUser handles GET /user/{id}. Any authenticated user may look up a profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, userID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, user)
}

// UpdateUser handles PUT /user/{id}.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireSelf(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.DataResponse{
		Success: true,
		Message: "User updated",
		Data:    user,
	})
}

// DeleteUser handles DELETE /user/{id}. The user's tasks and tokens go with it.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireSelf(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("user deleted", slog.String("user_id", userID.String()))
	shared.RespondWithMessage(w, r, http.StatusOK, "User deleted")
}

// ChangePassword handles PUT /user/{id}/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireSelf(w, r, "id", log)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.NewPassword == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing 'new_password'")
		return
	}
	if req.OldPassword == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing 'old_password'")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, *req.OldPassword, *req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Password updated successfully")
}

// UpdateNewPassword handles POST /user/update-new-password. It is called with
// the temporary access token issued by /auth/verify-reset-code, and the email
// must belong to that token's user.
func (h *UserHandler) UpdateNewPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req NewPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.NewPassword == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "New password and email are required.")
		return
	}

	if err := h.userService.SetNewPassword(r.Context(), userID, req.Email, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Password updated successfully.")
}

// UploadAvatar handles POST /user/{id}/avatar, a multipart form with the
// image in the "avatar" field.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireSelf(w, r, "id", log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes+(64<<10))
	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Avatar must be at most 5 MB.", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Missing 'avatar' file.", err)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > MaxAvatarBytes {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Avatar must be at most 5 MB.")
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		HandleAPIError(w, r, err, "")
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar must be an image.")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.UploadAvatar(r.Context(), userID, service.AvatarUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.DataResponse{
		Success: true,
		Message: "Avatar updated",
		Data:    user,
	})
}
