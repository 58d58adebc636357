package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/platform/objectstore"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
)

// NewUserInput carries the fields accepted when an account is created.
type NewUserInput struct {
	Email       string
	Password    string
	Name        string
	DOB         domain.Date
	Gender      string
	PhoneNumber string
}

// AvatarUpload is an image file received for a user's avatar.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Body        io.ReadSeeker
	// Size is the exact length of Body in bytes.
	Size int64
}

// UserService provides user account operations.
type UserService interface {
	// CreateUser hashes the password and stores a new unverified user.
	CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers returns one page of users
	ListUsers(ctx context.Context, page store.Page) ([]domain.User, error)

	// UpdateUser applies a partial update and returns the stored result
	UpdateUser(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)

	// DeleteUser deletes a user together with their tasks and tokens
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// ChangePassword replaces the password after checking the old one
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// SetNewPassword replaces the password of the authenticated user without
	// the old one, after a verified reset. email must name the same user.
	SetNewPassword(ctx context.Context, userID uuid.UUID, email, newPassword string) error

	// MarkVerified flags the user's email as confirmed
	MarkVerified(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UploadAvatar stores the image and records its public URL on the user
	UploadAvatar(ctx context.Context, userID uuid.UUID, upload AvatarUpload) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	uploader  objectstore.Uploader
	logger    *slog.Logger
	db        *sql.DB
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService. uploader may be nil when object
// storage is disabled; avatar uploads then fail with ErrStorageDisabled.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	uploader objectstore.Uploader,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		uploader:  uploader,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// CreateUser creates a new user. Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Email, input.Password, domain.Profile{
		Name:        input.Name,
		DOB:         input.DOB,
		Gender:      input.Gender,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		log.Debug("rejected new user", "error", err)
		return nil, err
	}

	user.HashedPassword, err = s.hasher.Hash(user.Password)
	if err != nil {
		return nil, NewServiceError("user", "create", err)
	}
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		} else {
			log.Error("failed to save user to database", "error", err)
		}
		return nil, NewServiceError("user", "create", err)
	}

	log.Info("user created", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logLookupError(ctx, err, "user_id", userID)
		return nil, NewServiceError("user", "get", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		s.logLookupError(ctx, err)
		return nil, NewServiceError("user", "get_by_email", err)
	}
	return user, nil
}

func (s *UserServiceImpl) logLookupError(ctx context.Context, err error, attrs ...any) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("user not found", attrs...)
		return
	}
	log.Error("failed to retrieve user", append([]any{"error", err}, attrs...)...)
}

// ListUsers returns one page of users
func (s *UserServiceImpl) ListUsers(ctx context.Context, page store.Page) ([]domain.User, error) {
	users, err := s.userStore.List(ctx, page)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", err)
		return nil, NewServiceError("user", "list", err)
	}
	return users, nil
}

// UpdateUser applies patch inside a transaction
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	return s.modify(ctx, "update", userID, patch.Apply)
}

// MarkVerified flags the user as verified
func (s *UserServiceImpl) MarkVerified(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	verified := true
	return s.modify(ctx, "mark_verified", userID, domain.UserPatch{IsVerified: &verified}.Apply)
}

// ChangePassword checks oldPassword before storing newPassword
func (s *UserServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	oldPassword, newPassword string,
) error {
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	_, err := s.modify(ctx, "change_password", userID, func(user *domain.User) error {
		if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
			return ErrIncorrectPassword
		}
		return s.setPassword(user, newPassword)
	})
	return err
}

// SetNewPassword stores newPassword for the authenticated user after a reset
func (s *UserServiceImpl) SetNewPassword(ctx context.Context, userID uuid.UUID, email, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	_, err := s.modify(ctx, "set_new_password", userID, func(user *domain.User) error {
		if user.Email != email {
			return ErrEmailMismatch
		}
		return s.setPassword(user, newPassword)
	})
	return err
}

func (s *UserServiceImpl) setPassword(user *domain.User, password string) error {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	return nil
}

// UploadAvatar uploads the image first, then records its URL
func (s *UserServiceImpl) UploadAvatar(
	ctx context.Context,
	userID uuid.UUID,
	upload AvatarUpload,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	// Fail fast on a missing user before spending an upload.
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	key, err := objectstore.AvatarKey(upload.Filename)
	if err != nil {
		return nil, domain.NewValidationError("avatar", "file name is required", err)
	}

	url, err := s.uploader.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		log.Error("failed to upload avatar", "error", err, "user_id", userID)
		return nil, NewServiceError("user", "upload_avatar", err)
	}

	return s.modify(ctx, "upload_avatar", userID, domain.UserPatch{AvatarURL: &url}.Apply)
}

// DeleteUser deletes a user by their ID. Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("attempted to delete missing user", "user_id", userID)
		} else {
			log.Error("failed to delete user", "error", err, "user_id", userID)
		}
		return NewServiceError("user", "delete", err)
	}

	log.Info("user deleted", "user_id", userID)
	return nil
}

// modify loads the user, applies change and writes the result back, all in
// one transaction. Errors from change are returned unwrapped.
func (s *UserServiceImpl) modify(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	change func(*domain.User) error,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		user      *domain.User
		changeErr error
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		var err error
		user, err = txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if changeErr = change(user); changeErr != nil {
			return changeErr
		}

		return txStore.Update(ctx, user)
	})
	if err != nil {
		if changeErr != nil {
			log.Debug("user change rejected", "op", op, "user_id", userID, "error", changeErr)
			return nil, changeErr
		}
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrEmailExists) {
			log.Debug("user update failed", "op", op, "user_id", userID, "error", err)
		} else {
			log.Error("user update failed", "op", op, "user_id", userID, "error", err)
		}
		return nil, NewServiceError("user", op, err)
	}

	log.Info("user updated", "op", op, "user_id", userID)
	return user, nil
}
