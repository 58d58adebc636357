package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/domain/dashboard"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/store"
)

// MockAuthService implements service.AuthService with function fields.
// A nil field makes the call return zero values.
type MockAuthService struct {
	RegisterFn             func(ctx context.Context, input service.NewUserInput) (*domain.User, string, error)
	LoginFn                func(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error)
	RefreshFn              func(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	LogoutFn               func(ctx context.Context, userID uuid.UUID) (bool, error)
	SendVerificationCodeFn func(ctx context.Context, email string) (string, error)
	VerifyEmailFn          func(ctx context.Context, token, code string) (*domain.User, *service.TokenPair, error)
	RequestPasswordResetFn func(ctx context.Context, email string) (string, error)
	VerifyResetCodeFn      func(ctx context.Context, token, code string) (string, time.Time, error)
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, input service.NewUserInput) (*domain.User, string, error) {
	if m.RegisterFn == nil {
		return nil, "", nil
	}
	return m.RegisterFn(ctx, input)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error) {
	if m.LoginFn == nil {
		return nil, nil, nil
	}
	return m.LoginFn(ctx, email, password)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	if m.RefreshFn == nil {
		return nil, nil
	}
	return m.RefreshFn(ctx, refreshToken)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.LogoutFn == nil {
		return false, nil
	}
	return m.LogoutFn(ctx, userID)
}

func (m *MockAuthService) SendVerificationCode(ctx context.Context, email string) (string, error) {
	if m.SendVerificationCodeFn == nil {
		return "", nil
	}
	return m.SendVerificationCodeFn(ctx, email)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token, code string) (*domain.User, *service.TokenPair, error) {
	if m.VerifyEmailFn == nil {
		return nil, nil, nil
	}
	return m.VerifyEmailFn(ctx, token, code)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if m.RequestPasswordResetFn == nil {
		return "", nil
	}
	return m.RequestPasswordResetFn(ctx, email)
}

func (m *MockAuthService) VerifyResetCode(ctx context.Context, token, code string) (string, time.Time, error) {
	if m.VerifyResetCodeFn == nil {
		return "", time.Time{}, nil
	}
	return m.VerifyResetCodeFn(ctx, token, code)
}

// MockUserService implements service.UserService with function fields.
type MockUserService struct {
	CreateUserFn     func(ctx context.Context, input service.NewUserInput) (*domain.User, error)
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListUsersFn      func(ctx context.Context, page store.Page) ([]domain.User, error)
	UpdateUserFn     func(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)
	DeleteUserFn     func(ctx context.Context, userID uuid.UUID) error
	ChangePasswordFn func(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	SetNewPasswordFn func(ctx context.Context, userID uuid.UUID, email, newPassword string) error
	MarkVerifiedFn   func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UploadAvatarFn   func(ctx context.Context, userID uuid.UUID, upload service.AvatarUpload) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) CreateUser(ctx context.Context, input service.NewUserInput) (*domain.User, error) {
	if m.CreateUserFn == nil {
		return nil, nil
	}
	return m.CreateUserFn(ctx, input)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn == nil {
		return nil, nil
	}
	return m.GetUserFn(ctx, userID)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn == nil {
		return nil, nil
	}
	return m.GetUserByEmailFn(ctx, email)
}

func (m *MockUserService) ListUsers(ctx context.Context, page store.Page) ([]domain.User, error) {
	if m.ListUsersFn == nil {
		return nil, nil
	}
	return m.ListUsersFn(ctx, page)
}

func (m *MockUserService) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	if m.UpdateUserFn == nil {
		return nil, nil
	}
	return m.UpdateUserFn(ctx, userID, patch)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserFn == nil {
		return nil
	}
	return m.DeleteUserFn(ctx, userID)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if m.ChangePasswordFn == nil {
		return nil
	}
	return m.ChangePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (m *MockUserService) SetNewPassword(ctx context.Context, userID uuid.UUID, email, newPassword string) error {
	if m.SetNewPasswordFn == nil {
		return nil
	}
	return m.SetNewPasswordFn(ctx, userID, email, newPassword)
}

func (m *MockUserService) MarkVerified(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.MarkVerifiedFn == nil {
		return nil, nil
	}
	return m.MarkVerifiedFn(ctx, userID)
}

func (m *MockUserService) UploadAvatar(
	ctx context.Context,
	userID uuid.UUID,
	upload service.AvatarUpload,
) (*domain.User, error) {
	if m.UploadAvatarFn == nil {
		return nil, nil
	}
	return m.UploadAvatarFn(ctx, userID, upload)
}

// MockTaskService implements service.TaskService with function fields.
type MockTaskService struct {
	CreateTaskFn    func(ctx context.Context, userID uuid.UUID, input domain.TaskPatch) (*domain.Task, error)
	GetTaskFn       func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasksFn     func(ctx context.Context, page store.Page) ([]domain.Task, error)
	ListUserTasksFn func(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Task, error)
	UpdateTaskFn    func(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTaskFn    func(ctx context.Context, userID, taskID uuid.UUID) error
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(ctx context.Context, userID uuid.UUID, input domain.TaskPatch) (*domain.Task, error) {
	if m.CreateTaskFn == nil {
		return nil, nil
	}
	return m.CreateTaskFn(ctx, userID, input)
}

func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn == nil {
		return nil, nil
	}
	return m.GetTaskFn(ctx, userID, taskID)
}

func (m *MockTaskService) ListTasks(ctx context.Context, page store.Page) ([]domain.Task, error) {
	if m.ListTasksFn == nil {
		return nil, nil
	}
	return m.ListTasksFn(ctx, page)
}

func (m *MockTaskService) ListUserTasks(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Task, error) {
	if m.ListUserTasksFn == nil {
		return nil, nil
	}
	return m.ListUserTasksFn(ctx, userID, page)
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateTaskFn == nil {
		return nil, nil
	}
	return m.UpdateTaskFn(ctx, userID, taskID, patch)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn == nil {
		return nil
	}
	return m.DeleteTaskFn(ctx, userID, taskID)
}

// MockDashboardService implements service.DashboardService by serving a
// fixed task list through the real aggregation functions, or an error.
type MockDashboardService struct {
	Tasks []domain.Task
	Now   time.Time
	// Loc is the reference zone; nil means UTC.
	Loc *time.Location
	Err error
}

var _ service.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Summary(ctx context.Context, userID uuid.UUID) (dashboard.Summary, error) {
	if m.Err != nil {
		return dashboard.Summary{}, m.Err
	}
	return dashboard.Summarize(m.Tasks, m.Now, m.Loc), nil
}

func (m *MockDashboardService) Breakdown(ctx context.Context, userID uuid.UUID) (dashboard.PriorityBreakdown, error) {
	if m.Err != nil {
		return dashboard.PriorityBreakdown{}, m.Err
	}
	return dashboard.Breakdown(m.Tasks, m.Now, m.Loc), nil
}

func (m *MockDashboardService) WeeklyActivity(ctx context.Context, userID uuid.UUID) (dashboard.Activity, error) {
	if m.Err != nil {
		return dashboard.Activity{}, m.Err
	}
	return dashboard.WeeklyActivity(m.Tasks, m.Now, m.Loc), nil
}

func (m *MockDashboardService) Overview(ctx context.Context, userID uuid.UUID) (dashboard.Overview, error) {
	if m.Err != nil {
		return dashboard.Overview{}, m.Err
	}
	return dashboard.BuildOverview(m.Tasks, m.Now, m.Loc), nil
}

// MockTokenService implements service.TokenService with function fields.
type MockTokenService struct {
	GenerateAccessTokenFn      func(ctx context.Context, userID uuid.UUID) (string, time.Time, error)
	GeneratePasswordResetFn    func(ctx context.Context, userID uuid.UUID) (string, time.Time, error)
	GenerateRefreshTokenFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	VerifyRefreshTokenFn       func(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateRefreshTokenFn   func(ctx context.Context, userID uuid.UUID) (bool, error)
	GenerateVerificationCodeFn func(ctx context.Context, userID uuid.UUID) (string, string, error)
	GenerateResetCodeFn        func(ctx context.Context, userID uuid.UUID) (string, string, error)
	VerifyVerificationCodeFn   func(ctx context.Context, token, code string) (*domain.User, error)
	VerifyResetCodeFn          func(ctx context.Context, token, code string) (*domain.User, error)
}

var _ service.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	if m.GenerateAccessTokenFn == nil {
		return "", time.Time{}, nil
	}
	return m.GenerateAccessTokenFn(ctx, userID)
}

func (m *MockTokenService) GeneratePasswordResetToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, time.Time, error) {
	if m.GeneratePasswordResetFn == nil {
		return "", time.Time{}, nil
	}
	return m.GeneratePasswordResetFn(ctx, userID)
}

func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn == nil {
		return "", nil
	}
	return m.GenerateRefreshTokenFn(ctx, userID)
}

func (m *MockTokenService) VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if m.VerifyRefreshTokenFn == nil {
		return uuid.Nil, nil
	}
	return m.VerifyRefreshTokenFn(ctx, token)
}

func (m *MockTokenService) InvalidateRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.InvalidateRefreshTokenFn == nil {
		return false, nil
	}
	return m.InvalidateRefreshTokenFn(ctx, userID)
}

func (m *MockTokenService) GenerateVerificationCode(ctx context.Context, userID uuid.UUID) (string, string, error) {
	if m.GenerateVerificationCodeFn == nil {
		return "", "", nil
	}
	return m.GenerateVerificationCodeFn(ctx, userID)
}

func (m *MockTokenService) GenerateResetCode(ctx context.Context, userID uuid.UUID) (string, string, error) {
	if m.GenerateResetCodeFn == nil {
		return "", "", nil
	}
	return m.GenerateResetCodeFn(ctx, userID)
}

func (m *MockTokenService) VerifyVerificationCode(ctx context.Context, token, code string) (*domain.User, error) {
	if m.VerifyVerificationCodeFn == nil {
		return nil, nil
	}
	return m.VerifyVerificationCodeFn(ctx, token, code)
}

func (m *MockTokenService) VerifyResetCode(ctx context.Context, token, code string) (*domain.User, error) {
	if m.VerifyResetCodeFn == nil {
		return nil, nil
	}
	return m.VerifyResetCodeFn(ctx, token, code)
}
