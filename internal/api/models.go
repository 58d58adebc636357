package api

import (
	"time"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/domain/dashboard"
)

// OverviewDateLayout is the day-month-year format used by the overview endpoint.
const OverviewDateLayout = "02-01-2006"

// LoginRequest defines the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest defines the payload for POST /auth/register and /auth/create-user.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required"`
	Name        string `json:"name"         validate:"required"`
	DOB         string `json:"dob"          validate:"required"`
	Gender      string `json:"gender"       validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// EmailRequest defines the payload for endpoints keyed by an email address.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RefreshTokenRequest defines the payload for POST /auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CodeRequest defines the payload for POST /auth/verify-email and /auth/verify-reset-code.
type CodeRequest struct {
	ConfirmToken     string `json:"confirm_token"     validate:"required"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

// AuthResponse is returned by login and email verification.
type AuthResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	User         *domain.User `json:"user"`
	ConfirmToken string       `json:"confirm_token"`
}

// ConfirmTokenResponse carries the wrapper token for a code sent by email.
type ConfirmTokenResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ConfirmToken string `json:"confirm_token"`
}

// TempAccessTokenResponse is returned by POST /auth/verify-reset-code.
type TempAccessTokenResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	TempAccessToken string `json:"temp_access_token"`
	ExpiresAt       string `json:"expires_at"`
}

// UserResponse is returned by GET /user/me.
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// UpdateUserRequest carries the fields of PUT /user/{id}. Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email"`
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phone_number"`
}

func (r UpdateUserRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Email:       r.Email,
		Name:        r.Name,
		Gender:      r.Gender,
		PhoneNumber: r.PhoneNumber,
	}
}

// ChangePasswordRequest defines the payload for PUT /user/{id}/password.
type ChangePasswordRequest struct {
	OldPassword *string `json:"old_password"`
	NewPassword *string `json:"new_password"`
}

// NewPasswordRequest defines the payload for POST /user/update-new-password.
type NewPasswordRequest struct {
	Email       string `json:"email"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// TaskRequest carries the fields of a task create or update. Dates accept
// YYYY-MM-DD or RFC 3339; null or "" clears a nullable field.
type TaskRequest struct {
	Name        *string                 `json:"name"`
	Description domain.Optional[string] `json:"description"`
	Status      *bool                   `json:"status"`
	StartDate   domain.Optional[string] `json:"start_date"`
	DueDate     domain.Optional[string] `json:"due_date"`
	Priority    domain.Optional[string] `json:"priority"`
}

var taskTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	domain.DateLayout,
}

func parseTaskTime(field string, in domain.Optional[string]) (domain.Optional[time.Time], error) {
	if !in.Set {
		return domain.Optional[time.Time]{}, nil
	}
	if in.Value == nil || *in.Value == "" {
		return domain.Null[time.Time](), nil
	}
	for _, layout := range taskTimeLayouts {
		if t, err := time.Parse(layout, *in.Value); err == nil {
			return domain.Some(t.UTC()), nil
		}
	}
	return domain.Optional[time.Time]{}, domain.NewValidationError(field, "must be YYYY-MM-DD or an RFC 3339 timestamp", domain.ErrInvalidFormat)
}

// patch converts the request into a domain.TaskPatch.
func (r TaskRequest) patch() (domain.TaskPatch, error) {
	start, err := parseTaskTime("start_date", r.StartDate)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	due, err := parseTaskTime("due_date", r.DueDate)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	return domain.TaskPatch{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   start,
		DueDate:     due,
		Priority:    r.Priority,
	}, nil
}

// OverviewCompleted is one finished task in the overview response.
type OverviewCompleted struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Priority      *string `json:"priority"`
	StartDate     *string `json:"start_date"`
	CompletedDate string  `json:"completed_date"`
}

// OverviewUpcoming is one open task in the overview response.
type OverviewUpcoming struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	StartDate   *string `json:"start_date"`
	DueDate     string  `json:"due_date"`
}

// OverviewResponse is the data member of GET /task/dashboard/overview/{id}.
type OverviewResponse struct {
	Completed []OverviewCompleted `json:"completed"`
	Upcoming  []OverviewUpcoming  `json:"upcoming"`
}

// formatDay renders the calendar date of t in loc.
func formatDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(OverviewDateLayout)
}

func formatOptionalDay(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := formatDay(*t, loc)
	return &s
}

func overviewToResponse(o dashboard.Overview) OverviewResponse {
	loc := o.Location
	resp := OverviewResponse{
		Completed: make([]OverviewCompleted, 0, len(o.Completed)),
		Upcoming:  make([]OverviewUpcoming, 0, len(o.Upcoming)),
	}
	for _, c := range o.Completed {
		resp.Completed = append(resp.Completed, OverviewCompleted{
			Name:          c.Name,
			Description:   c.Description,
			Priority:      c.Priority,
			StartDate:     formatOptionalDay(c.StartDate, loc),
			CompletedDate: formatDay(c.CompletedAt, loc),
		})
	}
	for _, u := range o.Upcoming {
		resp.Upcoming = append(resp.Upcoming, OverviewUpcoming{
			Name:        u.Name,
			Description: u.Description,
			Priority:    u.Priority,
			StartDate:   formatOptionalDay(u.StartDate, loc),
			DueDate:     formatDay(u.DueDate, loc),
		})
	}
	return resp
}
