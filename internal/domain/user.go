package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. 72 is the bcrypt input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// DateLayout is the wire format for a user's date of birth.
const DateLayout = "2006-01-02"

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User is a registered account. A user owns at most one Token row and any
// number of tasks; both are removed when the user is deleted.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set while registering or changing password
	HashedPassword string    `json:"-"`
	Name           string    `json:"name"`
	DOB            Date      `json:"dob"`
	Gender         string    `json:"gender"`
	PhoneNumber    string    `json:"phone_number"`
	AvatarURL      string    `json:"avatar_url"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Profile groups the descriptive fields supplied at registration.
type Profile struct {
	Name        string
	DOB         Date
	Gender      string
	PhoneNumber string
}

// NewUser creates an unverified user with a fresh ID. The caller must hash
// the password before the user is stored.
func NewUser(email, password string, profile Profile) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Email:       strings.TrimSpace(email),
		Password:    password,
		Name:        strings.TrimSpace(profile.Name),
		DOB:         profile.DOB,
		Gender:      profile.Gender,
		PhoneNumber: profile.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks identity, email, name and password state.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidateEmail reports whether email is a bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	switch n := len(password); {
	case n == 0:
		return ErrEmptyPassword
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// UserPatch carries the fields of a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Email       *string
	Name        *string
	Gender      *string
	PhoneNumber *string
	AvatarURL   *string
	IsVerified  *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.Gender == nil &&
		p.PhoneNumber == nil && p.AvatarURL == nil && p.IsVerified == nil
}

// Apply copies the present fields onto u and validates the result.
// u is left untouched when validation fails.
func (p UserPatch) Apply(u *User) error {
	next := *u
	if p.Email != nil {
		next.Email = strings.TrimSpace(*p.Email)
	}
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Gender != nil {
		next.Gender = *p.Gender
	}
	if p.PhoneNumber != nil {
		next.PhoneNumber = *p.PhoneNumber
	}
	if p.AvatarURL != nil {
		next.AvatarURL = *p.AvatarURL
	}
	if p.IsVerified != nil {
		next.IsVerified = *p.IsVerified
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}
