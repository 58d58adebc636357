package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	dob, _ := ParseDate("2000-01-31")
	return Profile{Name: "Alice", DOB: dob, Gender: "female", PhoneNumber: "0912345678"}
}

func TestNewUser(t *testing.T) {
	user, err := NewUser(" alice@example.com ", "password123", testProfile())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "password123", user.Password)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "2000-01-31", user.DOB.String())
	assert.False(t, user.IsVerified)
	assert.Empty(t, user.AvatarURL)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		profile  Profile
		wantErr  error
	}{
		{"empty email", "", "password123", testProfile(), ErrEmptyEmail},
		{"invalid email", "invalidemail", "password123", testProfile(), ErrInvalidEmail},
		{"display name form", "Alice <alice@example.com>", "password123", testProfile(), ErrInvalidEmail},
		{"no domain dot", "alice@localhost", "password123", testProfile(), ErrInvalidEmail},
		{"empty name", "alice@example.com", "password123", Profile{}, ErrEmptyName},
		{"empty password", "alice@example.com", "", testProfile(), ErrEmptyPassword},
		{"short password", "alice@example.com", "short", testProfile(), ErrPasswordTooShort},
		{"long password", "alice@example.com", strings.Repeat("a", 73), testProfile(), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := NewUser(tc.email, tc.password, tc.profile)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	user := User{ID: uuid.New(), Email: "bob@example.com", Name: "Bob", HashedPassword: "$2a$10$hash"}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)

	user.ID = uuid.Nil
	assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
}

func TestUserPatchApply(t *testing.T) {
	base := func() *User {
		return &User{ID: uuid.New(), Email: "bob@example.com", Name: "Bob", HashedPassword: "hash", Gender: "male"}
	}
	str := func(s string) *string { return &s }
	yes := true

	t.Run("only present fields change", func(t *testing.T) {
		u := base()
		before := u.UpdatedAt
		err := UserPatch{Name: str("Robert"), IsVerified: &yes}.Apply(u)
		require.NoError(t, err)
		assert.Equal(t, "Robert", u.Name)
		assert.True(t, u.IsVerified)
		assert.Equal(t, "bob@example.com", u.Email)
		assert.Equal(t, "male", u.Gender)
		assert.True(t, u.UpdatedAt.After(before))
	})

	t.Run("invalid patch leaves user untouched", func(t *testing.T) {
		u := base()
		err := UserPatch{Email: str("nope"), Name: str("Robert")}.Apply(u)
		assert.ErrorIs(t, err, ErrInvalidEmail)
		assert.Equal(t, "Bob", u.Name)
		assert.Equal(t, "bob@example.com", u.Email)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, UserPatch{}.IsEmpty())
		assert.False(t, UserPatch{AvatarURL: str("")}.IsEmpty())
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("id", "has invalid format", ErrInvalidID)
	assert.Equal(t, "id has invalid format", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidID))

	bare := NewValidationError("", "bad input", nil)
	assert.Equal(t, "bad input", bare.Error())
	assert.True(t, errors.Is(bare, ErrValidation))
}
