package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose selects which one-time code slot of a Token is addressed.
type CodePurpose int

const (
	// PurposeVerification is the email confirmation slot.
	PurposeVerification CodePurpose = iota
	// PurposeReset is the password reset slot.
	PurposeReset
)

func (p CodePurpose) String() string {
	switch p {
	case PurposeVerification:
		return "verification"
	case PurposeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Token is the per-user singleton holding transient credentials. Each
// purpose has at most one live value; issuing a new one overwrites it.
type Token struct {
	UserID                    uuid.UUID
	RefreshToken              *string
	ConfirmToken              *string
	VerificationCode          *string
	VerificationCodeExpiresAt *time.Time
	ResetToken                *string
	ResetCode                 *string
	ResetCodeExpiresAt        *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Code returns the stored wrapper token, code and expiry for purpose.
func (t *Token) Code(purpose CodePurpose) (token, code *string, expiresAt *time.Time) {
	if purpose == PurposeReset {
		return t.ResetToken, t.ResetCode, t.ResetCodeExpiresAt
	}
	return t.ConfirmToken, t.VerificationCode, t.VerificationCodeExpiresAt
}
