package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/mocks"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/service/auth"
	"github.com/uetodo/uetodo-api/internal/store"
)

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

// jwtFor accepts exactly one token string per type and maps it to userID.
func jwtFor(userID uuid.UUID, valid map[auth.TokenType]string) *mocks.MockJWTService {
	return &mocks.MockJWTService{
		GenerateTokenFn: func(_ context.Context, _ uuid.UUID, typ auth.TokenType) (string, time.Time, error) {
			return valid[typ], fixedNow.Add(time.Hour), nil
		},
		ValidateTokenFn: func(_ context.Context, token string, typ auth.TokenType) (*auth.Claims, error) {
			if token == "" || valid[typ] != token {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: userID, TokenType: typ}, nil
		},
	}
}

func TestTokenService_GeneratePasswordResetToken(t *testing.T) {
	userID := uuid.New()
	var gotType auth.TokenType
	jwt := &mocks.MockJWTService{
		GenerateTokenFn: func(_ context.Context, id uuid.UUID, typ auth.TokenType) (string, time.Time, error) {
			gotType = typ
			return "pr-" + id.String(), fixedNow.Add(15 * time.Minute), nil
		},
	}
	svc := service.NewTokenService(nil, new(mocks.TokenStore), new(mocks.UserStore), jwt,
		&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

	token, expiresAt, err := svc.GeneratePasswordResetToken(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "pr-"+userID.String(), token)
	assert.Equal(t, fixedNow.Add(15*time.Minute), expiresAt)
	assert.Equal(t, auth.TokenTypePasswordReset, gotType)
}

func TestTokenService_GenerateRefreshToken(t *testing.T) {
	userID := uuid.New()
	db, sqlMock := newTxDB(t)
	tokens := new(mocks.TokenStore)
	jwtService := jwtFor(userID, map[auth.TokenType]string{auth.TokenTypeRefresh: "refresh-1"})
	svc := service.NewTokenService(db, tokens, new(mocks.UserStore), jwtService,
		&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

	sqlMock.ExpectBegin()
	tokens.On("SetRefreshToken", mock.Anything, userID, "refresh-1").Return(nil)
	sqlMock.ExpectCommit()

	token, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", token)
	tokens.AssertExpectations(t)
}

func TestTokenService_GenerateRefreshToken_StoreFailure(t *testing.T) {
	userID := uuid.New()
	db, sqlMock := newTxDB(t)
	tokens := new(mocks.TokenStore)
	jwtService := jwtFor(userID, map[auth.TokenType]string{auth.TokenTypeRefresh: "refresh-1"})
	svc := service.NewTokenService(db, tokens, new(mocks.UserStore), jwtService,
		&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

	sqlMock.ExpectBegin()
	tokens.On("SetRefreshToken", mock.Anything, userID, "refresh-1").Return(store.ErrInternal)
	sqlMock.ExpectRollback()

	_, err := svc.GenerateRefreshToken(context.Background(), userID)
	assert.ErrorIs(t, err, store.ErrInternal)
}

func TestTokenService_VerifyRefreshToken(t *testing.T) {
	userID := uuid.New()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name      string
		presented string
		stored    *domain.Token
		storeErr  error
		wantID    uuid.UUID
		wantErr   error
		getCalled bool
	}{
		{
			name:      "current token",
			presented: "refresh-current",
			stored:    &domain.Token{UserID: userID, RefreshToken: strPtr("refresh-current")},
			wantID:    userID,
			getCalled: true,
		},
		{
			name:      "malformed token",
			presented: "garbage",
			wantErr:   service.ErrInvalidRefreshToken,
		},
		{
			name:      "empty token",
			presented: "",
			wantErr:   service.ErrInvalidRefreshToken,
		},
		{
			name:      "superseded by a newer token",
			presented: "refresh-current",
			stored:    &domain.Token{UserID: userID, RefreshToken: strPtr("refresh-newer")},
			wantErr:   service.ErrInvalidRefreshToken,
			getCalled: true,
		},
		{
			name:      "revoked by logout",
			presented: "refresh-current",
			stored:    &domain.Token{UserID: userID},
			wantErr:   service.ErrInvalidRefreshToken,
			getCalled: true,
		},
		{
			name:      "no token row",
			presented: "refresh-current",
			storeErr:  store.ErrTokenNotFound,
			wantErr:   service.ErrInvalidRefreshToken,
			getCalled: true,
		},
		{
			name:      "persistence failure is not a rejection",
			presented: "refresh-current",
			storeErr:  dbErr,
			wantErr:   dbErr,
			getCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, _ := newTxDB(t)
			tokens := new(mocks.TokenStore)
			jwtService := jwtFor(userID, map[auth.TokenType]string{auth.TokenTypeRefresh: "refresh-current"})
			svc := service.NewTokenService(db, tokens, new(mocks.UserStore), jwtService,
				&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

			if tc.getCalled {
				tokens.On("Get", mock.Anything, userID).Return(tc.stored, tc.storeErr)
			}

			id, err := svc.VerifyRefreshToken(context.Background(), tc.presented)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, uuid.Nil, id)
				if errors.Is(tc.wantErr, service.ErrInvalidRefreshToken) {
					// Every rejection is the same value so callers cannot tell causes apart.
					assert.Equal(t, service.ErrInvalidRefreshToken, err)
				} else {
					assert.NotErrorIs(t, err, service.ErrInvalidRefreshToken)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantID, id)
			}
			tokens.AssertExpectations(t)
		})
	}
}

func TestTokenService_InvalidateRefreshToken(t *testing.T) {
	for _, present := range []bool{true, false} {
		userID := uuid.New()
		db, sqlMock := newTxDB(t)
		tokens := new(mocks.TokenStore)
		svc := service.NewTokenService(db, tokens, new(mocks.UserStore), &mocks.MockJWTService{},
			&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

		sqlMock.ExpectBegin()
		tokens.On("ClearRefreshToken", mock.Anything, userID).Return(present, nil)
		sqlMock.ExpectCommit()

		cleared, err := svc.InvalidateRefreshToken(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, present, cleared)
	}
}

func TestTokenService_GenerateCodes(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		purpose  domain.CodePurpose
		token    string
		lifetime time.Duration
		generate func(*service.TokenServiceImpl) (string, string, error)
	}{
		{
			name:     "verification",
			purpose:  domain.PurposeVerification,
			token:    "confirm-1",
			lifetime: 10 * time.Minute,
			generate: func(s *service.TokenServiceImpl) (string, string, error) {
				return s.GenerateVerificationCode(context.Background(), userID)
			},
		},
		{
			name:     "reset",
			purpose:  domain.PurposeReset,
			token:    "reset-1",
			lifetime: 10 * time.Hour,
			generate: func(s *service.TokenServiceImpl) (string, string, error) {
				return s.GenerateResetCode(context.Background(), userID)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, sqlMock := newTxDB(t)
			tokens := new(mocks.TokenStore)
			jwtService := jwtFor(userID, map[auth.TokenType]string{
				auth.TokenTypeConfirm: "confirm-1",
				auth.TokenTypeReset:   "reset-1",
			})
			svc := service.NewTokenService(db, tokens, new(mocks.UserStore), jwtService,
				&mocks.MockCodeGenerator{Codes: []string{"482913"}}, testAuthConfig(), testLogger())
			svc.SetNow(func() time.Time { return fixedNow })

			sqlMock.ExpectBegin()
			tokens.On("SetCode", mock.Anything, userID, tc.purpose, tc.token, "482913", fixedNow.Add(tc.lifetime)).
				Return(nil)
			sqlMock.ExpectCommit()

			code, token, err := tc.generate(svc)
			require.NoError(t, err)
			assert.Equal(t, "482913", code)
			assert.Equal(t, tc.token, token)
			tokens.AssertExpectations(t)
		})
	}
}

func TestTokenService_GenerateCode_GeneratorFailure(t *testing.T) {
	db, _ := newTxDB(t)
	svc := service.NewTokenService(db, new(mocks.TokenStore), new(mocks.UserStore), &mocks.MockJWTService{},
		&mocks.MockCodeGenerator{Err: errors.New("entropy exhausted")}, testAuthConfig(), testLogger())

	_, _, err := svc.GenerateVerificationCode(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestTokenService_VerifyCode(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "a@example.com", Name: "A", HashedPassword: "h"}
	expires := fixedNow.Add(5 * time.Minute)
	validTokens := map[auth.TokenType]string{
		auth.TokenTypeConfirm: "confirm-1",
		auth.TokenTypeReset:   "reset-1",
	}

	verificationRow := func() *domain.Token {
		return &domain.Token{
			UserID:                    userID,
			ConfirmToken:              strPtr("confirm-1"),
			VerificationCode:          strPtr("482913"),
			VerificationCodeExpiresAt: &expires,
		}
	}

	type verifyFn func(s *service.TokenServiceImpl, token, code string) (*domain.User, error)
	verifyEmail := func(s *service.TokenServiceImpl, token, code string) (*domain.User, error) {
		return s.VerifyVerificationCode(context.Background(), token, code)
	}
	verifyReset := func(s *service.TokenServiceImpl, token, code string) (*domain.User, error) {
		return s.VerifyResetCode(context.Background(), token, code)
	}

	tests := []struct {
		name     string
		verify   verifyFn
		token    string
		code     string
		row      *domain.Token
		rowErr   error
		now      time.Time
		noTx     bool
		wantUser bool
	}{
		{
			name:     "valid code is consumed",
			verify:   verifyEmail,
			token:    "confirm-1",
			code:     "482913",
			row:      verificationRow(),
			now:      fixedNow,
			wantUser: true,
		},
		{
			name:   "wrong code",
			verify: verifyEmail,
			token:  "confirm-1",
			code:   "000000",
			row:    verificationRow(),
			now:    fixedNow,
		},
		{
			name:   "expired at the boundary",
			verify: verifyEmail,
			token:  "confirm-1",
			code:   "482913",
			row:    verificationRow(),
			now:    expires,
		},
		{
			name:   "superseded wrapper token",
			verify: verifyEmail,
			token:  "confirm-1",
			code:   "482913",
			row: func() *domain.Token {
				row := verificationRow()
				row.ConfirmToken = strPtr("confirm-2")
				return row
			}(),
			now: fixedNow,
		},
		{
			name:   "already consumed",
			verify: verifyEmail,
			token:  "confirm-1",
			code:   "482913",
			row:    &domain.Token{UserID: userID},
			now:    fixedNow,
		},
		{
			name:   "no token row",
			verify: verifyEmail,
			token:  "confirm-1",
			code:   "482913",
			rowErr: store.ErrTokenNotFound,
			now:    fixedNow,
		},
		{
			name:   "invalid wrapper token",
			verify: verifyEmail,
			token:  "forged",
			code:   "482913",
			now:    fixedNow,
			noTx:   true,
		},
		{
			name:   "verification code presented for reset",
			verify: verifyReset,
			token:  "reset-1",
			code:   "482913",
			row:    verificationRow(),
			now:    fixedNow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, sqlMock := newTxDB(t)
			tokens := new(mocks.TokenStore)
			users := new(mocks.UserStore)
			svc := service.NewTokenService(db, tokens, users, jwtFor(userID, validTokens),
				&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())
			svc.SetNow(func() time.Time { return tc.now })

			if !tc.noTx {
				sqlMock.ExpectBegin()
				tokens.On("Get", mock.Anything, userID).Return(tc.row, tc.rowErr)
				if tc.wantUser {
					users.On("GetByID", mock.Anything, userID).Return(user, nil)
					tokens.On("ClearCode", mock.Anything, userID, domain.PurposeVerification).Return(nil)
					sqlMock.ExpectCommit()
				} else {
					sqlMock.ExpectRollback()
				}
			}

			got, err := tc.verify(svc, tc.token, tc.code)
			if tc.wantUser {
				require.NoError(t, err)
				assert.Equal(t, userID, got.ID)
			} else {
				assert.Equal(t, service.ErrInvalidCode, err)
				assert.Nil(t, got)
			}
			tokens.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestTokenService_VerifyCode_StoreFailure(t *testing.T) {
	userID := uuid.New()
	db, sqlMock := newTxDB(t)
	tokens := new(mocks.TokenStore)
	svc := service.NewTokenService(db, tokens, new(mocks.UserStore),
		jwtFor(userID, map[auth.TokenType]string{auth.TokenTypeConfirm: "confirm-1"}),
		&mocks.MockCodeGenerator{}, testAuthConfig(), testLogger())

	sqlMock.ExpectBegin()
	tokens.On("Get", mock.Anything, userID).Return(nil, store.ErrInternal)
	sqlMock.ExpectRollback()

	_, err := svc.VerifyVerificationCode(context.Background(), "confirm-1", "482913")
	assert.ErrorIs(t, err, store.ErrInternal)
	assert.NotErrorIs(t, err, service.ErrInvalidCode)
}
