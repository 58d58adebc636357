package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/store"
)

// TokenStore is a testify mock of store.TokenStore.
type TokenStore struct {
	mock.Mock
}

var _ store.TokenStore = (*TokenStore)(nil)

func (m *TokenStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Token, error) {
	args := m.Called(ctx, userID)
	if token, ok := args.Get(0).(*domain.Token); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TokenStore) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *TokenStore) ClearRefreshToken(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *TokenStore) SetCode(
	ctx context.Context,
	userID uuid.UUID,
	purpose domain.CodePurpose,
	token, code string,
	expiresAt time.Time,
) error {
	return m.Called(ctx, userID, purpose, token, code, expiresAt).Error(0)
}

func (m *TokenStore) ClearCode(ctx context.Context, userID uuid.UUID, purpose domain.CodePurpose) error {
	return m.Called(ctx, userID, purpose).Error(0)
}

func (m *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
