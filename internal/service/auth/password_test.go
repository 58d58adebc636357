package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse"))
	assert.ErrorIs(t, hasher.Compare(hash, "wrong horse"), ErrPasswordMismatch)
	assert.ErrorIs(t, hasher.Compare("not-a-hash", "correct horse"), ErrPasswordMismatch)
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestCodeGenerator(t *testing.T) {
	gen, err := NewCodeGenerator()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
