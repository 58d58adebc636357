package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/config"
)

// newTxDB returns a sqlmock database for driving store.RunInTransaction.
// Unmet expectations fail the test at cleanup.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                         "thisisaverylongsecretkeyfortestingpurposes",
		BCryptCost:                        4,
		TokenLifetimeMinutes:              60,
		RefreshTokenLifetimeMinutes:       1440,
		VerificationCodeLifetimeMinutes:   10,
		ResetCodeLifetimeMinutes:          600,
		PasswordResetTokenLifetimeMinutes: 15,
	}
}

func strPtr(s string) *string { return &s }
