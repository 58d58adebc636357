package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/store"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name           string
		setupContext   func() context.Context
		expectedUserID uuid.UUID
		expectedOK     bool
	}{
		{
			name: "valid user ID in context",
			setupContext: func() context.Context {
				userID := uuid.New()
				return context.WithValue(context.Background(), shared.UserIDContextKey, userID)
			},
			expectedOK: true,
		},
		{
			name: "missing user ID in context",
			setupContext: func() context.Context {
				return context.Background()
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
		{
			name: "nil user ID in context",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), shared.UserIDContextKey, uuid.Nil)
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
		{
			name: "wrong type in context",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), shared.UserIDContextKey, "not-a-uuid")
			},
			expectedUserID: uuid.Nil,
			expectedOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupContext()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(ctx)

			userID, ok := getUserIDFromContext(req)

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.NotEqual(t, uuid.Nil, userID)
			} else {
				assert.Equal(t, tt.expectedUserID, userID)
			}
		})
	}
}

func TestGetPathUUID(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name    string
		value   string
		want    uuid.UUID
		wantErr bool
	}{
		{"valid", validUUID.String(), validUUID, false},
		{"missing", "", uuid.Nil, true},
		{"malformed", "42", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.value)
			got, err := getPathUUID(req, "id")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireSelf(t *testing.T) {
	self := uuid.New()

	tests := []struct {
		name       string
		userID     *uuid.UUID
		param      string
		wantOK     bool
		wantStatus int
	}{
		{"own resource", &self, self.String(), true, http.StatusOK},
		{"another user", &self, uuid.New().String(), false, http.StatusForbidden},
		{"unauthenticated", nil, self.String(), false, http.StatusUnauthorized},
		{"malformed id", &self, "me", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != nil {
				req = req.WithContext(shared.WithUserID(req.Context(), *tt.userID))
			}
			req = withURLParams(req, "id", tt.param)
			w := httptest.NewRecorder()

			got, ok := requireSelf(w, req, "id", testLogger())

			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, self, got)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code)
			}
		})
	}
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  store.Page
	}{
		{"", store.Page{Number: 1, PerPage: 10}},
		{"page=3&per_page=25", store.Page{Number: 3, PerPage: 25}},
		{"page=0&per_page=-4", store.Page{Number: 1, PerPage: 10}},
		{"page=abc&per_page=5000", store.Page{Number: 1, PerPage: store.MaxPerPage}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, pageFromQuery(req, 10))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	err := shared.ValidateRequest(&RegisterRequest{Email: "a@example.com", Password: "password123"})
	assert.Equal(t, "Missing required fields: name, dob, gender, phone_number", validationMessage(err))

	err = shared.ValidateRequest(&LoginRequest{Email: "nope", Password: "x"})
	assert.Equal(t, "Invalid email address.", validationMessage(err))
}
