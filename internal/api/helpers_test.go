package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// jsonRequest builds a request whose body is body encoded as JSON. A string
// body is sent verbatim.
func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser marks the request as authenticated by userID.
func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(shared.WithUserID(r.Context(), userID))
}

// withURLParams attaches chi route parameters given as name, value pairs.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse decodes a recorded JSON response into a generic map.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func sampleUser() *domain.User {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:          uuid.New(),
		Email:       "mai@example.com",
		Name:        "Mai",
		DOB:         domain.NewDate(time.Date(1999, 3, 14, 0, 0, 0, 0, time.UTC)),
		Gender:      "female",
		PhoneNumber: "0912345678",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
