// AngelaMos | 2026
// errors_test.go

package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("op: %w", ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("op: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("op: %w", ErrDuplicateKey), http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("op: %w", ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("op: %w", ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("op: %w", ErrTokenExpired), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{fmt.Errorf("op: %w", ErrTokenRevoked), http.StatusUnauthorized, "TOKEN_REVOKED"},
		{fmt.Errorf("op: %w", ErrConfiguration), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("driver exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		appErr := FromError(tc.err)
		assert.Equal(t, tc.status, appErr.StatusCode, tc.err.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.err.Error())
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("signup: %w", DuplicateError("email"))
	require.True(t, IsAppError(err))
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, "email already registered", FromError(err).Message)
}

func TestJSONErrorHidesInternalDetail(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req = req.WithContext(WithRequestID(req.Context(), "req-42"))

	rec := httptest.NewRecorder()
	JSONError(rec, req, errors.New("pq: password authentication failed for user quiz"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "INTERNAL_ERROR", body.Code)
	require.NotContains(t, body.Error, "password")

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "request failed", line["msg"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "/v1/auth/login", line["path"])
	assert.Contains(t, line["error"], "password authentication failed")
}

func TestClientErrorsAreNotLogged(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := httptest.NewRecorder()
	JSONError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("op: %w", ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, logs.String())
}

func TestPaginatedComputesPages(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	var body struct {
		Items      []string   `json:"items"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, []string{"a", "b"}, body.Items)
	require.Equal(t, 3, body.Pagination.TotalPages)
	require.Equal(t, 5, body.Pagination.Total)
}

func TestFormatValidationError(t *testing.T) {
	type request struct {
		Email string `validate:"required"`
		Name  string `validate:"max=3"`
	}

	err := validator.New().Struct(request{Name: "toolong"})
	msg := FormatValidationError(err)
	require.Contains(t, msg, "email is required")
	require.Contains(t, msg, "name must be at most 3 characters")

	require.Equal(t, "invalid request", FormatValidationError(errors.New("x")))
}
