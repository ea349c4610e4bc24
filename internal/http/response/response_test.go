package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()

	Created(w, map[string]string{"id": "new-id"}, discardLogger())

	assert.Equal(t, http.StatusCreated, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError_Generic(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, "something went wrong", discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, "something went wrong", result.Error)
}

func TestHandleError_DomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainerrors.NotFound("plant not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domainerrors.Conflict("already copied"), http.StatusConflict, "CONFLICT"},
		{"validation", domainerrors.Validation("title is required"), http.StatusBadRequest, "VALIDATION"},
		{"invalid state", domainerrors.InvalidState("cannot submit"), http.StatusBadRequest, "INVALID_STATE"},
		{"credentials", domainerrors.InvalidCredentials("invalid email or password"), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"forbidden", domainerrors.Forbidden("hq only"), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)

			var result Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := httptest.NewRecorder()

	wrapped := domainerrors.Wrap(errors.New("disk full"), domainerrors.CodeConflict, "could not record copy")
	HandleError(w, wrapped, discardLogger())

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("mystery"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	// The internal detail never leaks to the client.
	assert.Equal(t, "internal server error", result.Error)
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		status          int
		expectedSuccess bool
	}{
		{200, true},
		{201, true},
		{399, true},
		{400, false},
		{500, false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		JSON(w, tt.status, nil, discardLogger())

		var result Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, tt.expectedSuccess, result.Success, "status %d", tt.status)
	}
}
