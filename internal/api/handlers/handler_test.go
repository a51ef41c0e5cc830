package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/zipdrop/internal/api/middleware"
	"github.com/rohits-web03/zipdrop/internal/api/services"
	"github.com/rohits-web03/zipdrop/internal/archive"
	"github.com/rohits-web03/zipdrop/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	var logs strings.Builder
	h := NewHandler(slog.New(slog.NewTextHandler(&logs, nil)), nil, nil, nil, 1<<20)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", fmt.Errorf("%w: username and password are required", services.ErrInvalidInput), http.StatusBadRequest},
		{"malformed upload", archive.ErrMissingEntry, http.StatusBadRequest},
		{"duplicate", services.ErrDuplicateUsername, http.StatusConflict},
		{"bad credentials", services.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", services.ErrAuthorizationDenied, http.StatusForbidden},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"internal", errors.New("pq: connection refused to 10.0.0.5"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.writeServiceError(w, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}

	t.Run("internal details stay in the log", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.writeServiceError(w, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("secret dsn leaked"))
		assert.NotContains(t, w.Body.String(), "secret dsn")
		assert.Contains(t, w.Body.String(), "An unexpected error occurred")
		assert.Contains(t, logs.String(), "secret dsn")
	})
}

func TestProtectedHandlersRequireUser(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil, nil, 1<<20)

	for name, fn := range map[string]http.HandlerFunc{
		"upload":   h.UploadFile,
		"list":     h.GetUploadRecords,
		"download": h.DownloadArchive,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestUploadFile_RejectsExtensionBeforeReading(t *testing.T) {
	// no upload service: the request must be answered by the handler itself
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil, nil, 1<<20)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "report.tar.gz")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a zip"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadfile/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1, Username: "alice"}))

	w := httptest.NewRecorder()
	h.UploadFile(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only ZIP files are allowed")
}

func TestRoot(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil, nil, 1<<20)
	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)
}
