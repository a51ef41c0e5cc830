package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rohits-web03/zipdrop/internal/api/services"
	"github.com/rohits-web03/zipdrop/internal/auth"
	"github.com/rohits-web03/zipdrop/internal/utils"
)

type Handler struct {
	logger         *slog.Logger
	users          *services.UserService
	uploads        *services.UploadService
	tokens         *auth.TokenService
	maxUploadBytes int64
}

func NewHandler(
	logger *slog.Logger,
	users *services.UserService,
	uploads *services.UploadService,
	tokens *auth.TokenService,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		logger:         logger,
		users:          users,
		uploads:        uploads,
		tokens:         tokens,
		maxUploadBytes: maxUploadBytes,
	}
}

// writeServiceError maps service errors onto status codes. Unknown errors are
// logged and answered with a generic 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrMalformedUpload):
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateUsername):
		utils.ErrorResponse(w, http.StatusConflict, "Username is already taken")
	case errors.Is(err, services.ErrAuthenticationFailed):
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.ErrorResponse(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, services.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
	case errors.Is(err, services.ErrAuthorizationDenied):
		utils.ErrorResponse(w, http.StatusForbidden, "Not allowed to access another user's records")
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		utils.ErrorResponse(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "ZipDrop is up. Register, log in and upload your ZIP files.",
	})
}
