package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rohits-web03/zipdrop/internal/api/services"
	"github.com/rohits-web03/zipdrop/internal/models"
	"github.com/rohits-web03/zipdrop/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx the same way AuthMiddleware does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Unauthorized writes the 401 every unauthenticated request receives.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
}

// AuthMiddleware requires "Authorization: Bearer <token>" whose subject is an
// existing user.
func AuthMiddleware(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				Unauthorized(w)
				return
			}

			username, err := tokens.Verify(tokenStr)
			if err != nil {
				Unauthorized(w)
				return
			}

			user, err := users.FindByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					Unauthorized(w)
					return
				}
				slog.ErrorContext(r.Context(), "auth user lookup failed", "error", err)
				utils.ErrorResponse(w, http.StatusInternalServerError, "An unexpected error occurred")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
