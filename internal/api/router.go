package api

import (
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/rohits-web03/zipdrop/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/zipdrop/internal/api/handlers"
	"github.com/rohits-web03/zipdrop/internal/api/middleware"
	"github.com/rs/cors"
)

type RouterOptions struct {
	Logger       *slog.Logger
	Tokens       middleware.TokenVerifier
	Users        middleware.UserLookup
	LoginLimiter *middleware.IPRateLimiter // nil disables login rate limiting
	Cors         cors.Options
}

func SetupRouter(h *handlers.Handler, opts RouterOptions) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(opts.Cors)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /{$}", h.Root)
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("POST /register", h.RegisterUser)

	var login http.Handler = http.HandlerFunc(h.LoginUser)
	if opts.LoginLimiter != nil {
		login = middleware.RateLimit(opts.LoginLimiter)(login)
	}
	mainMux.Handle("POST /login", login)

	// ---------- PROTECTED ROUTES ----------
	protect := middleware.AuthMiddleware(opts.Tokens, opts.Users)

	mainMux.Handle("POST /uploadfile/{$}", protect(http.HandlerFunc(h.UploadFile)))
	mainMux.Handle("GET /uploadrecords/{$}", protect(http.HandlerFunc(h.GetUploadRecords)))
	mainMux.Handle("GET /upload-records/{$}", protect(http.HandlerFunc(h.GetUploadRecords)))
	mainMux.Handle("GET /uploadrecords/{id}/archive", protect(http.HandlerFunc(h.DownloadArchive)))

	opts.Logger.Info("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(opts.Logger)(handler)
	return handler
}
