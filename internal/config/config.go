package config

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type Config struct {
	DB_URL          string
	Port            string
	JWTSecret       string
	TokenTTL        time.Duration
	MaxUploadBytes  int64
	LoginRatePerMin int
	LoginBurst      int
	Environment     string
	CorsConfig      cors.Options
}

// Load reads the optional env file and builds the runtime configuration.
func Load() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Info("no env file found, using process environment", "file", envFile)
	}

	return Config{
		DB_URL:          getEnv("DB_URL", "sqlite://zipdrop.db"),
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		TokenTTL:        time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_MB", 100)) << 20,
		LoginRatePerMin: getEnvInt("LOGIN_RATE_PER_MINUTE", 30),
		LoginBurst:      getEnvInt("LOGIN_BURST", 10),
		Environment:     getEnv("ENV", "development"),
		CorsConfig:      CorsConfig(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", raw)
		return fallback
	}
	return n
}

func CorsConfig(origins string) cors.Options {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}
}
