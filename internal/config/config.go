// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server settings,
// logging, database path, auth/token lifetimes, SMTP delivery, LLM provider
// keys, object storage, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig defines session token and verification code lifetimes.
type AuthConfig struct {
	JWTSecret   string        // JWT_SECRET (required outside debug mode)
	JWTTTL      time.Duration // JWT_TTL, default 168h
	OTPTTL      time.Duration // OTP_TTL, default 10m
	ResetOTPTTL time.Duration // RESET_OTP_TTL, default 10m
	MinPassword int           // MIN_PASSWORD_LEN, default 6
}

// SMTPConfig defines outbound email delivery. An empty Host switches the
// mailer into log-only mode (useful for local development and tests).
type SMTPConfig struct {
	Host     string // SMTP_HOST
	Port     string // SMTP_PORT
	Username string // SMTP_USERNAME
	Password string // SMTP_PASSWORD
	From     string // SMTP_FROM (e.g. "Pirinku <no-reply@pirinku.app>")
}

// LLMConfig defines the hosted completion providers proxied by the chat API.
type LLMConfig struct {
	GroqAPIKey   string // GROQ_API_KEY
	GroqBaseURL  string // GROQ_BASE_URL, default https://api.groq.com/openai/v1
	GroqModel    string // GROQ_MODEL, default llama-3.3-70b-versatile
	GeminiAPIKey string // GEMINI_API_KEY
	GeminiModel  string // GEMINI_MODEL, default gemini-2.0-flash
}

// StorageConfig defines the S3-compatible object store used for image uploads.
// An empty Endpoint disables the upload endpoint.
type StorageConfig struct {
	Endpoint  string // STORAGE_ENDPOINT (e.g. "minio:9000")
	AccessKey string // STORAGE_ACCESS_KEY
	SecretKey string // STORAGE_SECRET_KEY
	Bucket    string // STORAGE_BUCKET, default "pirinku"
	UseSSL    bool   // STORAGE_USE_SSL
	PublicURL string // STORAGE_PUBLIC_URL, base URL returned to clients
}

// CORSConfig defines the browser origin allowlist. Empty means allow all,
// which suits local development and server-to-server callers.
type CORSConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS, comma-separated
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes, default /api

	// App
	DBPath string // SQLite path

	Auth    AuthConfig
	SMTP    SMTPConfig
	LLM     LLMConfig
	Storage StorageConfig

	CORS     CORSConfig
	Security SecurityConfig
	OTEL     OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		DBPath: getenv("DB_PATH", "app.db"),

		Auth: AuthConfig{
			JWTSecret:   getenv("JWT_SECRET", ""),
			JWTTTL:      getdur("JWT_TTL", 7*24*time.Hour),
			OTPTTL:      getdur("OTP_TTL", 10*time.Minute),
			ResetOTPTTL: getdur("RESET_OTP_TTL", 10*time.Minute),
			MinPassword: getint("MIN_PASSWORD_LEN", 6),
		},

		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", ""),
			Port:     getenv("SMTP_PORT", "587"),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "Pirinku <no-reply@pirinku.app>"),
		},

		LLM: LLMConfig{
			GroqAPIKey:   getenv("GROQ_API_KEY", ""),
			GroqBaseURL:  getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			GroqModel:    getenv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
			GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		},

		Storage: StorageConfig{
			Endpoint:  getenv("STORAGE_ENDPOINT", ""),
			AccessKey: getenv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getenv("STORAGE_SECRET_KEY", ""),
			Bucket:    getenv("STORAGE_BUCKET", "pirinku"),
			UseSSL:    getbool("STORAGE_USE_SSL", false),
			PublicURL: getenv("STORAGE_PUBLIC_URL", ""),
		},

		CORS: CORSConfig{
			AllowedOrigins: getlist("CORS_ALLOWED_ORIGINS"),
		},

		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "pirinku-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		if cfg.GinMode != "debug" && cfg.GinMode != "test" {
			return cfg, errors.New("JWT_SECRET must be set in release mode")
		}
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	if cfg.Auth.JWTTTL <= 0 || cfg.Auth.OTPTTL <= 0 || cfg.Auth.ResetOTPTTL <= 0 {
		return cfg, errors.New("token and code TTLs must be positive durations")
	}
	if cfg.Auth.MinPassword < 1 {
		return cfg, errors.New("MIN_PASSWORD_LEN must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

// getlist splits a comma-separated env var, dropping empty entries.
func getlist(k string) []string {
	v, ok := os.LookupEnv(k)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
