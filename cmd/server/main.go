// Command server runs the Pirinku API: accounts with email verification,
// posts and the social feed, recipe chat backed by hosted LLM providers, and
// image uploads to S3-compatible storage.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/pirinku/go-recipe-backend/internal/config"
	httpapi "github.com/pirinku/go-recipe-backend/internal/http"
	"github.com/pirinku/go-recipe-backend/internal/llm"
	"github.com/pirinku/go-recipe-backend/internal/mail"
	"github.com/pirinku/go-recipe-backend/internal/observability"
	"github.com/pirinku/go-recipe-backend/internal/repo"
	"github.com/pirinku/go-recipe-backend/internal/storage"
	"github.com/pirinku/go-recipe-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := observability.Setup(context.Background(), cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			log.Fatal().Err(err).Msg("database tracing setup failed")
		}
	}

	deps := httpapi.Deps{Mail: mail.NewSender(cfg.SMTP)}
	if cfg.LLM.GroqAPIKey != "" {
		deps.Groq = llm.NewGroqClient(cfg.LLM.GroqBaseURL, cfg.LLM.GroqAPIKey, cfg.LLM.GroqModel)
	}
	if cfg.LLM.GeminiAPIKey != "" {
		deps.Gemini = llm.NewGeminiClient(cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel)
	}
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("object store setup failed")
		}
		deps.Store = store
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown failed")
	}
	log.Info().Msg("bye")
}
