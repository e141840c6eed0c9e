// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, and the bearer-token auth gate.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/config"
	"github.com/pirinku/go-recipe-backend/internal/http/handlers"
	"github.com/pirinku/go-recipe-backend/internal/http/middleware"
	"github.com/pirinku/go-recipe-backend/internal/llm"
	"github.com/pirinku/go-recipe-backend/internal/services"
	"github.com/pirinku/go-recipe-backend/internal/token"
)

// Deps carries the externally constructed dependencies the router cannot
// build from config alone. Store may be nil (upload endpoint responds 503);
// Groq/Gemini may be nil when the corresponding key is not configured.
type Deps struct {
	Mail   services.Mailer
	Groq   llm.Provider
	Gemini llm.Provider
	Store  handlers.ObjectStore
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), body limits, compression, CORS
// and security headers, health and metrics endpoints, the public auth
// endpoints, and the token-gated API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to envelope JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB). Multipart requests are excepted here
	// and capped on the upload route instead.
	r.Use(limitJSONBody(1 << 20))

	// 6) Compress responses for clients that ask for it
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps
		// tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/cfg/providers
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	accountSvc := &services.AccountService{
		DB:          db,
		Mail:        deps.Mail,
		OTPTTL:      cfg.Auth.OTPTTL,
		ResetTTL:    cfg.Auth.ResetOTPTTL,
		MinPassword: cfg.Auth.MinPassword,
	}
	socialSvc := &services.SocialService{DB: db}
	postSvc := &services.PostService{DB: db}
	chatSvc := &services.ChatService{
		DB:     db,
		Groq:   deps.Groq,
		Gemini: deps.Gemini,
	}
	prefSvc := &services.PersonalizationService{DB: db}

	h := handlers.New(accountSvc, socialSvc, postSvc, chatSvc, prefSvc, tokens, deps.Store)

	apiBase := cfg.APIBasePath // e.g. "/api"
	api := groupWithPrefix(r, apiBase)

	// Public auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/create-account", h.CreateAccount)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/resend-otp", h.ResendOTP)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	// Static onboarding option lists are public so the app can render the
	// picker before sign-in.
	api.GET("/personalization/static/:list", h.PersonalizationOptions)

	// Everything else requires a session token.
	gated := api.Group("", middleware.RequireAuth(tokens))
	{
		// Own profile
		gated.GET("/profile", h.GetProfile)
		gated.PATCH("/profile", h.UpdateProfile)
		gated.GET("/profile/followers", h.MyFollowers)
		gated.GET("/profile/following", h.MyFollowing)
		gated.GET("/profile/my-posts", h.MyPosts)
		gated.GET("/profile/my-comments", h.MyComments)
		gated.GET("/profile/saved-posts", h.SavedPosts)

		// Other users
		gated.GET("/users/:id", h.GetUser)
		gated.POST("/users/:id/follow", h.FollowUser)

		// Subscription plan
		gated.GET("/user/plan", h.GetPlan)
		gated.PATCH("/user/plan/subscribe", h.Subscribe)
		gated.PATCH("/user/plan/cancel", h.CancelPlan)

		// Posts and the feed
		gated.POST("/posts", h.CreatePost)
		gated.GET("/posts", h.ListPosts)
		gated.GET("/posts/:id", h.GetPost)
		gated.PATCH("/posts/:id", h.UpdatePost)
		gated.DELETE("/posts/:id", h.DeletePost)
		gated.POST("/posts/:id/like", h.LikePost)
		gated.POST("/posts/:id/save", h.SavePost)
		gated.POST("/posts/:id/comments", h.CommentPost)
		gated.GET("/posts/:id/comments", h.ListPostComments)
		gated.GET("/feeds", h.Feed)

		// Recipe chat
		gated.POST("/chat/titles", h.CreateTitle)
		gated.GET("/chat/titles", h.ListTitles)
		gated.GET("/chat/titles/:id", h.GetTitle)
		gated.PUT("/chat/titles/:id", h.RenameTitle)
		gated.DELETE("/chat/titles/:id", h.DeleteTitle)
		gated.GET("/chat/history", h.ListHistory)
		gated.GET("/chat/history/:id", h.GetHistory)
		gated.DELETE("/chat/history/:id", h.DeleteHistory)
		gated.POST("/chat/groq", h.CompleteGroq)
		gated.POST("/chat/gemini", h.CompleteGemini)
		gated.POST("/chat/ask-and-save", h.AskAndSave)

		// Personalization
		gated.POST("/personalization", h.SavePersonalization)
		gated.GET("/personalization", h.GetPersonalization)
		gated.PATCH("/personalization", h.PatchPersonalization)
		gated.GET("/personalization/check", h.CheckPersonalization)

		// Uploads get a larger cap than the global JSON body limit.
		gated.POST("/upload", limitBody(8<<20), h.Upload)
	}
}

// limitBody returns a Gin middleware that caps the request body size to
// maxBytes using http.MaxBytesReader. Requests exceeding the cap will cause
// downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// limitJSONBody is limitBody except that multipart requests pass through
// untouched so the upload route can apply its own larger cap.
func limitJSONBody(maxBytes int64) gin.HandlerFunc {
	limit := limitBody(maxBytes)
	return func(c *gin.Context) {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Next()
			return
		}
		limit(c)
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
