// Handler wiring.
//
// This file declares the service contracts the HTTP layer consumes, the
// Handlers aggregate that binds them, and the shared helpers: the
// sentinel-to-status error mapping and pagination parsing. Handlers are
// transport-thin: they validate input, call application services, and
// translate results into envelope responses.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/http/middleware"
	"github.com/pirinku/go-recipe-backend/internal/llm"
	"github.com/pirinku/go-recipe-backend/internal/services"
	"github.com/pirinku/go-recipe-backend/internal/token"
	"github.com/pirinku/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AccountService defines the account lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type AccountService interface {
	Register(ctx context.Context, username, fullName, email, password string) (*domain.User, error)
	VerifyEmail(ctx context.Context, email, otp string) (*domain.User, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	GetProfile(ctx context.Context, userID string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, userID string, fullName, bio, avatar *string) (*domain.User, error)
	GetPlan(ctx context.Context, userID string) (*services.Plan, error)
	Subscribe(ctx context.Context, userID, planType string, expiry time.Time) (*services.Plan, error)
	CancelSubscription(ctx context.Context, userID string) (*services.Plan, error)
}

// SocialService defines follow-graph operations and public profile reads.
type SocialService interface {
	ToggleFollow(ctx context.Context, viewerID, targetID string) (following bool, followers int64, err error)
	GetPublicProfile(ctx context.Context, targetID, viewerID string) (*services.PublicProfile, error)
	ListFollowers(ctx context.Context, targetID string) ([]domain.User, error)
	ListFollowing(ctx context.Context, targetID string) ([]domain.User, error)
}

// PostService defines post CRUD, the feed, social toggles, and comments.
type PostService interface {
	Create(ctx context.Context, userID, content, imageURL string) (*domain.Post, error)
	Get(ctx context.Context, postID, viewerID string) (*services.PostView, error)
	Feed(ctx context.Context, viewerID string, page, pageSize int) ([]services.PostView, int64, error)
	ListByUser(ctx context.Context, userID, viewerID string) ([]services.PostView, error)
	ListSaved(ctx context.Context, viewerID string) ([]services.PostView, error)
	Update(ctx context.Context, postID, userID string, content, imageURL *string) (*domain.Post, error)
	Delete(ctx context.Context, postID, userID string) error
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likes int64, err error)
	ToggleSave(ctx context.Context, postID, userID string) (bool, error)
	AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	ListMyComments(ctx context.Context, userID string) ([]domain.Comment, error)
}

// ChatService defines conversation threads, saved exchanges, the provider
// proxy, and the ask-and-save flow.
type ChatService interface {
	CreateTitle(ctx context.Context, userID, title string) (*domain.Title, error)
	ListTitles(ctx context.Context, userID string) ([]domain.Title, error)
	RenameTitle(ctx context.Context, userID, titleID, title string) error
	DeleteTitle(ctx context.Context, userID, titleID string) error
	ListHistories(ctx context.Context, userID, titleID string) ([]domain.History, error)
	GetHistory(ctx context.Context, userID, historyID string) (*domain.History, error)
	DeleteHistory(ctx context.Context, userID, historyID string) error
	Complete(ctx context.Context, provider string, messages []llm.Message) (string, error)
	AskAndSave(ctx context.Context, userID, titleID, message, provider string) (*services.AskResult, error)
}

// PersonalizationService defines preference reads, whole-record saves, and
// partial patches.
type PersonalizationService interface {
	Get(ctx context.Context, userID string) (*domain.Personalization, error)
	Has(ctx context.Context, userID string) (bool, error)
	Save(ctx context.Context, userID string, in services.PreferenceInput) (*domain.Personalization, error)
	Patch(ctx context.Context, userID string, in services.PreferencePatch) (*domain.Personalization, error)
}

// TokenIssuer signs session tokens after a successful login.
type TokenIssuer interface {
	Issue(p token.Payload) (string, error)
}

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, the social graph, posts,
// recipe chat, personalization, and uploads. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	accounts AccountService
	social   SocialService
	posts    PostService
	chat     ChatService
	prefs    PersonalizationService
	tokens   TokenIssuer

	// store is nil when object storage is not configured; uploads then
	// return 503.
	store         ObjectStore
	maxUploadSize int64
}

// New constructs a Handlers instance bound to the given services.
func New(
	accounts AccountService,
	social SocialService,
	posts PostService,
	chat ChatService,
	prefs PersonalizationService,
	tokens TokenIssuer,
	store ObjectStore,
) *Handlers {
	return &Handlers{
		accounts:      accounts,
		social:        social,
		posts:         posts,
		chat:          chat,
		prefs:         prefs,
		tokens:        tokens,
		store:         store,
		maxUploadSize: defaultMaxUploadSize,
	}
}

const defaultMaxUploadSize = 5 << 20 // 5 MiB

// userID returns the authenticated user's ID set by the auth gate.
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination derives the metadata block from a page request and total.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// failFromErr maps service sentinels onto status codes and envelope error
// codes. Anything unrecognized becomes a generic 500 whose detail stays in the
// server logs only.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrTitleNotFound),
		errors.Is(err, services.ErrHistoryNotFound),
		errors.Is(err, services.ErrPersonalizationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotVerified):
		fail(c, http.StatusForbidden, ErrCodeNotVerified, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidOTP):
		fail(c, http.StatusBadRequest, ErrCodeInvalidOTP, err.Error())
	case errors.Is(err, services.ErrAlreadyVerified),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrTooLong),
		errors.Is(err, services.ErrEmptyPrompt),
		errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrUnknownProvider),
		errors.Is(err, services.ErrPlanTypeRequired),
		errors.Is(err, services.ErrExpiryNotFuture),
		errors.Is(err, services.ErrNotSubscribed),
		errors.Is(err, services.ErrNoPreferenceFields):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailDelivery):
		fail(c, http.StatusBadGateway, ErrCodeEmailFailed, err.Error())
	case errors.Is(err, llm.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "assistant provider not configured")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
