// Package services – ChatService
//
// This file implements the ChatService, which manages recipe-chat
// conversations: thread (Title) lifecycle, saved exchanges (History), and the
// ask-and-save flow that calls a completion provider and persists the
// resulting user/assistant pair. It also exposes a raw Complete passthrough
// for the provider proxy endpoints.
//
// A new conversation gets its title generated from the first message by the
// same provider that answers it; if title generation fails the thread falls
// back to "New Conversation" rather than failing the whole request.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/llm"
	"github.com/pirinku/go-recipe-backend/internal/repo"
)

// Provider names accepted by the chat endpoints.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// ErrUnknownProvider is returned for provider names other than groq/gemini.
var ErrUnknownProvider = errors.New("invalid provider, use 'groq' or 'gemini'")

// ChatService provides conversation operations backed by completion
// providers.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Groq answers requests for the "groq" provider.
	Groq llm.Provider
	// Gemini answers requests for the "gemini" provider.
	Gemini llm.Provider

	// ContextTurns is how many recent turns are replayed to the provider.
	// Zero means 10.
	ContextTurns int
	// MaxPromptRunes caps prompts by rune length. Zero means 4000.
	MaxPromptRunes int
	// TitleMaxLen caps stored thread titles by rune length. Zero means 60.
	TitleMaxLen int
	// TitleLocale selects the casing locale for locally derived titles.
	// Und means English.
	TitleLocale language.Tag
}

// AskResult is the outcome of an ask-and-save call.
type AskResult struct {
	TitleID           string         `json:"title_id"`
	HistoryID         string         `json:"history_id"`
	Message           llm.Message    `json:"message"`
	Response          llm.Message    `json:"response"`
	Provider          string         `json:"provider"`
	IsNewConversation bool           `json:"is_new_conversation"`
	Title             *domain.Title  `json:"title,omitempty"`
}

// CreateTitle creates a conversation thread with a normalized title,
// defaulting to "New Conversation" when blank.
func (s *ChatService) CreateTitle(ctx context.Context, userID, title string) (*domain.Title, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultTitle
	}
	return repo.CreateTitle(ctx, s.DB, userID, s.clip(title))
}

// ListTitles returns the user's threads, most recently active first.
func (s *ChatService) ListTitles(ctx context.Context, userID string) ([]domain.Title, error) {
	return repo.ListTitles(ctx, s.DB, userID)
}

// RenameTitle updates a thread's title, enforcing ownership.
func (s *ChatService) RenameTitle(ctx context.Context, userID, titleID, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = "Untitled"
	}
	if err := repo.UpdateTitle(ctx, s.DB, titleID, userID, s.clip(title)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// DeleteTitle removes a thread and its histories, enforcing ownership.
func (s *ChatService) DeleteTitle(ctx context.Context, userID, titleID string) error {
	if err := repo.DeleteTitle(ctx, s.DB, titleID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// ListHistories returns a thread's saved exchanges, oldest first, after
// verifying the thread belongs to userID.
func (s *ChatService) ListHistories(ctx context.Context, userID, titleID string) ([]domain.History, error) {
	if _, err := repo.GetTitle(ctx, s.DB, titleID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return repo.ListHistories(ctx, s.DB, titleID)
}

// GetHistory returns a single saved exchange with its turns, scoped to the
// owner of its thread.
func (s *ChatService) GetHistory(ctx context.Context, userID, historyID string) (*domain.History, error) {
	h, err := repo.GetHistory(ctx, s.DB, historyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, err
	}
	return h, nil
}

// DeleteHistory removes a single saved exchange, scoped to the owner of its
// thread.
func (s *ChatService) DeleteHistory(ctx context.Context, userID, historyID string) error {
	if err := repo.DeleteHistory(ctx, s.DB, historyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	return nil
}

// Complete proxies a raw message list straight to the named provider without
// persisting anything.
func (s *ChatService) Complete(ctx context.Context, provider string, messages []llm.Message) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", ErrEmptyPrompt
	}
	return p.Complete(ctx, messages)
}

// AskAndSave answers a prompt and persists the exchange. With an empty
// titleID it starts a new thread whose title is generated from the prompt;
// otherwise it continues the given thread, replaying the most recent turns as
// context.
func (s *ChatService) AskAndSave(ctx context.Context, userID, titleID, message, provider string) (*AskResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyPrompt
	}
	if utf8.RuneCountInString(message) > s.maxPrompt() {
		return nil, ErrTooLong
	}
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}

	var (
		thread *domain.Title
		isNew  bool
	)
	if titleID == "" {
		isNew = true
		thread, err = repo.CreateTitle(ctx, s.DB, userID, s.clip(s.generateTitle(ctx, p, message)))
		if err != nil {
			return nil, err
		}
		titleID = thread.ID
	} else {
		thread, err = repo.GetTitle(ctx, s.DB, titleID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTitleNotFound
			}
			return nil, err
		}
	}

	// Context window: recent turns only when continuing a thread.
	var prompt []llm.Message
	if !isNew {
		turns, err := repo.ListRecentTurns(ctx, s.DB, titleID, s.contextTurns())
		if err != nil {
			return nil, err
		}
		for _, t := range turns {
			prompt = append(prompt, llm.Message{Role: t.Role, Content: t.Content})
		}
	}
	userMsg := llm.Message{Role: domain.RoleUser, Content: message}
	prompt = append(prompt, userMsg)

	answer, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	assistantMsg := llm.Message{Role: domain.RoleAssistant, Content: answer}

	h, err := repo.CreateHistory(ctx, s.DB, titleID, []domain.HistoryMessage{
		{Role: domain.RoleUser, Content: message},
		{Role: domain.RoleAssistant, Content: answer},
	})
	if err != nil {
		return nil, err
	}
	if err := repo.TouchTitle(ctx, s.DB, titleID); err != nil {
		log.Warn().Err(err).Str("title_id", titleID).Msg("failed to bump thread activity")
	}

	res := &AskResult{
		TitleID:           titleID,
		HistoryID:         h.ID,
		Message:           userMsg,
		Response:          assistantMsg,
		Provider:          provider,
		IsNewConversation: isNew,
	}
	if isNew {
		res.Title = thread
	}
	return res, nil
}

// generateTitle asks the provider for a short thread title derived from the
// first message. Failures degrade to a locally derived title, and finally to
// the default.
func (s *ChatService) generateTitle(ctx context.Context, p llm.Provider, message string) string {
	prompt := fmt.Sprintf(
		"Generate a short, concise title (max 6 words) for a conversation that starts with: %q. Only return the title, nothing else.",
		message,
	)
	title, err := p.Complete(ctx, []llm.Message{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		log.Warn().Err(err).Msg("title generation failed, deriving locally")
		title = ""
	} else {
		title = normalizeTitle(strings.Trim(title, `"`))
	}
	if title == "" {
		title = s.deriveTitle(message)
	}
	if title == "" {
		return defaultTitle
	}
	return title
}

// deriveTitle builds a compact title from the message itself: title-cased
// significant words, stop words dropped.
func (s *ChatService) deriveTitle(message string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(message), -1)
	if len(toks) == 0 {
		return ""
	}
	caser := cases.Title(s.titleLocale())
	out := make([]string, 0, maxTitleWords)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= maxTitleWords {
			break
		}
	}
	return strings.Join(out, " ")
}

func (s *ChatService) titleLocale() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

func (s *ChatService) provider(name string) (llm.Provider, error) {
	switch name {
	case ProviderGroq, "":
		if s.Groq == nil {
			return nil, llm.ErrNotConfigured
		}
		return s.Groq, nil
	case ProviderGemini:
		if s.Gemini == nil {
			return nil, llm.ErrNotConfigured
		}
		return s.Gemini, nil
	default:
		return nil, ErrUnknownProvider
	}
}

func (s *ChatService) contextTurns() int {
	if s.ContextTurns > 0 {
		return s.ContextTurns
	}
	return 10
}

func (s *ChatService) maxPrompt() int {
	if s.MaxPromptRunes > 0 {
		return s.MaxPromptRunes
	}
	return 4000
}

// clip truncates a thread title to the configured maximum rune length.
func (s *ChatService) clip(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

const (
	defaultTitle  = "New Conversation"
	maxTitleWords = 6
)

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// titleWordRE extracts Unicode letters with optional trailing digits.
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// titleStopWords are dropped when deriving a title locally.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"i": {}, "my": {}, "me": {}, "can": {}, "what": {}, "how": {}, "do": {}, "does": {},
}
