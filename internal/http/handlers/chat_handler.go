// Recipe-chat HTTP handlers.
//
// This file exposes conversation threads, saved exchanges, the raw provider
// proxies, and the ask-and-save flow:
//   - POST   /api/chat/titles          GET /api/chat/titles
//   - GET    /api/chat/titles/:id      PUT /api/chat/titles/:id     DELETE /api/chat/titles/:id
//   - GET    /api/chat/history?title_id=
//   - GET    /api/chat/history/:id     DELETE /api/chat/history/:id
//   - POST   /api/chat/groq            POST /api/chat/gemini        (stateless proxies)
//   - POST   /api/chat/ask-and-save    (answer + persist the exchange)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/llm"
	"github.com/pirinku/go-recipe-backend/internal/services"
)

// CreateTitleRequest is the JSON payload for creating a thread.
type CreateTitleRequest struct {
	Title string `json:"title" example:"Weeknight dinners"`
}

// RenameTitleRequest is the JSON payload for renaming a thread.
type RenameTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// CompleteRequest is the JSON payload of the raw provider proxies.
type CompleteRequest struct {
	Messages []llm.Message `json:"messages" binding:"required"`
}

// CompleteResponse is the payload returned by the raw provider proxies.
type CompleteResponse struct {
	Response string `json:"response"`
}

// AskRequest is the JSON payload of the ask-and-save endpoint. An empty
// TitleID starts a new conversation; Provider defaults to groq.
type AskRequest struct {
	Message  string `json:"message"  binding:"required"`
	TitleID  string `json:"title_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Provider string `json:"provider" example:"groq"`
}

// CreateTitle godoc
// @ID          createTitle
// @Summary     Create a conversation thread
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateTitleRequest  true  "Optional title"
// @Success     201  {object}  handlers.Response
// @Router      /chat/titles [post]
func (h *Handlers) CreateTitle(c *gin.Context) {
	var req CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	t, err := h.chat.CreateTitle(c.Request.Context(), userID(c), req.Title)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "conversation created", t)
}

// ListTitles godoc
// @ID          listTitles
// @Summary     List conversation threads
// @Tags        Chat
// @Produce     json
// @Success     200  {object}  handlers.Response
// @Router      /chat/titles [get]
func (h *Handlers) ListTitles(c *gin.Context) {
	titles, err := h.chat.ListTitles(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "conversations retrieved", titles)
}

// GetTitle returns one thread together with its saved exchanges.
//
// @ID      getTitle
// @Summary Get a thread with its history
// @Tags    Chat
// @Produce json
// @Param   id  path  string  true  "Title ID"
// @Success 200 {object} handlers.Response
// @Failure 404 {object} handlers.Response "Conversation not found"
// @Router  /chat/titles/{id} [get]
func (h *Handlers) GetTitle(c *gin.Context) {
	histories, err := h.chat.ListHistories(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "conversation retrieved", gin.H{"histories": histories})
}

// RenameTitle godoc
// @ID          renameTitle
// @Summary     Rename a thread
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Title ID"
// @Param       body  body  handlers.RenameTitleRequest  true  "New title"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Conversation not found"
// @Router      /chat/titles/{id} [put]
func (h *Handlers) RenameTitle(c *gin.Context) {
	var req RenameTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}

	if err := h.chat.RenameTitle(c.Request.Context(), userID(c), c.Param("id"), req.Title); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "conversation renamed", nil)
}

// DeleteTitle godoc
// @ID          deleteTitle
// @Summary     Delete a thread and its history
// @Tags        Chat
// @Produce     json
// @Param       id  path  string  true  "Title ID"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Conversation not found"
// @Router      /chat/titles/{id} [delete]
func (h *Handlers) DeleteTitle(c *gin.Context) {
	if err := h.chat.DeleteTitle(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "conversation deleted", nil)
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List a thread's saved exchanges
// @Tags        Chat
// @Produce     json
// @Param       title_id  query  string  true  "Title ID"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Conversation not found"
// @Router      /chat/history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	titleID := strings.TrimSpace(c.Query("title_id"))
	if titleID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title_id query parameter is required")
		return
	}

	histories, err := h.chat.ListHistories(c.Request.Context(), userID(c), titleID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "history retrieved", histories)
}

// GetHistory returns a single saved exchange with its turns.
//
// @ID      getHistory
// @Summary Get one saved exchange
// @Tags    Chat
// @Produce json
// @Param   id  path  string  true  "History ID"
// @Success 200 {object} handlers.Response
// @Failure 404 {object} handlers.Response "History not found"
// @Router  /chat/history/{id} [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	hist, err := h.chat.GetHistory(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "history retrieved", hist)
}

// DeleteHistory removes a single saved exchange.
//
// @ID      deleteHistory
// @Summary Delete one saved exchange
// @Tags    Chat
// @Produce json
// @Param   id  path  string  true  "History ID"
// @Success 200 {object} handlers.Response
// @Failure 404 {object} handlers.Response "History not found"
// @Router  /chat/history/{id} [delete]
func (h *Handlers) DeleteHistory(c *gin.Context) {
	if err := h.chat.DeleteHistory(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "history deleted", nil)
}

// CompleteGroq godoc
// @ID          completeGroq
// @Summary     Raw Groq proxy
// @Description Forwards the message list to Groq without persisting anything.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CompleteRequest  true  "Message list"
// @Success     200  {object}  handlers.Response{data=handlers.CompleteResponse}
// @Failure     503  {object}  handlers.Response  "Provider not configured"
// @Router      /chat/groq [post]
func (h *Handlers) CompleteGroq(c *gin.Context) {
	h.complete(c, services.ProviderGroq)
}

// CompleteGemini godoc
// @ID          completeGemini
// @Summary     Raw Gemini proxy
// @Description Forwards the message list to Gemini without persisting anything.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CompleteRequest  true  "Message list"
// @Success     200  {object}  handlers.Response{data=handlers.CompleteResponse}
// @Failure     503  {object}  handlers.Response  "Provider not configured"
// @Router      /chat/gemini [post]
func (h *Handlers) CompleteGemini(c *gin.Context) {
	h.complete(c, services.ProviderGemini)
}

func (h *Handlers) complete(c *gin.Context, provider string) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "messages array is required")
		return
	}

	answer, err := h.chat.Complete(c.Request.Context(), provider, req.Messages)
	if err != nil {
		h.completionError(c, err)
		return
	}
	ok(c, http.StatusOK, "completion generated", CompleteResponse{Response: answer})
}

// AskAndSave godoc
// @ID          askAndSave
// @Summary     Ask the assistant and persist the exchange
// @Description Answers the message with the chosen provider (default groq) and saves the user/assistant pair. An empty title_id starts a new thread whose title is generated from the message.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.AskRequest  true  "Message, optional thread, optional provider"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Conversation not found"
// @Failure     503  {object}  handlers.Response  "Provider not configured"
// @Router      /chat/ask-and-save [post]
func (h *Handlers) AskAndSave(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}

	res, err := h.chat.AskAndSave(c.Request.Context(), userID(c), strings.TrimSpace(req.TitleID), req.Message, strings.TrimSpace(req.Provider))
	if err != nil {
		h.completionError(c, err)
		return
	}
	ok(c, http.StatusOK, "answer generated", res)
}

// completionError maps provider failures that failFromErr does not recognize
// onto the answer-failed code instead of a generic 500.
func (h *Handlers) completionError(c *gin.Context, err error) {
	if errors.Is(err, llm.ErrEmptyCompletion) {
		fail(c, http.StatusBadGateway, ErrCodeAnswerFailed, "assistant returned no answer")
		return
	}
	failFromErr(c, err)
}
