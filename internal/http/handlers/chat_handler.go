// Chat HTTP handlers.
//
// This file exposes REST endpoints for chat sessions and messages:
//   - POST /projects/{id}/sessions       (open a design-assistant session)
//   - GET  /projects/{id}/sessions       (list a project's sessions)
//   - GET  /sessions/{id}/messages       (paginated history)
//   - POST /sessions/{id}/messages       (send a message, get assistant reply)
//
// It also defines the Handlers aggregate that groups all endpoint
// implementations and the service interfaces they consume.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/repo"
	"github.com/homestudio-ai/design-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SessionService defines session lifecycle and history operations.
type SessionService interface {
	Create(ctx context.Context, projectID, kind string) (*domain.ChatSession, error)
	List(ctx context.Context, projectID string) ([]domain.ChatSession, error)
	ListMessagesPage(ctx context.Context, sessionID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
}

// AssistantService defines the conversational turn operation.
type AssistantService interface {
	Respond(ctx context.Context, sessionID, userText string) (*domain.ChatMessage, error)
}

// QuizService defines the guided style-quiz operations.
type QuizService interface {
	Start(ctx context.Context, projectID string) (*domain.ChatSession, *domain.ChatMessage, error)
	Advance(ctx context.Context, sessionID string, ans services.QuizAnswer) (*domain.ChatMessage, error)
}

// MaterialService defines catalog and budget-planning reads.
type MaterialService interface {
	Search(ctx context.Context, f repo.MaterialFilter, page, pageSize int) ([]domain.Material, error)
	Categories() []services.Category
	BudgetOptions(totalBudget, areaSqm float64) (map[string]services.BudgetTier, error)
	Alternatives(ctx context.Context, materialID string, limit int) ([]domain.Material, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for projects, sessions, the assistant, the
// quiz, and the material catalog. It depends on abstract service interfaces
// to keep transport concerns separate from business logic.
type Handlers struct {
	projectSvc   ProjectService
	sessionSvc   SessionService
	assistantSvc AssistantService
	quizSvc      QuizService
	materialSvc  MaterialService
}

// New constructs a Handlers instance bound to the given services.
func New(projectSvc ProjectService, sessionSvc SessionService, assistantSvc AssistantService, quizSvc QuizService, materialSvc MaterialService) *Handlers {
	return &Handlers{
		projectSvc:   projectSvc,
		sessionSvc:   sessionSvc,
		assistantSvc: assistantSvc,
		quizSvc:      quizSvc,
		materialSvc:  materialSvc,
	}
}

//
// DTOs
//

// CreateSessionRequest is the JSON payload for opening a session.
type CreateSessionRequest struct {
	// Kind selects the session flavor; defaults to design_assistant.
	Kind string `json:"kind" example:"design_assistant"`
}

// PostMessageRequest is the JSON payload for sending a user message.
type PostMessageRequest struct {
	// Content is the user prompt. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"我家89平，预算20万，适合什么风格？"`
}

// PostMessageResponse wraps the assistant reply created for a user message.
type PostMessageResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// ListSessionsResponse wraps a project's sessions.
type ListSessionsResponse struct {
	Sessions []domain.ChatSession `json:"sessions"`
}

// ListMessagesResponse contains a page of messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
// CRLF/CR become LF, runs of 3+ LFs collapse to two, surrounding whitespace
// is trimmed.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

//
// Handlers
//

// CreateSession godoc
// @ID          createSession
// @Summary     Open a chat session
// @Description Creates a design-assistant session under the given project.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Project ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CreateSessionRequest  false  "Session options"
// @Success     201  {object}  domain.ChatSession
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id}/sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	projectID, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	var req CreateSessionRequest
	// Body is optional; ignore bind errors from an empty body.
	_ = c.ShouldBindJSON(&req)

	sess, err := h.sessionSvc.Create(c.Request.Context(), projectID, req.Kind)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, sess)
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List a project's chat sessions
// @Tags        Sessions
// @Produce     json
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.ListSessionsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id}/sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	projectID, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	items, err := h.sessionSvc.List(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSessionsResponse{Sessions: items})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a session
// @Description Returns a paginated, chronologically ordered message list.
// @Tags        Messages
// @Produce     json
// @Param       id         path   string  true  "Session ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"        minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"     minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Router      /sessions/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	sessionID, valid := mustUUID(c, "id", "session")
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.sessionSvc.ListMessagesPage(c.Request.Context(), sessionID, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message and get the assistant reply
// @Description Appends the user message and returns the generated assistant
// @Description message, typed and carrying structured metadata when available.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.PostMessageRequest  true  "User message payload"
// @Success     200  {object}  handlers.PostMessageResponse  "Assistant reply"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	sessionID, valid := mustUUID(c, "id", "session")
	if !valid {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	content := sanitizeContent(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	m, err := h.assistantSvc.Respond(c.Request.Context(), sessionID, content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
		case errors.Is(err, services.ErrWrongSessionKind):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "not an assistant session")
		case errors.Is(err, services.ErrEmptyPrompt):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content too long")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}
