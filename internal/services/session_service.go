// Package services – SessionService
//
// This file implements SessionService, which manages the lifecycle of chat
// sessions within a project and exposes paginated history reads. Sessions are
// cheap rows: a session is created once per assistant thread or quiz run and
// only ever grows by appended messages.
//
// Title handling follows the same placeholder/auto-title approach as the
// assistant service: sessions start with a default title and receive a
// generated one from the first user prompt.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/repo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// defaultTitle is the placeholder a fresh session carries until
	// auto-titling replaces it.
	defaultTitle = "新对话"
	// quizTitle is the fixed label for style-quiz sessions.
	quizTitle = "风格测试"
)

// SessionService provides session-level operations: creating sessions for a
// project and reading conversation history.
type SessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// TitleMaxLen caps generated titles by rune length.
	TitleMaxLen int
	// TitleLocale selects the casing locale for Latin-script titles.
	TitleLocale language.Tag
}

// NewSessionService constructs a SessionService with sane title defaults.
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{
		DB:          db,
		TitleMaxLen: 60,
		TitleLocale: language.Und,
	}
}

// Create starts a new session of the given kind under projectID. The project
// must exist; otherwise ErrProjectNotFound is returned.
func (s *SessionService) Create(ctx context.Context, projectID, kind string) (*domain.ChatSession, error) {
	if kind != domain.SessionDesignAssistant && kind != domain.SessionStyleQuiz {
		kind = domain.SessionDesignAssistant
	}
	if _, err := repo.GetProject(ctx, s.DB, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	title := defaultTitle
	if kind == domain.SessionStyleQuiz {
		title = quizTitle
	}
	return repo.CreateSession(ctx, s.DB, projectID, kind, title)
}

// Get fetches a session by ID, mapping a missing row to ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns all sessions of a project, most recent first.
func (s *SessionService) List(ctx context.Context, projectID string) ([]domain.ChatSession, error) {
	if _, err := repo.GetProject(ctx, s.DB, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return repo.ListSessions(ctx, s.DB, projectID)
}

// ListMessagesPage returns paginated history for a session in chronological
// order. Defaults are applied for invalid page/pageSize.
func (s *SessionService) ListMessagesPage(ctx context.Context, sessionID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSessionNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountMessages(s.DB.WithContext(ctx), sessionID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ChatMessage{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), sessionID, offset, pageSize)
	return items, total, err
}

// --- Auto-title helpers (shared with AssistantService) ---

// shouldAutoTitle reports whether the current title is a placeholder.
func shouldAutoTitle(current string) bool {
	t := strings.TrimSpace(current)
	return t == "" || t == defaultTitle
}

// titleWordRE extracts Unicode letters with optional trailing digits.
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// titleStopWords is a minimal stop-word set for compact titles. Chinese
// prompts tokenize as long runs, so the list only prunes Latin filler.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
}

// generateTitle derives a concise session title from the first prompt.
func generateTitle(prompt string, locale language.Tag, maxLen int) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ""
	}
	toks := titleWordRE.FindAllString(strings.ToLower(prompt), -1)
	if len(toks) == 0 {
		return ""
	}

	if locale == language.Und {
		locale = language.Chinese
	}
	caser := cases.Title(locale)
	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	if len(out) == 0 {
		return ""
	}
	title := strings.Join(out, " ")
	if maxLen <= 0 {
		maxLen = 60
	}
	if utf8.RuneCountInString(title) > maxLen {
		title = string([]rune(title)[:maxLen])
	}
	return title
}
