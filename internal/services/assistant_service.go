// Package services – AssistantService
//
// This file implements the conversation orchestrator of the design
// assistant. One call handles one turn: it persists the user message, loads
// a rolling context window, asks the model for a reply, classifies the turn
// to pick the message type and structured metadata, and persists the
// assistant reply.
//
// The model is tried exactly once per turn. Any failure (network, timeout,
// HTTP error, empty body) switches the turn to the deterministic static
// responder, so the user always receives a reply and upstream outages never
// surface as request errors.
//
// Observability: the public method is OpenTelemetry-instrumented; spans
// include the session identifier and the fallback decision.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/assist"
	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/llm"
	"github.com/homestudio-ai/design-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
)

// Assistant generation parameters. Temperature is deliberately high: the
// assistant brainstorms design directions rather than extracting facts.
const (
	assistantTemperature = 0.8
	assistantMaxTokens   = 2000
	historyWindow        = 10
)

// AssistantService orchestrates free-form design-assistant turns.
type AssistantService struct {
	DB    *gorm.DB
	Model llm.Completer

	// MaxPromptRunes guards against oversized prompts; 0 disables the check.
	MaxPromptRunes int

	// Title generation config for the session auto-title.
	TitleLocale language.Tag
	TitleMaxLen int
}

// Respond handles one user turn and returns the persisted assistant reply.
//
// Algorithm:
//  1. validate the prompt and the session,
//  2. persist the user message,
//  3. load the last 10 messages as model context (the new user turn is the
//     tail of that window, so it is not appended twice),
//  4. call the model once at temperature 0.8; on failure use the static
//     responder,
//  5. infer the message type from the user text's category and attach any
//     structured payload recovered from the model reply (an object for
//     style/budget turns, a list for material turns),
//  6. persist and return the assistant message.
func (s *AssistantService) Respond(ctx context.Context, sessionID, userText string) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "Respond",
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(userText) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	// Free-form turns belong to assistant sessions only; quiz transcripts
	// stay scripted.
	if sess.Kind != domain.SessionDesignAssistant {
		return nil, ErrWrongSessionKind
	}

	if _, err := repo.AppendMessage(s.DB.WithContext(ctx), sessionID, domain.RoleUser, userText, domain.TypeText, nil); err != nil {
		return nil, err
	}

	history, err := repo.ListRecentMessages(s.DB.WithContext(ctx), sessionID, historyWindow)
	if err != nil {
		return nil, err
	}

	reply := s.generate(ctx, span, userText, history)

	// Persist the assistant turn and maybe auto-title in one transaction.
	var out *domain.ChatMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.AppendMessage(tx, sessionID, domain.RoleAssistant, reply.Content, reply.Type, domain.JSONMap(reply.Metadata))
		if err != nil {
			return err
		}
		out = m

		if shouldAutoTitle(sess.Title) {
			if gen := generateTitle(userText, s.TitleLocale, s.TitleMaxLen); gen != "" {
				if uerr := tx.Model(&domain.ChatSession{}).Where("id = ?", sessionID).Update("title", gen).Error; uerr == nil {
					sess.Title = gen
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// generate produces the assistant reply for one turn: model first, static
// responder on any model failure. The model call runs outside any database
// transaction so a slow upstream never holds a connection.
func (s *AssistantService) generate(ctx context.Context, span trace.Span, userText string, history []domain.ChatMessage) assist.Reply {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: domain.RoleSystem, Content: llm.AssistantSystemPrompt})
	for _, h := range history {
		msgs = append(msgs, llm.Message{Role: h.Role, Content: h.Content})
	}

	raw, err := s.Model.Complete(ctx, msgs, assistantTemperature, assistantMaxTokens)
	if err != nil {
		span.SetAttributes(attribute.Bool("assistant.fallback", true))
		return assist.StaticReply(userText)
	}
	span.SetAttributes(attribute.Bool("assistant.fallback", false))

	reply := assist.Reply{Content: raw, Type: domain.TypeText}
	switch cat := assist.Classify(userText); {
	case cat == assist.CategoryStyle || cat == assist.CategoryBudget:
		reply.Type = domain.TypeSuggestion
		if payload, ok := assist.ExtractJSON(raw); ok {
			reply.Metadata = payload
		}
	case cat == assist.CategoryMaterial:
		reply.Type = domain.TypeMaterialSuggestion
		if list, ok := assist.ExtractJSONList(raw); ok {
			reply.Metadata = map[string]any{"materials": list}
		}
	case assist.IsQuestion(userText):
		reply.Type = domain.TypeAnswer
	}
	return reply
}
