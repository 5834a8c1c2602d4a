// Package services – QuizService
//
// This file implements the scripted style quiz. The quiz is a small state
// machine with four steps (ambience, family, pets, storage) driven by a
// declarative table; advancing past the last step synthesizes a style
// recommendation from the collected answers.
//
// The terminal step is the only expensive transition: it calls the model
// once, so it is guarded by a conditional idempotency insert. Two concurrent
// answers to step 4 race on the unique (session_id, key) index and the loser
// returns the winner's persisted result instead of recomputing.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/assist"
	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/llm"
	"github.com/homestudio-ai/design-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	quizFirstStep = 1
	quizLastStep  = 4

	// quizResultKey keys the step-4 idempotency record within a session.
	quizResultKey = "quiz:step:4"

	// Synthesis generation parameters. Lower temperature than the free-form
	// assistant: the output must stay close to the requested JSON shape.
	quizTemperature = 0.7
	quizMaxTokens   = 2000
)

// quizChoice is one selectable option of a quiz question.
type quizChoice struct {
	ID   string
	Text string
	Icon string
}

// quizStep is one row of the quiz script: the prompt shown after answering
// the previous step and the choices offered.
type quizStep struct {
	Prompt  string
	Field   string // preference key the step's answer is recorded under
	Choices []quizChoice
}

// quizScript drives the whole flow. Answering step N returns the question of
// step N+1; answering the last step triggers synthesis.
var quizScript = map[int]quizStep{
	1: {
		Prompt: "让我们通过几个简单的问题，找到最适合你的装修风格！\n\n首先，你喜欢家里整体氛围是：",
		Field:  "ambience",
		Choices: []quizChoice{
			{ID: "bright", Text: "☀️ 明亮通透，阳光充足", Icon: "☀️"},
			{ID: "warm", Text: "🕯️ 温馨舒适，暖色调", Icon: "🕯️"},
			{ID: "minimal", Text: "⚪ 简约干净，少即是多", Icon: "⚪"},
			{ID: "luxury", Text: "✨ 精致奢华，品质感", Icon: "✨"},
		},
	},
	2: {
		Prompt: "好的！接下来，您的家庭成员构成是？",
		Field:  "family",
		Choices: []quizChoice{
			{ID: "couple", Text: "💑 新婚夫妻/情侣", Icon: "💑"},
			{ID: "family3", Text: "👨‍👩‍👦 三口之家", Icon: "👨‍👩‍👦"},
			{ID: "family4", Text: "👨‍👩‍👧‍👦 四口之家及以上", Icon: "👨‍👩‍👧‍👦"},
			{ID: "multigen", Text: "👨‍👩‍👧‍👦👴👵 三代同堂", Icon: "👨‍👩‍👧‍👦👴👵"},
		},
	},
	3: {
		Prompt: "家里有养宠物吗？",
		Field:  "pets",
		Choices: []quizChoice{
			{ID: "dog", Text: "🐕 有狗狗", Icon: "🐕"},
			{ID: "cat", Text: "🐈 有猫咪", Icon: "🐈"},
			{ID: "other", Text: "🐠 其他宠物", Icon: "🐠"},
			{ID: "none", Text: "🚫 没有宠物", Icon: "🚫"},
		},
	},
	4: {
		Prompt: "您对收纳空间的需求程度？",
		Field:  "storage",
		Choices: []quizChoice{
			{ID: "minimal", Text: "📦 断舍离，东西少", Icon: "📦"},
			{ID: "normal", Text: "🗄️ 普通需求", Icon: "🗄️"},
			{ID: "lots", Text: "📚 物品较多，需要大量收纳", Icon: "📚"},
			{ID: "hoarder", Text: "🏚️ 囤货爱好者", Icon: "🏚️"},
		},
	},
}

// quizQuestionMetadata renders a script step into the wire metadata shape the
// frontend renders: {"step": n, "suggestions": [{id,text,icon}...]}.
func quizQuestionMetadata(step int) domain.JSONMap {
	sc := quizScript[step]
	suggestions := make([]any, 0, len(sc.Choices))
	for _, c := range sc.Choices {
		suggestions = append(suggestions, map[string]any{
			"id":   c.ID,
			"text": c.Text,
			"icon": c.Icon,
		})
	}
	return domain.JSONMap{
		"step":        step,
		"suggestions": suggestions,
	}
}

// QuizAnswer is one submitted choice.
type QuizAnswer struct {
	Step   int
	Option string
}

// QuizService runs the guided style quiz and the terminal recommendation
// synthesis.
type QuizService struct {
	DB    *gorm.DB
	Model llm.Completer

	// ResultTTL bounds how long a synthesized result short-circuits repeated
	// step-4 answers.
	ResultTTL time.Duration
}

// NewQuizService constructs a QuizService with a 24h result window.
func NewQuizService(db *gorm.DB, model llm.Completer) *QuizService {
	return &QuizService{DB: db, Model: model, ResultTTL: 24 * time.Hour}
}

// Start opens a fresh style-quiz session under projectID and persists the
// first question. Returns the session and the question message.
func (s *QuizService) Start(ctx context.Context, projectID string) (*domain.ChatSession, *domain.ChatMessage, error) {
	if _, err := repo.GetProject(ctx, s.DB, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, err
	}

	sess, err := repo.CreateSession(ctx, s.DB, projectID, domain.SessionStyleQuiz, quizTitle)
	if err != nil {
		return nil, nil, err
	}
	msg, err := repo.AppendMessage(s.DB.WithContext(ctx), sess.ID,
		domain.RoleAssistant, quizScript[quizFirstStep].Prompt,
		domain.TypeQuiz, quizQuestionMetadata(quizFirstStep))
	if err != nil {
		return nil, nil, err
	}
	return sess, msg, nil
}

// Advance records one answer and returns the next question, or the
// synthesized result after the final step.
//
// The answer echo is persisted before step validation so that an out-of-range
// step still leaves an audit trail of what the client sent.
func (s *QuizService) Advance(ctx context.Context, sessionID string, ans QuizAnswer) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/QuizService")
	ctx, span := tr.Start(ctx, "Advance")
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("quiz.step", ans.Step),
	)
	defer span.End()

	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.Kind != domain.SessionStyleQuiz {
		return nil, ErrWrongSessionKind
	}

	_, err = repo.AppendMessage(s.DB.WithContext(ctx), sessionID,
		domain.RoleUser, "选择了: "+ans.Option, domain.TypeQuizAnswer,
		domain.JSONMap{"step": ans.Step, "answer": ans.Option})
	if err != nil {
		return nil, err
	}

	if ans.Step < quizFirstStep || ans.Step > quizLastStep {
		return nil, ErrInvalidQuizStep
	}

	if ans.Step < quizLastStep {
		next := ans.Step + 1
		return repo.AppendMessage(s.DB.WithContext(ctx), sessionID,
			domain.RoleAssistant, quizScript[next].Prompt,
			domain.TypeQuiz, quizQuestionMetadata(next))
	}
	return s.finish(ctx, sess)
}

// finish runs the terminal synthesis exactly once per session. The fast path
// returns a previously stored result; otherwise the result is computed,
// persisted, and claimed via a conditional idempotency insert. Losing the
// insert race means another request finished first, so its message is
// returned.
func (s *QuizService) finish(ctx context.Context, sess *domain.ChatSession) (*domain.ChatMessage, error) {
	if rec, err := repo.GetIdempotency(ctx, s.DB, sess.ID, quizResultKey, time.Now().UTC()); err == nil {
		return repo.GetMessage(s.DB.WithContext(ctx), rec.MessageID)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	prefs, err := s.collectPreferences(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	result := s.synthesize(ctx, prefs)

	msg, err := repo.AppendMessage(s.DB.WithContext(ctx), sess.ID,
		domain.RoleAssistant, formatQuizResult(result),
		domain.TypeQuizResult, domain.JSONMap{
			"result":      result,
			"next_action": "开始设计",
		})
	if err != nil {
		return nil, err
	}

	if _, err := repo.CreateIdempotency(ctx, s.DB, sess.ID, quizResultKey, msg.ID, s.ResultTTL); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Another request claimed the result between our check and
			// insert. Serve the winner's message.
			rec, gerr := repo.GetIdempotency(ctx, s.DB, sess.ID, quizResultKey, time.Now().UTC())
			if gerr != nil {
				return nil, gerr
			}
			return repo.GetMessage(s.DB.WithContext(ctx), rec.MessageID)
		}
		return nil, err
	}

	// Best effort: the recommendation also lands on the project so later
	// design stages can read it without replaying the session.
	if err := repo.UpdateProjectStylePreferences(ctx, s.DB, sess.ProjectID, domain.JSONMap(result)); err != nil {
		return nil, err
	}
	return msg, nil
}

// collectPreferences rebuilds the preference map from the persisted answer
// echoes. A re-answered step overwrites the earlier value, so the latest
// choice wins.
func (s *QuizService) collectPreferences(ctx context.Context, sessionID string) (map[string]string, error) {
	answers, err := repo.ListMessagesByType(s.DB.WithContext(ctx), sessionID, domain.TypeQuizAnswer)
	if err != nil {
		return nil, err
	}
	prefs := make(map[string]string, quizLastStep)
	for _, a := range answers {
		step, ok := metadataStep(a.Metadata)
		if !ok {
			continue
		}
		sc, ok := quizScript[step]
		if !ok {
			continue
		}
		choice, _ := a.Metadata["answer"].(string)
		if choice == "" {
			continue
		}
		prefs[sc.Field] = choiceText(sc, choice)
	}
	return prefs, nil
}

// metadataStep reads the step out of quiz_answer metadata, tolerating the
// float64 that JSON round-tripping produces.
func metadataStep(md domain.JSONMap) (int, bool) {
	switch v := md["step"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// choiceText resolves a choice ID to its display text so the model sees
// "☀️ 明亮通透，阳光充足" rather than "bright". Unknown IDs pass through.
func choiceText(sc quizStep, id string) string {
	for _, c := range sc.Choices {
		if c.ID == id {
			return c.Text
		}
	}
	return id
}

// synthesize asks the model for a style recommendation and degrades in two
// layers: a reply that is not parseable JSON keeps the raw analysis text
// alongside a default style, and a failed call falls back to the static
// default. The caller always gets a usable result map.
func (s *QuizService) synthesize(ctx context.Context, prefs map[string]string) map[string]any {
	raw, err := s.Model.Complete(ctx, llm.StyleAnalysisMessages(prefs), quizTemperature, quizMaxTokens)
	if err != nil {
		return map[string]any{
			"recommended_styles": []any{"现代简约"},
			"style_reasoning":    "默认推荐",
		}
	}
	if result, ok := assist.ExtractJSON(raw); ok {
		return result
	}
	return map[string]any{
		"analysis_text":      raw,
		"recommended_styles": []any{"现代简约"},
		"style_reasoning":    "基于您的偏好推荐",
	}
}

// formatQuizResult renders the result map into the celebratory summary shown
// in the chat stream.
func formatQuizResult(result map[string]any) string {
	styles := make([]string, 0, 2)
	if list, ok := result["recommended_styles"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				styles = append(styles, s)
			}
		}
	}
	if len(styles) == 0 {
		styles = []string{"现代简约"}
	}
	reasoning, _ := result["style_reasoning"].(string)

	var b strings.Builder
	fmt.Fprintf(&b, "🎉 为您推荐：**%s**", strings.Join(styles, " + "))
	if reasoning != "" {
		b.WriteString("\n\n")
		b.WriteString(reasoning)
	}
	return b.String()
}
