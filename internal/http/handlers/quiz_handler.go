// Style-quiz HTTP handlers.
//
// This file exposes the guided-quiz endpoints:
//   - POST /projects/{id}/style-quiz    (start a quiz, get the first question)
//   - POST /sessions/{id}/quiz-answer   (submit an answer, get the next
//     question or the synthesized result)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/services"
)

// QuizAnswerRequest is the JSON payload for submitting one quiz choice.
type QuizAnswerRequest struct {
	// Step is the question being answered (1-4).
	Step int `json:"step" binding:"required" example:"2"`
	// Option is the selected choice ID.
	Option string `json:"option" binding:"required,min=1" example:"family3"`
}

// StartQuizResponse pairs the created quiz session with its first question.
type StartQuizResponse struct {
	Session *domain.ChatSession `json:"session"`
	Message *domain.ChatMessage `json:"message"`
}

// QuizAnswerResponse wraps the message produced by an answer: either the
// next scripted question or the terminal quiz_result.
type QuizAnswerResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// StartQuiz godoc
// @ID          startQuiz
// @Summary     Start a style quiz
// @Description Opens a style_quiz session under the project and returns the
// @Description first question with its choices.
// @Tags        Quiz
// @Produce     json
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
// @Success     201  {object}  handlers.StartQuizResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Project not found"
// @Router      /projects/{id}/style-quiz [post]
func (h *Handlers) StartQuiz(c *gin.Context) {
	projectID, valid := mustUUID(c, "id", "project")
	if !valid {
		return
	}

	sess, msg, err := h.quizSvc.Start(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeQuizFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, StartQuizResponse{Session: sess, Message: msg})
}

// AnswerQuiz godoc
// @ID          answerQuiz
// @Summary     Submit a quiz answer
// @Description Records the choice and returns the next question, or the
// @Description synthesized style recommendation after the final step.
// @Description Repeated answers to the final step return the same result.
// @Tags        Quiz
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.QuizAnswerRequest  true  "Selected choice"
// @Success     200  {object}  handlers.QuizAnswerResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or invalid step"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Router      /sessions/{id}/quiz-answer [post]
func (h *Handlers) AnswerQuiz(c *gin.Context) {
	sessionID, valid := mustUUID(c, "id", "session")
	if !valid {
		return
	}

	var req QuizAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "step and option required")
		return
	}

	msg, err := h.quizSvc.Advance(c.Request.Context(), sessionID, services.QuizAnswer{
		Step:   req.Step,
		Option: req.Option,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
		case errors.Is(err, services.ErrWrongSessionKind):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "not a style-quiz session")
		case errors.Is(err, services.ErrInvalidQuizStep):
			fail(c, http.StatusBadRequest, ErrCodeInvalidQuizStep, "quiz step must be between 1 and 4")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeQuizFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, QuizAnswerResponse{Message: msg})
}
