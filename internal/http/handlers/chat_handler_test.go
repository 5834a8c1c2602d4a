package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/services"
)

func TestCreateSession(t *testing.T) {
	projectID := uuid.NewString()
	h := New(stubProjectSvc{}, stubSessionSvc{
		create: func(_ context.Context, gotProject, kind string) (*domain.ChatSession, error) {
			if gotProject != projectID || kind != domain.SessionStyleQuiz {
				t.Fatalf("project=%q kind=%q", gotProject, kind)
			}
			return &domain.ChatSession{ID: uuid.NewString(), ProjectID: gotProject, Kind: kind}, nil
		},
	}, stubAssistantSvc{}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	body := `{"kind":"style_quiz"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/"+projectID+"/sessions", bytes.NewBufferString(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestCreateSession_EmptyBodyAllowed(t *testing.T) {
	h := New(stubProjectSvc{}, stubSessionSvc{
		create: func(_ context.Context, projectID, kind string) (*domain.ChatSession, error) {
			if kind != "" {
				t.Fatalf("kind = %q", kind)
			}
			return &domain.ChatSession{ID: uuid.NewString(), ProjectID: projectID}, nil
		},
	}, stubAssistantSvc{}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewString()+"/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListSessions_ProjectNotFound(t *testing.T) {
	h := New(stubProjectSvc{}, stubSessionSvc{
		list: func(context.Context, string) ([]domain.ChatSession, error) {
			return nil, services.ErrProjectNotFound
		},
	}, stubAssistantSvc{}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString()+"/sessions", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListMessages(t *testing.T) {
	h := New(stubProjectSvc{}, stubSessionSvc{
		page: func(_ context.Context, sessionID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
			return []domain.ChatMessage{{ID: "m1", SessionID: sessionID, Role: domain.RoleUser, Content: "hi"}}, 1, nil
		},
	}, stubAssistantSvc{}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+uuid.NewString()+"/messages", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListMessagesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 1 || resp.Pagination.Total != 1 || resp.Pagination.HasNext {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPostMessage(t *testing.T) {
	h := New(stubProjectSvc{}, stubSessionSvc{}, stubAssistantSvc{
		respond: func(_ context.Context, sessionID, userText string) (*domain.ChatMessage, error) {
			// The handler must normalize newlines before the service sees them.
			if userText != "你好\n\n帮我看看" {
				t.Fatalf("userText = %q", userText)
			}
			return &domain.ChatMessage{ID: "m1", SessionID: sessionID, Role: domain.RoleAssistant, Type: domain.TypeText, Content: "好的"}, nil
		},
	}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	body := `{"content":"  你好\r\n\r\n\r\n帮我看看  "}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.NewString()+"/messages", bytes.NewBufferString(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp PostMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == nil || resp.Message.Content != "好的" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPostMessage_BadInput(t *testing.T) {
	h := New(stubProjectSvc{}, stubSessionSvc{}, stubAssistantSvc{
		respond: func(context.Context, string, string) (*domain.ChatMessage, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}, stubQuizSvc{}, stubMaterialSvc{})
	r := newTestRouter(h)

	// invalid UUID
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/not-a-uuid/messages", bytes.NewBufferString(`{"content":"x"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid uuid -> %d", w.Code)
	}

	// binding error (missing content)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.NewString()+"/messages", bytes.NewBufferString(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing content -> %d", w.Code)
	}

	// whitespace-only content
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.NewString()+"/messages", bytes.NewBufferString(`{"content":"  \r\n  "}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank content -> %d", w.Code)
	}
}

func TestPostMessage_ServiceErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		{services.ErrSessionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrWrongSessionKind, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrTooLong, http.StatusBadRequest, ErrCodeBadRequest},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeAnswerFailed},
	}
	for _, tc := range cases {
		h := New(stubProjectSvc{}, stubSessionSvc{}, stubAssistantSvc{
			respond: func(context.Context, string, string) (*domain.ChatMessage, error) {
				return nil, tc.err
			},
		}, stubQuizSvc{}, stubMaterialSvc{})
		r := newTestRouter(h)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.NewString()+"/messages", bytes.NewBufferString(`{"content":"hi"}`)))
		if w.Code != tc.wantCode {
			t.Errorf("%v -> %d; want %d", tc.err, w.Code, tc.wantCode)
		}
		var e ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &e)
		if e.Code != tc.wantBody {
			t.Errorf("%v -> code %q; want %q", tc.err, e.Code, tc.wantBody)
		}
	}
}
