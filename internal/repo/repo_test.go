package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB) *domain.ChatSession {
	t.Helper()
	p, err := CreateProject(context.Background(), db, &domain.Project{Name: "repo test"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	s, err := CreateSession(context.Background(), db, p.ID, domain.SessionDesignAssistant, "新对话")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return s
}

func TestMessageOrderingAndWindows(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db)

	for i := 0; i < 6; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		if _, err := AppendMessage(db, sess.ID, role, fmt.Sprintf("m%d", i), domain.TypeText, nil); err != nil {
			t.Fatalf("AppendMessage #%d: %v", i, err)
		}
	}

	all, err := ListMessages(db, sess.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(all) != 6 || all[0].Content != "m0" || all[5].Content != "m5" {
		t.Fatalf("order = %+v", all)
	}

	// The recent window is the tail, returned in chronological order.
	recent, err := ListRecentMessages(db, sess.ID, 3)
	if err != nil {
		t.Fatalf("ListRecentMessages: %v", err)
	}
	if len(recent) != 3 || recent[0].Content != "m3" || recent[2].Content != "m5" {
		t.Fatalf("recent = %+v", recent)
	}

	page, err := ListMessagesPage(db, sess.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListMessagesPage: %v", err)
	}
	if len(page) != 2 || page[0].Content != "m2" || page[1].Content != "m3" {
		t.Fatalf("page = %+v", page)
	}

	total, err := CountMessages(db, sess.ID)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if total != 6 {
		t.Fatalf("count = %d", total)
	}
}

func TestListMessagesByType(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db)

	if _, err := AppendMessage(db, sess.ID, domain.RoleAssistant, "q1", domain.TypeQuiz, nil); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := AppendMessage(db, sess.ID, domain.RoleUser, "选择了: bright", domain.TypeQuizAnswer, domain.JSONMap{"step": 1, "answer": "bright"}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := AppendMessage(db, sess.ID, domain.RoleUser, "选择了: family3", domain.TypeQuizAnswer, domain.JSONMap{"step": 2, "answer": "family3"}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	got, err := ListMessagesByType(db, sess.ID, domain.TypeQuizAnswer)
	if err != nil {
		t.Fatalf("ListMessagesByType: %v", err)
	}
	if len(got) != 2 || got[0].Content != "选择了: bright" {
		t.Fatalf("answers = %+v", got)
	}
	// Metadata survives the JSON round-trip with numeric steps as float64.
	if got[1].Metadata["step"] != float64(2) || got[1].Metadata["answer"] != "family3" {
		t.Fatalf("metadata = %v", got[1].Metadata)
	}
}

func TestIdempotency_FirstWriterWins(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db)
	ctx := context.Background()

	if _, err := GetIdempotency(ctx, db, sess.ID, "quiz:step:4", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err = %v", err)
	}

	rec, err := CreateIdempotency(ctx, db, sess.ID, "quiz:step:4", "msg-1", time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.MessageID != "msg-1" {
		t.Fatalf("record = %+v", rec)
	}

	if _, err := CreateIdempotency(ctx, db, sess.ID, "quiz:step:4", "msg-2", time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := GetIdempotency(ctx, db, sess.ID, "quiz:step:4", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.MessageID != "msg-1" {
		t.Fatalf("winner = %+v", got)
	}

	// A different key under the same session is independent.
	if _, err := CreateIdempotency(ctx, db, sess.ID, "quiz:step:other", "msg-3", time.Hour); err != nil {
		t.Fatalf("CreateIdempotency other key: %v", err)
	}
}

func TestIdempotency_Expiry(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, sess.ID, "quiz:step:4", "msg-1", time.Millisecond); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, sess.ID, "quiz:step:4", time.Now().UTC().Add(time.Second)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record err = %v", err)
	}
}

func TestSessionTitleUpdate(t *testing.T) {
	db := openTestDB(t)
	sess := seedSession(t, db)
	ctx := context.Background()

	if err := UpdateSessionTitle(ctx, db, sess.ID, "儿童房设计"); err != nil {
		t.Fatalf("UpdateSessionTitle: %v", err)
	}
	got, err := GetSession(ctx, db, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Title != "儿童房设计" {
		t.Fatalf("title = %q", got.Title)
	}

	if err := UpdateSessionTitle(ctx, db, "ab000000-0000-0000-0000-000000000000", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session err = %v", err)
	}
}

func TestProjectStatusUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p, err := CreateProject(ctx, db, &domain.Project{Name: "状态流转"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if err := UpdateProjectStatus(ctx, db, p.ID, domain.StatusProcessing, 42.5); err != nil {
		t.Fatalf("UpdateProjectStatus: %v", err)
	}
	got, err := GetProject(ctx, db, p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Status != domain.StatusProcessing || got.Progress != 42.5 {
		t.Fatalf("project = %+v", got)
	}

	if err := UpdateProjectStatus(ctx, db, "cd000000-0000-0000-0000-000000000000", domain.StatusCompleted, 100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing project err = %v", err)
	}

	if err := UpdateProjectStylePreferences(ctx, db, p.ID, domain.JSONMap{"recommended_styles": []any{"现代简约"}}); err != nil {
		t.Fatalf("UpdateProjectStylePreferences: %v", err)
	}
	got, _ = GetProject(ctx, db, p.ID)
	styles, _ := got.StylePreferences["recommended_styles"].([]any)
	if len(styles) != 1 || styles[0] != "现代简约" {
		t.Fatalf("style_preferences = %v", got.StylePreferences)
	}
}
