package services

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/homestudio-ai/design-backend/internal/domain"
)

func TestSessionCreate_DefaultsAndKinds(t *testing.T) {
	db := openTestDB(t)
	p := seedProject(t, db)
	svc := NewSessionService(db)

	sess, err := svc.Create(context.Background(), p.ID, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Kind != domain.SessionDesignAssistant || sess.Title != "新对话" {
		t.Fatalf("session = %+v", sess)
	}

	quiz, err := svc.Create(context.Background(), p.ID, domain.SessionStyleQuiz)
	if err != nil {
		t.Fatalf("Create quiz: %v", err)
	}
	if quiz.Kind != domain.SessionStyleQuiz || quiz.Title != "风格测试" {
		t.Fatalf("quiz session = %+v", quiz)
	}

	// Unknown kinds fall back to design_assistant.
	other, err := svc.Create(context.Background(), p.ID, "mystery")
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}
	if other.Kind != domain.SessionDesignAssistant {
		t.Fatalf("kind = %q", other.Kind)
	}
}

func TestSessionCreate_MissingProject(t *testing.T) {
	svc := NewSessionService(openTestDB(t))
	if _, err := svc.Create(context.Background(), "9a100000-0000-0000-0000-000000000000", ""); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionList(t *testing.T) {
	db := openTestDB(t)
	p := seedProject(t, db)
	svc := NewSessionService(db)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), p.ID, ""); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}
	items, err := svc.List(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
}

func TestSessionGet_NotFound(t *testing.T) {
	svc := NewSessionService(openTestDB(t))
	if _, err := svc.Get(context.Background(), "no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListMessagesPage_Bounds(t *testing.T) {
	db := openTestDB(t)
	p := seedProject(t, db)
	svc := NewSessionService(db)
	sess, _ := svc.Create(context.Background(), p.ID, "")

	// Empty session: zero total, empty (not nil) slice.
	items, total, err := svc.ListMessagesPage(context.Background(), sess.ID, 0, -5)
	if err != nil {
		t.Fatalf("ListMessagesPage: %v", err)
	}
	if total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("total=%d items=%v", total, items)
	}

	if _, _, err := svc.ListMessagesPage(context.Background(), "b7c00000-0000-0000-0000-000000000000", 1, 10); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestShouldAutoTitle(t *testing.T) {
	cases := map[string]bool{
		"":      true,
		"  ":    true,
		"新对话":   true,
		"儿童房设计": false,
	}
	for in, want := range cases {
		if got := shouldAutoTitle(in); got != want {
			t.Errorf("shouldAutoTitle(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestGenerateTitle(t *testing.T) {
	if got := generateTitle("", language.Und, 60); got != "" {
		t.Fatalf("empty prompt -> %q", got)
	}
	if got := generateTitle("!!! ???", language.Und, 60); got != "" {
		t.Fatalf("punctuation-only prompt -> %q", got)
	}

	got := generateTitle("the budget for a modern kitchen", language.English, 60)
	if got == "" {
		t.Fatal("empty title")
	}
	// Stop words pruned, Title Case applied.
	if got != "Budget Modern Kitchen" {
		t.Fatalf("title = %q", got)
	}

	// Rune-safe clipping.
	long := generateTitle("儿童房与主卧与客厅与厨房的整体设计思路讨论", language.Chinese, 5)
	if utf8.RuneCountInString(long) > 5 {
		t.Fatalf("clip failed: %q", long)
	}
}
