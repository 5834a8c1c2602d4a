package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/homestudio-ai/design-backend/internal/domain"
	"github.com/homestudio-ai/design-backend/internal/llm"
	"github.com/homestudio-ai/design-backend/internal/repo"
)

// openTestDB opens a migrated throwaway SQLite database under t.TempDir().
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_%d.db", time.Now().UnixNano()))
	db, err := repo.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

// seedProject inserts a minimal project and returns it.
func seedProject(t *testing.T, db *gorm.DB) *domain.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), db, &domain.Project{Name: "两室改造"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

// fakeCompleter is a scriptable llm.Completer: it records the prompt it was
// given and returns a fixed reply or error.
type fakeCompleter struct {
	reply string
	err   error

	calls    int
	lastMsgs []llm.Message
	lastTemp float32
	lastMax  int
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []llm.Message, temperature float32, maxTokens int) (string, error) {
	f.calls++
	f.lastMsgs = msgs
	f.lastTemp = temperature
	f.lastMax = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
