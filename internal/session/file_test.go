package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token := mintTokenNoHelper(map[string]any{"sub": "42", "role": "ADMIN"})
	if _, err := store.Set(token); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Simulate a restart.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	sess := reopened.Get()
	if sess.UserID != "42" || sess.Role != domain.RoleAdmin || sess.Token != token {
		t.Fatalf("restored session = %+v", sess)
	}
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Set(mintTokenNoHelper(map[string]any{"sub": "1"})); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("repeat clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still present after clear")
	}
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Get().Active() {
		t.Fatalf("cleared store restored a session: %+v", reopened.Get())
	}
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Get().Active() {
		t.Fatalf("corrupt file produced a session: %+v", store.Get())
	}
}
