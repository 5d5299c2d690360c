package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// FileStore persists the session as a small JSON file so it survives a
// process restart. The file holds the credential together with the decoded
// subject and role; it is written and removed atomically as one unit.
type FileStore struct {
	path    string
	current domain.Session
}

// NewFileStore loads any previously persisted session from path. A missing
// or unreadable file simply starts logged out.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("session file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.Active() {
		// Stale or corrupt file: drop it rather than carry a partial session.
		_ = os.Remove(path)
		return s, nil
	}
	s.current = sess
	return s, nil
}

func (s *FileStore) Set(credential string) (domain.Session, error) {
	sess, err := decodeSession(credential)
	if err != nil {
		s.current = domain.Session{}
		_ = os.Remove(s.path)
		return domain.Session{}, err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return domain.Session{}, fmt.Errorf("write session file: %w", err)
	}
	s.current = sess
	return sess, nil
}

func (s *FileStore) Get() domain.Session {
	return s.current
}

func (s *FileStore) Clear() error {
	s.current = domain.Session{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
