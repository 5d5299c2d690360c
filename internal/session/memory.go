package session

import "github.com/Hwangsangha/ebook-client/pkg/domain"

// MemoryStore keeps the session in process memory only. Used in tests and
// for callers that do not want a credential outliving the process.
type MemoryStore struct {
	current domain.Session
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(credential string) (domain.Session, error) {
	sess, err := decodeSession(credential)
	if err != nil {
		s.current = domain.Session{}
		return domain.Session{}, err
	}
	s.current = sess
	return sess, nil
}

func (s *MemoryStore) Get() domain.Session {
	return s.current
}

func (s *MemoryStore) Clear() error {
	s.current = domain.Session{}
	return nil
}
