package session

import (
	"context"
	"sync"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/common"
)

// MemoryStore is a process-local Store used for ephemeral runs and tests.
type MemoryStore struct {
	mu   sync.Mutex
	cred models.Credential
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, cred models.Credential) error {
	if !cred.Complete() {
		return common.ErrIncompleteCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred, s.set = cred, true
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (models.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.set, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred, s.set = models.Credential{}, false
	return nil
}
