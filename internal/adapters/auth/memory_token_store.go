package auth

import (
	"sync"
	"time"

	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
)

// MemoryTokenStore keeps issued tokens in process memory.
// Tokens do not survive a restart; callers must log in again.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*domainAuth.Token
}

// NewMemoryTokenStore creates an empty store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]*domainAuth.Token),
	}
}

func (s *MemoryTokenStore) Add(token *domainAuth.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Value] = token
}

func (s *MemoryTokenStore) Get(value string) (*domainAuth.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[value]
	return token, ok
}

func (s *MemoryTokenStore) Remove(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, value)
}

// PurgeExpired drops every token expired at now
func (s *MemoryTokenStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for value, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, value)
			purged++
		}
	}
	return purged
}

func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
