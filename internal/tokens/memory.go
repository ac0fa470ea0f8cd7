package tokens

import (
	"sync"
	"time"
)

// MemoryStore — хранилище в памяти процесса с той же семантикой сроков,
// что и FileStore. Используется в тестах и как дефолт, когда персист
// не нужен (сессия живёт до выхода из процесса).
type MemoryStore struct {
	mu         sync.Mutex
	access     entry
	refresh    entry
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewMemoryStore создаёт пустое in-memory хранилище с дефолтными TTL.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
}

func (s *MemoryStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.access = entry{Value: access, ExpiresAt: now.Add(s.accessTTL)}
	s.refresh = entry{Value: refresh, ExpiresAt: now.Add(s.refreshTTL)}

	return nil
}

func (s *MemoryStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = entry{Value: access, ExpiresAt: s.now().Add(s.accessTTL)}

	return nil
}

func (s *MemoryStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access.live(s.now()) {
		return s.access.Value, true
	}

	return "", false
}

func (s *MemoryStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh.live(s.now()) {
		return s.refresh.Value, true
	}

	return "", false
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = entry{}
	s.refresh = entry{}

	return nil
}

func (s *MemoryStore) Authenticated() bool {
	_, ok := s.AccessToken()
	return ok
}
