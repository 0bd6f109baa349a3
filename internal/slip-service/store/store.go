package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rqueiroz/exchange-betting-poc/internal/slip"
)

// Store guarda os boletins por sessão, em memória.
// Cada boletim pertence a uma única sessão/aba; o lock protege só o mapa.
type Store struct {
	mu    sync.RWMutex
	slips map[string]*slip.Slip
}

func New() *Store {
	return &Store{slips: make(map[string]*slip.Slip)}
}

// Create abre uma sessão nova com boletim vazio e devolve o id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.slips[id] = slip.New()
	s.mu.Unlock()
	return id
}

// Get devolve o boletim da sessão, se existir.
func (s *Store) Get(sessionID string) (*slip.Slip, bool) {
	s.mu.RLock()
	b, ok := s.slips[sessionID]
	s.mu.RUnlock()
	return b, ok
}

// Delete encerra a sessão. No-op se não existir.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.slips, sessionID)
	s.mu.Unlock()
}

// Len devolve o número de sessões ativas (usado na métrica de gauge).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slips)
}
