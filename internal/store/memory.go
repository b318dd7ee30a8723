package store

import (
	"sync"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// MemoryStore keeps the most recent engine results by request id so the
// front end can re-fetch a report it just generated. Bounded: the oldest
// entry is evicted once cap is reached. The engine itself stays stateless;
// this is hosting-layer convenience only.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]models.EngineResult
	order   []string
	cap     int
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryStore{
		results: make(map[string]models.EngineResult),
		cap:     capacity,
	}
}

func (s *MemoryStore) Put(id string, res models.EngineResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		s.order = append(s.order, id)
	}
	s.results[id] = res
	for len(s.order) > s.cap {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *MemoryStore) Get(id string) (models.EngineResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[id]
	return res, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
