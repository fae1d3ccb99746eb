package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps problems in process. It is used when no database is
// configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	problems map[uuid.UUID]*StoredProblem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{problems: make(map[uuid.UUID]*StoredProblem)}
}

func (s *MemoryStore) CreateProblem(_ context.Context, sp *StoredProblem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp.ID = uuid.New()
	sp.CreatedAt = time.Now().UTC()
	cp := *sp
	s.problems[sp.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProblem(_ context.Context, id uuid.UUID) (*StoredProblem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.problems[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (s *MemoryStore) ListProblems(_ context.Context, filter ProblemFilter) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.problems))
	for _, sp := range s.problems {
		out = append(out, summarize(sp))
	}
	s.mu.RUnlock()

	// Newest first, matching the SQL ordering.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []Summary{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) DeleteProblem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.problems[id]; !ok {
		return ErrNotFound
	}
	delete(s.problems, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
