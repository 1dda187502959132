package accounts

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu          sync.RWMutex
	assignments map[string]Assignment // keyed by account name
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{assignments: make(map[string]Assignment)}
}

func (r *memoryRepository) Create(_ context.Context, assignment Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.assignments[assignment.AccountName]; exists {
		return errors.New("account name already assigned")
	}
	r.assignments[assignment.AccountName] = assignment
	return nil
}

func (r *memoryRepository) ListNamesByOwner(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, a := range r.assignments {
		if a.UserID == userID {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *memoryRepository) CountByOwner(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, a := range r.assignments {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepository) DeleteByName(_ context.Context, userID, accountName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, exists := r.assignments[accountName]
	if !exists || a.UserID != userID {
		return ErrAssignmentNotFound
	}
	delete(r.assignments, accountName)
	return nil
}
