package citizen

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]Citizen
}

// NewMemoryRepository builds an in-memory citizen store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1, byEmail: make(map[string]Citizen)}
}

func (r *memoryRepository) Create(_ context.Context, c Citizen) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[c.Email]; exists {
		return 0, ErrEmailTaken
	}
	c.ID = r.nextID
	r.nextID++
	r.byEmail[c.Email] = c
	return c.ID, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Citizen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byEmail[email]
	if !ok {
		return Citizen{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id int64) (Citizen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return Citizen{}, ErrNotFound
}

func (r *memoryRepository) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	c.PasswordHash = passwordHash
	r.byEmail[email] = c
	return nil
}
