package complaint

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	complaints []Complaint
	categories map[string]int32
	locations  map[string]int32
	nextName   int32
}

// NewMemoryRepository builds an in-memory complaint store for development and
// tests. Name lookups converge to a single id per name, mirroring the unique
// constraints of the relational store.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		nextID:     1,
		categories: make(map[string]int32),
		locations:  make(map[string]int32),
		nextName:   1,
	}
}

func (r *memoryRepository) Create(_ context.Context, c Complaint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.CategoryID = r.getOrCreateLocked(r.categories, c.Category)
	c.LocationID = r.getOrCreateLocked(r.locations, c.City)

	c.ID = r.nextID
	r.nextID++
	c.Status = StatusRegistered
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.complaints = append(r.complaints, c)
	return c.ID, nil
}

func (r *memoryRepository) getOrCreateLocked(m map[string]int32, name string) int32 {
	if id, ok := m[name]; ok {
		return id
	}
	id := r.nextName
	r.nextName++
	m[name] = id
	return id
}

func (r *memoryRepository) ListByCitizen(_ context.Context, citizenID int64) ([]Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Complaint
	for i := len(r.complaints) - 1; i >= 0; i-- {
		c := r.complaints[i]
		if c.CitizenID != nil && *c.CitizenID == citizenID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Complaint, 0, len(r.complaints))
	for i := len(r.complaints) - 1; i >= 0; i-- {
		out = append(out, r.complaints[i])
	}
	return out, nil
}

func (r *memoryRepository) StatsByCitizen(_ context.Context, citizenID int64) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s Stats
	for _, c := range r.complaints {
		if c.CitizenID == nil || *c.CitizenID != citizenID {
			continue
		}
		s.Total++
		if c.Status == StatusResolved {
			s.Closed++
		} else {
			s.Pending++
		}
	}
	return s, nil
}
