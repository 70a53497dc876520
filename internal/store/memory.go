package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// MemoryStore keeps registrations in process memory in insertion order. It
// enforces the same email uniqueness as the Postgres unique index.
type MemoryStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]models.Registration
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[uuid.UUID]models.Registration),
		now:  time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Registration, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Create(_ context.Context, r *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(r.Email, uuid.Nil) {
		return ErrDuplicateEmail
	}
	r.ID = uuid.New()
	now := s.now()
	r.CreatedAt, r.UpdatedAt = now, now
	s.byID[r.ID] = *r
	s.order = append(s.order, r.ID)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, r *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[r.ID]
	if !ok {
		return ErrNotFound
	}
	if s.emailTaken(r.Email, r.ID) {
		return ErrDuplicateEmail
	}
	existing.Apply(r.Input())
	existing.UpdatedAt = s.now()
	s.byID[r.ID] = existing
	*r = existing
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) emailTaken(email string, except uuid.UUID) bool {
	for id, r := range s.byID {
		if id != except && r.Email == email {
			return true
		}
	}
	return false
}
