package store

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: map[string]models.User{}}
}

func (s *MemoryUserStore) Create(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return models.User{}, ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	s.byEmail[u.Email] = u
	return u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// MemoryPetStore keeps pet records in insertion order, which is also
// creation order.
type MemoryPetStore struct {
	mu   sync.RWMutex
	pets []models.PetRecord
	now  func() time.Time
}

func NewMemoryPetStore() *MemoryPetStore {
	return &MemoryPetStore{now: time.Now}
}

func (s *MemoryPetStore) Create(_ context.Context, rec models.PetRecord) (models.PetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()
	s.pets = append(s.pets, rec)
	return rec, nil
}

func (s *MemoryPetStore) FindOne(_ context.Context, f models.PetFilter) (models.PetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pets {
		if f.Matches(p) {
			return p, nil
		}
	}
	return models.PetRecord{}, ErrNotFound
}

func (s *MemoryPetStore) Find(_ context.Context, f models.PetFilter) ([]models.PetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PetRecord, 0)
	for _, p := range s.pets {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryPetStore) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.pets {
		if p.ID == id {
			s.pets = append(s.pets[:i], s.pets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
