package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository es un UserRepository en memoria para dev y tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]UserRecord
	byEmail map[string]string
}

// NewMemoryRepository crea un repositorio vacío.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

// Put agrega o reemplaza un usuario.
func (m *MemoryRepository) Put(rec UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[rec.ID] = rec
	m.byEmail[strings.ToLower(rec.Email)] = rec.ID
}

func (m *MemoryRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	rec := m.byID[id]
	return &rec, nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &rec, nil
}
