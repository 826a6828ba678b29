package repository

import (
	"context"
	"sync"
)

// MemorySlotRepository keeps slots in process memory. Nothing survives a
// restart; it backs tests and throwaway sessions.
type MemorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotRepository constructs an empty in-memory repository.
func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{slots: make(map[string]string)}
}

// Get implements service.SlotRepository.
func (m *MemorySlotRepository) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

// Set implements service.SlotRepository.
func (m *MemorySlotRepository) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.slots[key] = value
	m.mu.Unlock()
	return nil
}
