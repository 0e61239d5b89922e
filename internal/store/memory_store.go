package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

var (
	_ SnapshotStore = (*memoryStore)(nil)
	_ Sweeper       = (*memoryStore)(nil)
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// memoryStore - хранилище в памяти процесса, когда Redis не настроен.
// Снимки хранятся сериализованными, чтобы вызывающий не делил с хранилищем указатели.
type memoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore создает хранилище снимков в памяти.
func NewMemoryStore() SnapshotStore {
	return &memoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *memoryStore) Load(_ context.Context, workspaceID string) (*Snapshot, error) {
	s.mu.Lock()
	item, ok := s.items[workspaceID]
	if ok && !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		delete(s.items, workspaceID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	var snap Snapshot
	if err := json.Unmarshal(item.data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode workspace snapshot: %w", err)
	}
	return &snap, nil
}

func (s *memoryStore) Save(_ context.Context, snap *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode workspace snapshot: %w", err)
	}
	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[snap.WorkspaceID] = item
	return nil
}

func (s *memoryStore) Delete(_ context.Context, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, workspaceID)
	return nil
}

// Sweep удаляет истёкшие снимки и возвращает их количество.
func (s *memoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, item := range s.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
