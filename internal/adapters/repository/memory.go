package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/rematch/internal/domain/model"
)

// MemoryStore is an in-memory Store for tests and single-process use.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]model.Event
	assets map[string][]model.VideoAsset
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		events: make(map[string]model.Event),
		assets: make(map[string][]model.VideoAsset),
	}
}

// Event returns the event with the given id.
func (s *MemoryStore) Event(_ context.Context, id string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return ev, nil
}

// AssetsForMatch returns the match's assets in insertion order.
func (s *MemoryStore) AssetsForMatch(_ context.Context, matchID string) ([]model.VideoAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := s.assets[matchID]
	out := make([]model.VideoAsset, len(assets))
	copy(out, assets)
	return out, nil
}

// AddEvent stores an event, replacing any previous one with the same id.
func (s *MemoryStore) AddEvent(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
}

// AddAsset appends an asset to its match's footage list.
func (s *MemoryStore) AddAsset(a model.VideoAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.MatchID] = append(s.assets[a.MatchID], a)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
