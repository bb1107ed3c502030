package cache

import (
	"sync"

	"github.com/zlnvch/reviewclient/models"
)

// EntryStore holds scalar like/favorite state per target.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[models.TargetKey]LikeEntry
	clock   uint64
}

func NewEntryStore() *EntryStore {
	return &EntryStore{entries: make(map[models.TargetKey]LikeEntry)}
}

func (s *EntryStore) Get(key models.TargetKey) LikeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

// Set applies updater atomically and returns the stored entry. The count is
// clamped at zero whatever the updater produced.
func (s *EntryStore) Set(key models.TargetKey, updater func(LikeEntry) LikeEntry) LikeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.entries[key]
	next := updater(current)
	next.Count = max(0, next.Count)
	s.clock++
	next.Version = s.clock
	s.entries[key] = next
	return next
}
