package cache

import (
	"sort"
	"sync"

	"github.com/zlnvch/reviewclient/models"
)

// ListStore holds one Bucket per scope key. Each Set runs under the store
// lock, so an updater observes and replaces a bucket atomically with respect
// to every other reader and writer.
//
// Versions come from a store-wide clock, so a bucket that is deleted and
// recreated never reuses a version an earlier reader has seen.
type ListStore[T models.Entity] struct {
	mu      sync.RWMutex
	buckets map[models.ScopeKey]Bucket[T]
	clock   uint64
}

func NewListStore[T models.Entity]() *ListStore[T] {
	return &ListStore[T]{buckets: make(map[models.ScopeKey]Bucket[T])}
}

// Get returns the bucket for key, or the empty default when none exists yet.
// Reading never creates a bucket.
func (s *ListStore[T]) Get(key models.ScopeKey) Bucket[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets[key]
}

// Exists reports whether a bucket has been created for key.
func (s *ListStore[T]) Exists(key models.ScopeKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buckets[key]
	return ok
}

// Set applies updater to the bucket for key, creating it lazily, and returns
// the stored result. Other keys are never touched.
func (s *ListStore[T]) Set(key models.ScopeKey, updater func(Bucket[T]) Bucket[T]) Bucket[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.buckets[key]
	next := updater(current)
	s.clock++
	next.Version = s.clock
	s.buckets[key] = next
	return next
}

// SetEach applies updater to every existing bucket. Buckets for which updater
// reports no change keep their version.
func (s *ListStore[T]) SetEach(updater func(key models.ScopeKey, b Bucket[T]) (Bucket[T], bool)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for key, current := range s.buckets {
		next, ok := updater(key, current)
		if !ok {
			continue
		}
		s.clock++
		next.Version = s.clock
		s.buckets[key] = next
		changed++
	}
	return changed
}

// Delete drops the bucket for key entirely.
func (s *ListStore[T]) Delete(key models.ScopeKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
}

// Keys returns the existing scope keys in sorted order.
func (s *ListStore[T]) Keys() []models.ScopeKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]models.ScopeKey, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
