package cache

import "github.com/zlnvch/reviewclient/models"

// Bucket is the cache unit for one scope key. Buckets are values: every helper
// returns a new Bucket backed by a fresh slice, so snapshots handed out by Get
// are never mutated by later writes.
type Bucket[T models.Entity] struct {
	Items       []T
	Meta        *models.PageMeta
	Loading     bool
	Error       string
	Invalidated bool
	// Generation counts wholesale replacements, i.e. completed fetches.
	Generation  uint64
	Version     uint64
}

// Has reports whether an item with id is present.
func (b Bucket[T]) Has(id int64) bool {
	return b.IndexOf(id) >= 0
}

func (b Bucket[T]) IndexOf(id int64) int {
	for i, item := range b.Items {
		if item.EntityId() == id {
			return i
		}
	}
	return -1
}

// Replace swaps items and meta wholesale, the way a completed fetch does.
func (b Bucket[T]) Replace(items []T, meta *models.PageMeta) Bucket[T] {
	b.Items = append([]T(nil), items...)
	if meta != nil {
		m := *meta
		b.Meta = &m
	} else {
		b.Meta = nil
	}
	b.Generation++
	return b
}

func (b Bucket[T]) Prepend(item T) Bucket[T] {
	items := make([]T, 0, len(b.Items)+1)
	items = append(items, item)
	b.Items = append(items, b.Items...)
	return b
}

func (b Bucket[T]) Append(item T) Bucket[T] {
	items := make([]T, 0, len(b.Items)+1)
	items = append(items, b.Items...)
	b.Items = append(items, item)
	return b
}

// InsertAt places item at idx, clamped to the bucket bounds.
func (b Bucket[T]) InsertAt(idx int, item T) Bucket[T] {
	if idx < 0 {
		idx = 0
	}
	if idx > len(b.Items) {
		idx = len(b.Items)
	}
	items := make([]T, 0, len(b.Items)+1)
	items = append(items, b.Items[:idx]...)
	items = append(items, item)
	b.Items = append(items, b.Items[idx:]...)
	return b
}

// RemoveWhere drops every item matching pred and reports how many were removed.
func (b Bucket[T]) RemoveWhere(pred func(T) bool) (Bucket[T], int) {
	items := make([]T, 0, len(b.Items))
	removed := 0
	for _, item := range b.Items {
		if pred(item) {
			removed++
			continue
		}
		items = append(items, item)
	}
	if removed == 0 {
		return b, 0
	}
	b.Items = items
	return b, removed
}

// ReplaceById swaps in item wherever its id matches. ok is false when absent.
func (b Bucket[T]) ReplaceById(item T) (Bucket[T], bool) {
	idx := b.IndexOf(item.EntityId())
	if idx < 0 {
		return b, false
	}
	items := append([]T(nil), b.Items...)
	items[idx] = item
	b.Items = items
	return b, true
}

// MapItems rewrites every item through fn.
func (b Bucket[T]) MapItems(fn func(T) T) Bucket[T] {
	items := make([]T, len(b.Items))
	for i, item := range b.Items {
		items[i] = fn(item)
	}
	b.Items = items
	return b
}

// AdjustTotal shifts meta.total by delta (floored at 0) and recomputes
// totalPages. No-op for unpaginated buckets.
func (b Bucket[T]) AdjustTotal(delta int) Bucket[T] {
	if b.Meta == nil {
		return b
	}
	m := *b.Meta
	m.Total = max(0, m.Total+delta)
	m.TotalPages = models.TotalPagesFor(m.Total, m.Size)
	b.Meta = &m
	return b
}

// LikeEntry is the scalar bucket used for likes and favorite states.
type LikeEntry struct {
	Count   int
	Liked   bool
	Loading bool
	Error   string
	// Seq is the sequence number of the most recently issued toggle.
	Seq     uint64
	Version uint64
}

// ToggleDelta is the count change implied by moving to liked.
func ToggleDelta(liked bool) int {
	if liked {
		return 1
	}
	return -1
}

// ShiftCount adds delta to the count, floored at zero, and returns the delta
// that was actually applied.
func (e LikeEntry) ShiftCount(delta int) (LikeEntry, int) {
	before := e.Count
	e.Count = max(0, e.Count+delta)
	return e, e.Count - before
}
