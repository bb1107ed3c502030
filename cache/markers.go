package cache

import (
	"sync"

	"github.com/zlnvch/reviewclient/models"
)

type MutationKind string

const (
	MutationComment  MutationKind = "comment"
	MutationReply    MutationKind = "reply"
	MutationLike     MutationKind = "like"
	MutationFavorite MutationKind = "favorite"
)

type markerKey struct {
	kind   MutationKind
	target models.TargetKey
}

// Markers tracks in-flight ids per mutation kind. They only exist to disable
// duplicate submissions and are not part of the cached data.
type Markers struct {
	mu       sync.Mutex
	inFlight map[markerKey]int
}

func NewMarkers() *Markers {
	return &Markers{inFlight: make(map[markerKey]int)}
}

// TryMark marks target unless it is already marked for kind.
func (m *Markers) TryMark(kind MutationKind, target models.TargetKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := markerKey{kind, target}
	if m.inFlight[k] > 0 {
		return false
	}
	m.inFlight[k] = 1
	return true
}

// Mark adds one in-flight reference for target.
func (m *Markers) Mark(kind MutationKind, target models.TargetKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight[markerKey{kind, target}]++
}

// Unmark releases one in-flight reference.
func (m *Markers) Unmark(kind MutationKind, target models.TargetKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := markerKey{kind, target}
	if m.inFlight[k] <= 1 {
		delete(m.inFlight, k)
		return
	}
	m.inFlight[k]--
}

func (m *Markers) Has(kind MutationKind, target models.TargetKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight[markerKey{kind, target}] > 0
}

// Ids returns the in-flight target ids for kind.
func (m *Markers) Ids(kind MutationKind) []models.TargetKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []models.TargetKey{}
	for k := range m.inFlight {
		if k.kind == kind {
			ids = append(ids, k.target)
		}
	}
	return ids
}
