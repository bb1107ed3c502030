package cache

import "sync"

// MutationState is the process-wide status of one mutation kind.
type MutationState struct {
	Creating int
	Updating int
	Deleting int
	Error    string
}

type MutationOp int

const (
	OpCreate MutationOp = iota
	OpUpdate
	OpDelete
	OpToggle
)

func (op MutationOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpToggle:
		return "toggle"
	}
	return "unknown"
}

type MutationStatus struct {
	mu     sync.RWMutex
	states map[MutationKind]MutationState
}

func NewMutationStatus() *MutationStatus {
	return &MutationStatus{states: make(map[MutationKind]MutationState)}
}

func (s *MutationStatus) Get(kind MutationKind) MutationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[kind]
}

// Begin raises the in-progress flag for op and clears the last error.
func (s *MutationStatus) Begin(kind MutationKind, op MutationOp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[kind]
	switch op {
	case OpCreate:
		st.Creating++
	case OpUpdate:
		st.Updating++
	case OpDelete:
		st.Deleting++
	}
	st.Error = ""
	s.states[kind] = st
}

// End lowers the in-progress flag for op and records errMsg when non-empty.
func (s *MutationStatus) End(kind MutationKind, op MutationOp, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[kind]
	switch op {
	case OpCreate:
		st.Creating = max(0, st.Creating-1)
	case OpUpdate:
		st.Updating = max(0, st.Updating-1)
	case OpDelete:
		st.Deleting = max(0, st.Deleting-1)
	}
	if errMsg != "" {
		st.Error = errMsg
	}
	s.states[kind] = st
}

// ClearError acknowledges the last error for kind.
func (s *MutationStatus) ClearError(kind MutationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[kind]
	st.Error = ""
	s.states[kind] = st
}
