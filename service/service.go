package service

import (
	"errors"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

var (
	ErrToggleInFlight = errors.New("toggle already in progress")
	ErrInvalidTarget  = errors.New("invalid target")
)

// EventQueue receives mutation outcome events. worker.EventBatcher is the
// production implementation.
type EventQueue interface {
	Enqueue(ev events.MutationEvent) bool
}

// Service is the optimistic mutation engine and the only writer of Store.
// Every operation that talks to the server is split into two synchronous
// blocks of store writes separated by exactly one gateway call.
type Service struct {
	Store   *cache.Store
	Gateway gateway.Gateway
	Events  EventQueue
}

// NewService wires the engine. events may be nil.
func NewService(store *cache.Store, gw gateway.Gateway, events EventQueue) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	return &Service{
		Store:   store,
		Gateway: gw,
		Events:  events,
	}, nil
}

func (s *Service) emit(kind cache.MutationKind, op cache.MutationOp, target models.TargetKey, outcome events.Outcome, errMsg string) {
	if s.Events == nil {
		return
	}
	s.Events.Enqueue(events.NewMutationEvent(string(kind), op.String(), target, outcome, errMsg))
}

// ClearMutationError acknowledges the last error recorded for kind.
func (s *Service) ClearMutationError(kind cache.MutationKind) {
	s.Store.Mutations.ClearError(kind)
}
