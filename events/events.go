package events

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/reviewclient/models"
)

type Outcome string

const (
	// OutcomeApplied: the server confirmed the mutation as predicted.
	OutcomeApplied Outcome = "applied"
	// OutcomeReconciled: the server disagreed with the prediction and the
	// cache was corrected.
	OutcomeReconciled Outcome = "reconciled"
	// OutcomeRolledBack: the request failed and the optimistic write was undone.
	OutcomeRolledBack Outcome = "rolled_back"
	// OutcomeFailed: the request failed before anything was written.
	OutcomeFailed Outcome = "failed"
	// OutcomeRejected: a duplicate submission was refused locally.
	OutcomeRejected Outcome = "rejected"
)

// MutationEvent records how one mutation settled.
type MutationEvent struct {
	Id      string           `json:"id"`
	Kind    string           `json:"kind"`
	Op      string           `json:"op"`
	Target  models.TargetKey `json:"target"`
	Outcome Outcome          `json:"outcome"`
	Error   string           `json:"error,omitempty"`
	At      time.Time        `json:"at"`
}

func NewMutationEvent(kind, op string, target models.TargetKey, outcome Outcome, errMsg string) MutationEvent {
	ev := MutationEvent{
		Kind:    kind,
		Op:      op,
		Target:  target,
		Outcome: outcome,
		Error:   errMsg,
		At:      time.Now().UTC(),
	}
	if id, err := uuid.NewV7(); err == nil {
		ev.Id = id.String()
	}
	return ev
}

// Sink ships a batch of events somewhere outside the process.
type Sink interface {
	PublishBatch(ctx context.Context, batch []MutationEvent) error
}

// MultiSink fans a batch out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) PublishBatch(ctx context.Context, batch []MutationEvent) error {
	var errs []error
	for _, sink := range m {
		if err := sink.PublishBatch(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
