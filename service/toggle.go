package service

import (
	"context"
	"log"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

type toggleHooks struct {
	// afterPredict runs right after the optimistic write, before the request.
	afterPredict func(predicted bool)
	// afterSettle runs after the entry has been reconciled or rolled back.
	afterSettle func(predicted bool, res gateway.ToggleResult, err error)
}

// ToggleLike flips the like on target. Re-entrant: a second toggle while the
// first is in flight is accepted and the most recent prediction wins.
func (s *Service) ToggleLike(ctx context.Context, target models.TargetKey) (bool, error) {
	if !target.Kind.Valid() || target.Id <= 0 {
		return false, ErrInvalidTarget
	}

	s.Store.Markers.Mark(cache.MutationLike, target)
	defer s.Store.Markers.Unmark(cache.MutationLike, target)

	return s.runToggle(ctx, cache.MutationLike, s.Store.Likes, target, func(ctx context.Context) (gateway.ToggleResult, error) {
		return s.Gateway.ToggleLike(ctx, target)
	}, toggleHooks{})
}

// runToggle drives one toggle through Idle -> Toggling -> Idle, rolling the
// prediction back on failure. Marking the target is the caller's job.
//
// Count changes are always applied relative to the current entry so that
// interleaved toggles settling in any order compose. The liked flag is only
// written back by the most recently issued toggle (tracked with Seq): an older
// call settling late must not overwrite a newer prediction or outcome.
func (s *Service) runToggle(
	ctx context.Context,
	kind cache.MutationKind,
	entries *cache.EntryStore,
	target models.TargetKey,
	request func(ctx context.Context) (gateway.ToggleResult, error),
	hooks toggleHooks,
) (bool, error) {
	s.Store.Mutations.Begin(kind, cache.OpToggle)

	var (
		predicted bool
		applied   int
		seq       uint64
	)
	entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
		predicted = !e.Liked
		e, applied = e.ShiftCount(cache.ToggleDelta(predicted))
		e.Liked = predicted
		e.Seq++
		seq = e.Seq
		e.Error = ""
		return e
	})
	if hooks.afterPredict != nil {
		hooks.afterPredict(predicted)
	}

	res, err := request(ctx)

	if err != nil {
		msg := gateway.Message(err)
		entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
			e, _ = e.ShiftCount(-applied)
			if e.Seq == seq {
				e.Liked = !predicted
			}
			e.Error = msg
			return e
		})
		s.Store.Mutations.End(kind, cache.OpToggle, msg)
		if hooks.afterSettle != nil {
			hooks.afterSettle(predicted, res, err)
		}
		log.Printf("Rolled back %s toggle on %s: %v", kind, target, err)
		s.emit(kind, cache.OpToggle, target, events.OutcomeRolledBack, msg)
		return false, err
	}

	reconciled := res.Liked != predicted
	entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
		if reconciled {
			e, _ = e.ShiftCount(cache.ToggleDelta(res.Liked))
			if e.Seq == seq {
				e.Liked = res.Liked
			}
		}
		e.Error = ""
		return e
	})
	s.Store.Mutations.End(kind, cache.OpToggle, "")
	if hooks.afterSettle != nil {
		hooks.afterSettle(predicted, res, nil)
	}

	outcome := events.OutcomeApplied
	if reconciled {
		outcome = events.OutcomeReconciled
	}
	s.emit(kind, cache.OpToggle, target, outcome, "")
	return res.Liked, nil
}
