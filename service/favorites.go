package service

import (
	"context"
	"log"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

// removedFavorite remembers where an un-favorited item sat so a failed
// request can put it back. generation is the bucket's fetch generation at
// removal time.
type removedFavorite struct {
	scope      models.ScopeKey
	index      int
	item       models.Favorite
	generation uint64
}

// ToggleFavorite flips the favorite on a piece of content. Unlike likes, a
// second toggle for the same content while one is in flight is refused with
// ErrToggleInFlight and changes nothing.
//
// Un-favoriting removes the content from every cached favorites list at once.
// Favoriting never inserts (position and enrichment are server-determined);
// it marks every favorites list invalidated instead.
func (s *Service) ToggleFavorite(ctx context.Context, contentId int64) (bool, error) {
	target := models.ContentTarget(contentId)
	if contentId <= 0 {
		return false, ErrInvalidTarget
	}

	if !s.Store.Markers.TryMark(cache.MutationFavorite, target) {
		s.emit(cache.MutationFavorite, cache.OpToggle, target, events.OutcomeRejected, ErrToggleInFlight.Error())
		return false, ErrToggleInFlight
	}
	defer s.Store.Markers.Unmark(cache.MutationFavorite, target)

	var removed []removedFavorite
	hooks := toggleHooks{
		afterPredict: func(predicted bool) {
			if predicted {
				s.invalidateFavorites()
				return
			}
			removed = s.removeFavorite(contentId)
		},
		afterSettle: func(predicted bool, res gateway.ToggleResult, err error) {
			switch {
			case err != nil:
				s.restoreFavorites(removed)
			case res.Liked == predicted:
			case res.Liked:
				// Server says favorited after we removed it locally
				s.invalidateFavorites()
			default:
				s.removeFavorite(contentId)
			}
		},
	}

	return s.runToggle(ctx, cache.MutationFavorite, s.Store.FavoriteStates, target, func(ctx context.Context) (gateway.ToggleResult, error) {
		return s.Gateway.ToggleFavorite(ctx, contentId)
	}, hooks)
}

// removeFavorite drops contentId from every favorites bucket that holds it and
// decrements total only where something was removed.
func (s *Service) removeFavorite(contentId int64) []removedFavorite {
	var removed []removedFavorite
	s.Store.Favorites.SetEach(func(key models.ScopeKey, b cache.Bucket[models.Favorite]) (cache.Bucket[models.Favorite], bool) {
		for i, f := range b.Items {
			if f.ContentId == contentId {
				removed = append(removed, removedFavorite{scope: key, index: i, item: f, generation: b.Generation})
			}
		}
		next, n := b.RemoveWhere(func(f models.Favorite) bool { return f.ContentId == contentId })
		if n == 0 {
			return b, false
		}
		return next.AdjustTotal(-n), true
	})
	return removed
}

// restoreFavorites undoes removeFavorite. A bucket that was refetched or
// invalidated since the removal holds newer server state and is left alone, as
// is one where the item reappeared.
func (s *Service) restoreFavorites(removed []removedFavorite) {
	if len(removed) == 0 {
		return
	}
	restored := 0
	s.Store.Favorites.SetEach(func(key models.ScopeKey, b cache.Bucket[models.Favorite]) (cache.Bucket[models.Favorite], bool) {
		changed := false
		// Entries for one scope are in ascending index order
		for _, r := range removed {
			if r.scope != key || b.Invalidated || b.Generation != r.generation || b.Has(r.item.Id) {
				continue
			}
			b = b.InsertAt(r.index, r.item).AdjustTotal(1)
			changed = true
			restored++
		}
		return b, changed
	})
	if restored > 0 {
		log.Printf("Restored %d favorites list entries after failed un-favorite", restored)
	}
}

func (s *Service) invalidateFavorites() {
	s.Store.Favorites.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Favorite]) (cache.Bucket[models.Favorite], bool) {
		if b.Invalidated {
			return b, false
		}
		b.Invalidated = true
		return b, true
	})
}

// AcknowledgeFavorites clears the invalidated flag on scope without refetching.
func (s *Service) AcknowledgeFavorites(scope models.ScopeKey) {
	if !s.Store.Favorites.Exists(scope) {
		return
	}
	s.Store.Favorites.Set(scope, func(b cache.Bucket[models.Favorite]) cache.Bucket[models.Favorite] {
		b.Invalidated = false
		return b
	})
}
