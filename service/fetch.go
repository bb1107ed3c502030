package service

import (
	"context"
	"log"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

// fetchInto runs one paginated fetch for key. A successful fetch replaces
// items and meta wholesale and clears the invalidated flag; a failed one only
// records the error. Concurrent fetches for the same key are not
// deduplicated: whichever response resolves last wins.
func fetchInto[T models.Entity](
	ctx context.Context,
	store *cache.ListStore[T],
	key models.ScopeKey,
	fetch func(ctx context.Context) (gateway.FetchResult[T], error),
) error {
	store.Set(key, func(b cache.Bucket[T]) cache.Bucket[T] {
		b.Loading = true
		b.Error = ""
		return b
	})

	res, err := fetch(ctx)

	if err != nil {
		msg := gateway.Message(err)
		store.Set(key, func(b cache.Bucket[T]) cache.Bucket[T] {
			b.Loading = false
			b.Error = msg
			return b
		})
		log.Printf("Failed to fetch %s: %v", key, err)
		return err
	}

	store.Set(key, func(b cache.Bucket[T]) cache.Bucket[T] {
		b = b.Replace(res.Items, res.Meta)
		b.Loading = false
		b.Error = ""
		b.Invalidated = false
		return b
	})
	return nil
}

func (s *Service) FetchTopics(ctx context.Context, filter string, page models.PageRequest) error {
	page = page.Normalize()
	return fetchInto(ctx, s.Store.Topics, models.TopicListScope(filter), func(ctx context.Context) (gateway.FetchResult[models.Topic], error) {
		return s.Gateway.ListTopics(ctx, filter, page)
	})
}

func (s *Service) FetchTopicComments(ctx context.Context, topicId int64, page models.PageRequest) error {
	page = page.Normalize()
	return fetchInto(ctx, s.Store.Comments, models.TopicScope(topicId), func(ctx context.Context) (gateway.FetchResult[models.Comment], error) {
		return s.Gateway.ListTopicComments(ctx, topicId, page)
	})
}

func (s *Service) FetchFeedComments(ctx context.Context, page models.PageRequest) error {
	page = page.Normalize()
	return fetchInto(ctx, s.Store.Comments, models.HomeFeedScope, func(ctx context.Context) (gateway.FetchResult[models.Comment], error) {
		return s.Gateway.ListFeedComments(ctx, page)
	})
}

func (s *Service) FetchReplies(ctx context.Context, commentId int64, page models.PageRequest) error {
	page = page.Normalize()
	return fetchInto(ctx, s.Store.Replies, models.CommentScope(commentId), func(ctx context.Context) (gateway.FetchResult[models.Reply], error) {
		return s.Gateway.ListReplies(ctx, commentId, page)
	})
}

// FetchFavorites loads one page of a favorites list. This is the refetch
// consumers must issue after the list was invalidated by a favoriting.
func (s *Service) FetchFavorites(ctx context.Context, filter string, page models.PageRequest) error {
	page = page.Normalize()
	return fetchInto(ctx, s.Store.Favorites, models.FavoritesScope(filter), func(ctx context.Context) (gateway.FetchResult[models.Favorite], error) {
		return s.Gateway.ListFavorites(ctx, filter, page)
	})
}

// fetchEntry loads scalar like state. While a toggle for the target is in
// flight the optimistic values are kept and only the envelope is updated.
func (s *Service) fetchEntry(
	ctx context.Context,
	kind cache.MutationKind,
	entries *cache.EntryStore,
	target models.TargetKey,
	fetch func(ctx context.Context) (gateway.LikeState, error),
) error {
	entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
		e.Loading = true
		e.Error = ""
		return e
	})

	state, err := fetch(ctx)

	if err != nil {
		msg := gateway.Message(err)
		entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
			e.Loading = false
			e.Error = msg
			return e
		})
		log.Printf("Failed to fetch %s state for %s: %v", kind, target, err)
		return err
	}

	toggling := s.Store.Markers.Has(kind, target)
	entries.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
		e.Loading = false
		if !toggling {
			e.Count = state.Count
			e.Liked = state.Liked
		}
		return e
	})
	return nil
}

func (s *Service) FetchLikeState(ctx context.Context, target models.TargetKey) error {
	if !target.Kind.Valid() || target.Id <= 0 {
		return ErrInvalidTarget
	}
	return s.fetchEntry(ctx, cache.MutationLike, s.Store.Likes, target, func(ctx context.Context) (gateway.LikeState, error) {
		return s.Gateway.GetLikeState(ctx, target)
	})
}

func (s *Service) FetchFavoriteState(ctx context.Context, contentId int64) error {
	if contentId <= 0 {
		return ErrInvalidTarget
	}
	return s.fetchEntry(ctx, cache.MutationFavorite, s.Store.FavoriteStates, models.ContentTarget(contentId), func(ctx context.Context) (gateway.LikeState, error) {
		return s.Gateway.GetFavoriteState(ctx, contentId)
	})
}
