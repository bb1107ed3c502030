package selectors

import (
	"sync"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/models"
)

// ListView is the read-only projection of a list bucket. Items is a copy of
// the cached slice; a memoized view is shared by every reader of the same
// scope, so callers must not modify it.
type ListView[T models.Entity] struct {
	Items   []T
	Meta    *models.PageMeta
	Loading bool
	Error   string
	HasMore bool
	// Stale is set when the list was invalidated and must be refetched
	// before its items are trusted for display.
	Stale bool
}

type LikeView struct {
	Count    int
	Liked    bool
	Toggling bool
	Loading  bool
	Error    string
}

type memoKey struct {
	list  string
	scope models.ScopeKey
}

type memoEntry struct {
	version uint64
	value   any
}

// Selectors reads through the cache and never writes to it. List projections
// are memoized per scope and recomputed only when the bucket version moves.
type Selectors struct {
	store *cache.Store

	mu   sync.Mutex
	memo map[memoKey]memoEntry
}

func New(store *cache.Store) *Selectors {
	return &Selectors{
		store: store,
		memo:  make(map[memoKey]memoEntry),
	}
}

func project[T models.Entity](b cache.Bucket[T]) ListView[T] {
	items := make([]T, len(b.Items))
	copy(items, b.Items)
	view := ListView[T]{
		Items:   items,
		Loading: b.Loading,
		Error:   b.Error,
		Stale:   b.Invalidated,
	}
	if b.Meta != nil {
		m := *b.Meta
		view.Meta = &m
		view.HasMore = m.Page < m.TotalPages
	}
	return view
}

func memoized[T models.Entity](s *Selectors, list string, scope models.ScopeKey, b cache.Bucket[T]) ListView[T] {
	key := memoKey{list: list, scope: scope}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.memo[key]; ok && e.version == b.Version {
		return e.value.(ListView[T])
	}
	view := project(b)
	s.memo[key] = memoEntry{version: b.Version, value: view}
	return view
}

func (s *Selectors) Comments(scope models.ScopeKey) ListView[models.Comment] {
	return memoized(s, "comments", scope, s.store.Comments.Get(scope))
}

func (s *Selectors) TopicComments(topicId int64) ListView[models.Comment] {
	return s.Comments(models.TopicScope(topicId))
}

func (s *Selectors) Feed() ListView[models.Comment] {
	return s.Comments(models.HomeFeedScope)
}

func (s *Selectors) Replies(commentId int64) ListView[models.Reply] {
	scope := models.CommentScope(commentId)
	return memoized(s, "replies", scope, s.store.Replies.Get(scope))
}

func (s *Selectors) Topics(filter string) ListView[models.Topic] {
	scope := models.TopicListScope(filter)
	return memoized(s, "topics", scope, s.store.Topics.Get(scope))
}

func (s *Selectors) Favorites(filter string) ListView[models.Favorite] {
	scope := models.FavoritesScope(filter)
	return memoized(s, "favorites", scope, s.store.Favorites.Get(scope))
}

func (s *Selectors) Like(target models.TargetKey) LikeView {
	e := s.store.Likes.Get(target)
	return LikeView{
		Count:    e.Count,
		Liked:    e.Liked,
		Toggling: s.store.Markers.Has(cache.MutationLike, target),
		Loading:  e.Loading,
		Error:    e.Error,
	}
}

func (s *Selectors) Favorite(contentId int64) LikeView {
	target := models.ContentTarget(contentId)
	e := s.store.FavoriteStates.Get(target)
	return LikeView{
		Count:    e.Count,
		Liked:    e.Liked,
		Toggling: s.store.Markers.Has(cache.MutationFavorite, target),
		Loading:  e.Loading,
		Error:    e.Error,
	}
}

// IsToggling reports whether a submission for target is in flight, so the UI
// can disable the control.
func (s *Selectors) IsToggling(kind cache.MutationKind, target models.TargetKey) bool {
	return s.store.Markers.Has(kind, target)
}

func (s *Selectors) Mutation(kind cache.MutationKind) cache.MutationState {
	return s.store.Mutations.Get(kind)
}

// CommentById finds a cached comment in any bucket.
func (s *Selectors) CommentById(id int64) (models.Comment, bool) {
	for _, key := range s.store.Comments.Keys() {
		b := s.store.Comments.Get(key)
		if idx := b.IndexOf(id); idx >= 0 {
			return b.Items[idx], true
		}
	}
	return models.Comment{}, false
}
