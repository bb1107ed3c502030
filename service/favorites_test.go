package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
	"github.com/zlnvch/reviewclient/service"
)

// Helper that fills a favorites bucket with content ids 38..47
func seedFavorites(svc *service.Service, scope models.ScopeKey) []models.Favorite {
	items := make([]models.Favorite, 0, 10)
	for i := int64(0); i < 10; i++ {
		items = append(items, models.Favorite{Id: 100 + i, ContentId: 38 + i, Title: "movie"})
	}
	svc.Store.Favorites.Set(scope, func(b cache.Bucket[models.Favorite]) cache.Bucket[models.Favorite] {
		return b.Replace(items, meta(1, 10, 10))
	})
	return items
}

func contentIds(items []models.Favorite) []int64 {
	out := make([]int64, 0, len(items))
	for _, f := range items {
		out = append(out, f.ContentId)
	}
	return out
}

func TestToggleFavorite_RemovalIsImmediate(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	seedFavorites(svc, scope)
	seedFavoriteState(svc, 42, 3, true)

	g := newGate()
	g.attach(gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{Liked: false}, nil).Once())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ToggleFavorite(ctx, 42)
	}()
	g.waitEntered(t)

	// Before the server has answered
	b := svc.Store.Favorites.Get(scope)
	assert.Len(t, b.Items, 9)
	assert.NotContains(t, contentIds(b.Items), int64(42))
	assert.Equal(t, 9, b.Meta.Total)
	state := svc.Store.FavoriteStates.Get(models.ContentTarget(42))
	assert.False(t, state.Liked)
	assert.Equal(t, 2, state.Count)

	close(g.release)
	waitDone(t, done)

	b = svc.Store.Favorites.Get(scope)
	assert.Len(t, b.Items, 9)
	assert.Equal(t, 9, b.Meta.Total)
	assert.False(t, b.Invalidated)
}

func TestToggleFavorite_RemovalSweepsEveryList(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	seedFavorites(svc, models.FavoritesScope(""))
	seedFavorites(svc, models.FavoritesScope("rated"))
	seedFavoriteState(svc, 42, 1, true)

	gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{Liked: false}, nil).Once()

	_, err := svc.ToggleFavorite(ctx, 42)

	require.NoError(t, err)
	for _, scope := range []models.ScopeKey{models.FavoritesScope(""), models.FavoritesScope("rated")} {
		b := svc.Store.Favorites.Get(scope)
		assert.Len(t, b.Items, 9, scope)
		assert.Equal(t, 9, b.Meta.Total, scope)
	}
}

func TestToggleFavorite_FailedRemovalRestoresOrder(t *testing.T) {
	svc, gw, queue := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	original := seedFavorites(svc, scope)
	seedFavoriteState(svc, 42, 3, true)

	gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{}, errNetwork).Once()

	_, err := svc.ToggleFavorite(ctx, 42)

	assert.ErrorIs(t, err, errNetwork)
	b := svc.Store.Favorites.Get(scope)
	assert.Equal(t, original, b.Items)
	assert.Equal(t, 10, b.Meta.Total)
	state := svc.Store.FavoriteStates.Get(models.ContentTarget(42))
	assert.True(t, state.Liked)
	assert.Equal(t, 3, state.Count)
	assert.Equal(t, "connection refused", svc.Store.Mutations.Get(cache.MutationFavorite).Error)
	assert.Equal(t, []events.Outcome{events.OutcomeRolledBack}, queue.Outcomes())
}

func TestToggleFavorite_AdditionInvalidates(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	original := seedFavorites(svc, scope)

	g := newGate()
	g.attach(gw.On("ToggleFavorite", mock.Anything, int64(99)).Return(gateway.ToggleResult{Liked: true}, nil).Once())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ToggleFavorite(ctx, 99)
	}()
	g.waitEntered(t)

	b := svc.Store.Favorites.Get(scope)
	assert.True(t, b.Invalidated)
	assert.Equal(t, original, b.Items)
	assert.Equal(t, 10, b.Meta.Total)

	close(g.release)
	waitDone(t, done)

	b = svc.Store.Favorites.Get(scope)
	assert.True(t, b.Invalidated)
	assert.Equal(t, original, b.Items)
	assert.True(t, svc.Store.FavoriteStates.Get(models.ContentTarget(99)).Liked)
}

func TestToggleFavorite_RefetchClearsInvalidated(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	seedFavorites(svc, scope)

	gw.On("ToggleFavorite", mock.Anything, int64(99)).Return(gateway.ToggleResult{Liked: true}, nil).Once()
	fresh := []models.Favorite{{Id: 200, ContentId: 99, Title: "new"}}
	gw.On("ListFavorites", mock.Anything, "", models.PageRequest{Page: 1, Size: 10}).
		Return(gateway.FetchResult[models.Favorite]{Items: fresh, Meta: meta(1, 10, 11)}, nil).Once()

	_, err := svc.ToggleFavorite(ctx, 99)
	require.NoError(t, err)
	require.True(t, svc.Store.Favorites.Get(scope).Invalidated)

	require.NoError(t, svc.FetchFavorites(ctx, "", models.PageRequest{Page: 1}))

	b := svc.Store.Favorites.Get(scope)
	assert.False(t, b.Invalidated)
	assert.Equal(t, fresh, b.Items)
	assert.Equal(t, 11, b.Meta.Total)
}

func TestToggleFavorite_ServerSaysStillFavorited(t *testing.T) {
	svc, gw, queue := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	seedFavorites(svc, scope)
	seedFavoriteState(svc, 42, 3, true)

	gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{Liked: true}, nil).Once()

	favorited, err := svc.ToggleFavorite(ctx, 42)

	require.NoError(t, err)
	assert.True(t, favorited)
	assert.True(t, svc.Store.FavoriteStates.Get(models.ContentTarget(42)).Liked)
	assert.True(t, svc.Store.Favorites.Get(scope).Invalidated)
	assert.Equal(t, []events.Outcome{events.OutcomeReconciled}, queue.Outcomes())
}

func TestToggleFavorite_RejectsWhileInFlight(t *testing.T) {
	svc, gw, queue := setupService(t)
	ctx := context.Background()
	seedFavoriteState(svc, 42, 3, true)

	g := newGate()
	g.attach(gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{Liked: false}, nil).Once())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ToggleFavorite(ctx, 42)
	}()
	g.waitEntered(t)
	before := svc.Store.FavoriteStates.Get(models.ContentTarget(42))

	_, err := svc.ToggleFavorite(ctx, 42)

	assert.ErrorIs(t, err, service.ErrToggleInFlight)
	assert.Equal(t, before, svc.Store.FavoriteStates.Get(models.ContentTarget(42)))

	close(g.release)
	waitDone(t, done)

	gw.AssertNumberOfCalls(t, "ToggleFavorite", 1)
	assert.Contains(t, queue.Outcomes(), events.OutcomeRejected)
	assert.False(t, svc.Store.Markers.Has(cache.MutationFavorite, models.ContentTarget(42)))
}

func TestFetchFavoriteState(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()

	gw.On("GetFavoriteState", mock.Anything, int64(7)).Return(gateway.LikeState{Count: 4, Liked: true}, nil).Once()

	require.NoError(t, svc.FetchFavoriteState(ctx, 7))

	state := svc.Store.FavoriteStates.Get(models.ContentTarget(7))
	assert.Equal(t, 4, state.Count)
	assert.True(t, state.Liked)

	assert.ErrorIs(t, svc.FetchFavoriteState(ctx, 0), service.ErrInvalidTarget)
}

func TestAcknowledgeFavorites(t *testing.T) {
	svc, _, _ := setupService(t)
	scope := models.FavoritesScope("")
	seedFavorites(svc, scope)
	svc.Store.Favorites.Set(scope, func(b cache.Bucket[models.Favorite]) cache.Bucket[models.Favorite] {
		b.Invalidated = true
		return b
	})

	svc.AcknowledgeFavorites(scope)
	svc.AcknowledgeFavorites(models.FavoritesScope("missing"))

	assert.False(t, svc.Store.Favorites.Get(scope).Invalidated)
	assert.False(t, svc.Store.Favorites.Exists(models.FavoritesScope("missing")))
}

func TestToggleFavorite_FailedRemovalKeepsRefetchedPage(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	svc.Store.Favorites.Set(scope, func(b cache.Bucket[models.Favorite]) cache.Bucket[models.Favorite] {
		return b.Replace([]models.Favorite{{Id: 1, ContentId: 42}, {Id: 2, ContentId: 43}}, meta(1, 10, 2))
	})
	seedFavoriteState(svc, 42, 1, true)

	g := newGate()
	g.attach(gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{}, errNetwork).Once())
	gw.On("ListFavorites", mock.Anything, "", mock.Anything).
		Return(gateway.FetchResult[models.Favorite]{Items: []models.Favorite{{Id: 2, ContentId: 43}}, Meta: meta(1, 10, 1)}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ToggleFavorite(ctx, 42)
	}()
	g.waitEntered(t)

	// The server page lands while the un-favorite is still in flight
	require.NoError(t, svc.FetchFavorites(ctx, "", models.PageRequest{}))

	close(g.release)
	waitDone(t, done)

	b := svc.Store.Favorites.Get(scope)
	assert.Equal(t, []int64{43}, contentIds(b.Items))
	assert.Equal(t, 1, b.Meta.Total)
	assert.True(t, svc.Store.FavoriteStates.Get(models.ContentTarget(42)).Liked)
}

func TestToggleFavorite_FailedRemovalSkipsInvalidatedList(t *testing.T) {
	svc, gw, _ := setupService(t)
	ctx := context.Background()
	scope := models.FavoritesScope("")
	seedFavorites(svc, scope)
	seedFavoriteState(svc, 42, 1, true)

	g := newGate()
	g.attach(gw.On("ToggleFavorite", mock.Anything, int64(42)).Return(gateway.ToggleResult{}, errNetwork).Once())
	gw.On("ToggleFavorite", mock.Anything, int64(99)).Return(gateway.ToggleResult{Liked: true}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ToggleFavorite(ctx, 42)
	}()
	g.waitEntered(t)

	_, err := svc.ToggleFavorite(ctx, 99)
	require.NoError(t, err)

	close(g.release)
	waitDone(t, done)

	b := svc.Store.Favorites.Get(scope)
	assert.True(t, b.Invalidated)
	assert.Len(t, b.Items, 9)
	assert.NotContains(t, contentIds(b.Items), int64(42))
	assert.Equal(t, 9, b.Meta.Total)
}
