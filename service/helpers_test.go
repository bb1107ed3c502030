package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/gateway/mocks"
	"github.com/zlnvch/reviewclient/models"
	"github.com/zlnvch/reviewclient/service"
)

type recordingQueue struct {
	mu     sync.Mutex
	events []events.MutationEvent
}

func (q *recordingQueue) Enqueue(ev events.MutationEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
	return true
}

func (q *recordingQueue) Outcomes() []events.Outcome {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]events.Outcome, 0, len(q.events))
	for _, ev := range q.events {
		out = append(out, ev.Outcome)
	}
	return out
}

func setupService(t *testing.T) (*service.Service, *mocks.MockGateway, *recordingQueue) {
	t.Helper()
	gw := new(mocks.MockGateway)
	queue := &recordingQueue{}
	svc, err := service.NewService(cache.NewStore(), gw, queue)
	require.NoError(t, err)
	return svc, gw, queue
}

var errNetwork = gateway.TransportError(errors.New("connection refused"))

// gate blocks a mocked gateway call until released, and signals when the
// call has been entered.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) attach(call *mock.Call) *mock.Call {
	return call.Run(func(mock.Arguments) {
		close(g.entered)
		<-g.release
	})
}

func (g *gate) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("gateway call was never made")
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not finish")
	}
}

func seedLike(svc *service.Service, target models.TargetKey, count int, liked bool) {
	svc.Store.Likes.Set(target, func(e cache.LikeEntry) cache.LikeEntry {
		e.Count = count
		e.Liked = liked
		return e
	})
}

func seedFavoriteState(svc *service.Service, contentId int64, count int, favorited bool) {
	svc.Store.FavoriteStates.Set(models.ContentTarget(contentId), func(e cache.LikeEntry) cache.LikeEntry {
		e.Count = count
		e.Liked = favorited
		return e
	})
}

func meta(page, size, total int) *models.PageMeta {
	return &models.PageMeta{Page: page, Size: size, Total: total, TotalPages: models.TotalPagesFor(total, size)}
}

func comments(ids ...int64) []models.Comment {
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Comment{Id: id, TopicId: 1, Content: "comment"})
	}
	return out
}

func ids[T models.Entity](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.EntityId())
	}
	return out
}
