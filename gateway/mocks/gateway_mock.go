package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListTopics(ctx context.Context, filter string, page models.PageRequest) (gateway.FetchResult[models.Topic], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(gateway.FetchResult[models.Topic]), args.Error(1)
}

func (m *MockGateway) ListTopicComments(ctx context.Context, topicId int64, page models.PageRequest) (gateway.FetchResult[models.Comment], error) {
	args := m.Called(ctx, topicId, page)
	return args.Get(0).(gateway.FetchResult[models.Comment]), args.Error(1)
}

func (m *MockGateway) ListFeedComments(ctx context.Context, page models.PageRequest) (gateway.FetchResult[models.Comment], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(gateway.FetchResult[models.Comment]), args.Error(1)
}

func (m *MockGateway) ListReplies(ctx context.Context, commentId int64, page models.PageRequest) (gateway.FetchResult[models.Reply], error) {
	args := m.Called(ctx, commentId, page)
	return args.Get(0).(gateway.FetchResult[models.Reply]), args.Error(1)
}

func (m *MockGateway) ListFavorites(ctx context.Context, filter string, page models.PageRequest) (gateway.FetchResult[models.Favorite], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(gateway.FetchResult[models.Favorite]), args.Error(1)
}

func (m *MockGateway) GetLikeState(ctx context.Context, target models.TargetKey) (gateway.LikeState, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(gateway.LikeState), args.Error(1)
}

func (m *MockGateway) GetFavoriteState(ctx context.Context, contentId int64) (gateway.LikeState, error) {
	args := m.Called(ctx, contentId)
	return args.Get(0).(gateway.LikeState), args.Error(1)
}

func (m *MockGateway) ToggleLike(ctx context.Context, target models.TargetKey) (gateway.ToggleResult, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(gateway.ToggleResult), args.Error(1)
}

func (m *MockGateway) ToggleFavorite(ctx context.Context, contentId int64) (gateway.ToggleResult, error) {
	args := m.Called(ctx, contentId)
	return args.Get(0).(gateway.ToggleResult), args.Error(1)
}

func (m *MockGateway) CreateComment(ctx context.Context, in gateway.CreateCommentInput) (gateway.MutationResult[models.Comment], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(gateway.MutationResult[models.Comment]), args.Error(1)
}

func (m *MockGateway) UpdateComment(ctx context.Context, in gateway.UpdateCommentInput) (gateway.MutationResult[models.Comment], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(gateway.MutationResult[models.Comment]), args.Error(1)
}

func (m *MockGateway) DeleteComment(ctx context.Context, commentId int64) error {
	args := m.Called(ctx, commentId)
	return args.Error(0)
}

func (m *MockGateway) CreateReply(ctx context.Context, in gateway.CreateReplyInput) (gateway.MutationResult[models.Reply], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(gateway.MutationResult[models.Reply]), args.Error(1)
}

func (m *MockGateway) UpdateReply(ctx context.Context, in gateway.UpdateReplyInput) (gateway.MutationResult[models.Reply], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(gateway.MutationResult[models.Reply]), args.Error(1)
}

func (m *MockGateway) DeleteReply(ctx context.Context, replyId int64) error {
	args := m.Called(ctx, replyId)
	return args.Error(0)
}
