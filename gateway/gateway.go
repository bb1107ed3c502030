package gateway

import (
	"context"

	"github.com/zlnvch/reviewclient/models"
)

// FetchResult is the normalized payload of every paginated fetch.
type FetchResult[T models.Entity] struct {
	Items []T
	Meta  *models.PageMeta
}

// LikeState is the scalar payload of a like or favorite state fetch.
type LikeState struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}

// ToggleResult carries the authoritative state after a toggle.
type ToggleResult struct {
	Liked bool `json:"liked"`
}

// MutationResult carries the full entity returned by a create or update.
type MutationResult[T models.Entity] struct {
	Entity T
}

// Gateway has one call per server operation. Implementations return a
// *Error on failure and never retry.
type Gateway interface {
	ListTopics(ctx context.Context, filter string, page models.PageRequest) (FetchResult[models.Topic], error)
	ListTopicComments(ctx context.Context, topicId int64, page models.PageRequest) (FetchResult[models.Comment], error)
	ListFeedComments(ctx context.Context, page models.PageRequest) (FetchResult[models.Comment], error)
	ListReplies(ctx context.Context, commentId int64, page models.PageRequest) (FetchResult[models.Reply], error)
	ListFavorites(ctx context.Context, filter string, page models.PageRequest) (FetchResult[models.Favorite], error)

	GetLikeState(ctx context.Context, target models.TargetKey) (LikeState, error)
	GetFavoriteState(ctx context.Context, contentId int64) (LikeState, error)
	ToggleLike(ctx context.Context, target models.TargetKey) (ToggleResult, error)
	ToggleFavorite(ctx context.Context, contentId int64) (ToggleResult, error)

	CreateComment(ctx context.Context, in CreateCommentInput) (MutationResult[models.Comment], error)
	UpdateComment(ctx context.Context, in UpdateCommentInput) (MutationResult[models.Comment], error)
	DeleteComment(ctx context.Context, commentId int64) error

	CreateReply(ctx context.Context, in CreateReplyInput) (MutationResult[models.Reply], error)
	UpdateReply(ctx context.Context, in UpdateReplyInput) (MutationResult[models.Reply], error)
	DeleteReply(ctx context.Context, replyId int64) error
}
