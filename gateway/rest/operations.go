package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

func (c *Client) ListTopics(ctx context.Context, filter string, page models.PageRequest) (gateway.FetchResult[models.Topic], error) {
	q := pageQuery(page)
	if filter != "" {
		q.Set("filter", filter)
	}
	var resp listResponse[models.Topic]
	if err := c.do(ctx, http.MethodGet, "/api/topics", q, nil, &resp); err != nil {
		return gateway.FetchResult[models.Topic]{}, err
	}
	return resp.result(), nil
}

func (c *Client) ListTopicComments(ctx context.Context, topicId int64, page models.PageRequest) (gateway.FetchResult[models.Comment], error) {
	var resp listResponse[models.Comment]
	if err := c.do(ctx, http.MethodGet, "/api/topics/"+id(topicId)+"/comments", pageQuery(page), nil, &resp); err != nil {
		return gateway.FetchResult[models.Comment]{}, err
	}
	return resp.result(), nil
}

func (c *Client) ListFeedComments(ctx context.Context, page models.PageRequest) (gateway.FetchResult[models.Comment], error) {
	var resp listResponse[models.Comment]
	if err := c.do(ctx, http.MethodGet, "/api/comments/feed", pageQuery(page), nil, &resp); err != nil {
		return gateway.FetchResult[models.Comment]{}, err
	}
	return resp.result(), nil
}

func (c *Client) ListReplies(ctx context.Context, commentId int64, page models.PageRequest) (gateway.FetchResult[models.Reply], error) {
	var resp listResponse[models.Reply]
	if err := c.do(ctx, http.MethodGet, "/api/comments/"+id(commentId)+"/replies", pageQuery(page), nil, &resp); err != nil {
		return gateway.FetchResult[models.Reply]{}, err
	}
	return resp.result(), nil
}

func (c *Client) ListFavorites(ctx context.Context, filter string, page models.PageRequest) (gateway.FetchResult[models.Favorite], error) {
	q := pageQuery(page)
	if filter != "" {
		q.Set("filter", filter)
	}
	var resp listResponse[models.Favorite]
	if err := c.do(ctx, http.MethodGet, "/api/favorites", q, nil, &resp); err != nil {
		return gateway.FetchResult[models.Favorite]{}, err
	}
	return resp.result(), nil
}

func likePath(target models.TargetKey) string {
	return "/api/likes/" + url.PathEscape(string(target.Kind)) + "/" + id(target.Id)
}

func (c *Client) GetLikeState(ctx context.Context, target models.TargetKey) (gateway.LikeState, error) {
	var resp gateway.LikeState
	if err := c.do(ctx, http.MethodGet, likePath(target), nil, nil, &resp); err != nil {
		return gateway.LikeState{}, err
	}
	return resp, nil
}

func (c *Client) GetFavoriteState(ctx context.Context, contentId int64) (gateway.LikeState, error) {
	var resp gateway.LikeState
	if err := c.do(ctx, http.MethodGet, "/api/favorites/"+id(contentId)+"/state", nil, nil, &resp); err != nil {
		return gateway.LikeState{}, err
	}
	return resp, nil
}

func (c *Client) ToggleLike(ctx context.Context, target models.TargetKey) (gateway.ToggleResult, error) {
	var resp gateway.ToggleResult
	if err := c.do(ctx, http.MethodPost, likePath(target)+"/toggle", nil, nil, &resp); err != nil {
		return gateway.ToggleResult{}, err
	}
	return resp, nil
}

func (c *Client) ToggleFavorite(ctx context.Context, contentId int64) (gateway.ToggleResult, error) {
	var resp gateway.ToggleResult
	if err := c.do(ctx, http.MethodPost, "/api/favorites/"+id(contentId)+"/toggle", nil, nil, &resp); err != nil {
		return gateway.ToggleResult{}, err
	}
	return resp, nil
}

func (c *Client) CreateComment(ctx context.Context, in gateway.CreateCommentInput) (gateway.MutationResult[models.Comment], error) {
	var resp models.Comment
	if err := c.do(ctx, http.MethodPost, "/api/topics/"+id(in.TopicId)+"/comments", nil, in, &resp); err != nil {
		return gateway.MutationResult[models.Comment]{}, err
	}
	return gateway.MutationResult[models.Comment]{Entity: resp}, nil
}

func (c *Client) UpdateComment(ctx context.Context, in gateway.UpdateCommentInput) (gateway.MutationResult[models.Comment], error) {
	var resp models.Comment
	if err := c.do(ctx, http.MethodPut, "/api/comments/"+id(in.CommentId), nil, in, &resp); err != nil {
		return gateway.MutationResult[models.Comment]{}, err
	}
	return gateway.MutationResult[models.Comment]{Entity: resp}, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentId int64) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+id(commentId), nil, nil, nil)
}

func (c *Client) CreateReply(ctx context.Context, in gateway.CreateReplyInput) (gateway.MutationResult[models.Reply], error) {
	var resp models.Reply
	if err := c.do(ctx, http.MethodPost, "/api/comments/"+id(in.CommentId)+"/replies", nil, in, &resp); err != nil {
		return gateway.MutationResult[models.Reply]{}, err
	}
	return gateway.MutationResult[models.Reply]{Entity: resp}, nil
}

func (c *Client) UpdateReply(ctx context.Context, in gateway.UpdateReplyInput) (gateway.MutationResult[models.Reply], error) {
	var resp models.Reply
	if err := c.do(ctx, http.MethodPut, "/api/replies/"+id(in.ReplyId), nil, in, &resp); err != nil {
		return gateway.MutationResult[models.Reply]{}, err
	}
	return gateway.MutationResult[models.Reply]{Entity: resp}, nil
}

func (c *Client) DeleteReply(ctx context.Context, replyId int64) error {
	return c.do(ctx, http.MethodDelete, "/api/replies/"+id(replyId), nil, nil, nil)
}

var _ gateway.Gateway = (*Client)(nil)
