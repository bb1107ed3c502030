package service

import (
	"context"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

// CreateReply posts a reply and appends it to its comment's bucket
// (chronological order), bumping meta.total when the bucket is paginated.
func (s *Service) CreateReply(ctx context.Context, in gateway.CreateReplyInput) (models.Reply, error) {
	in = in.Normalize()
	target := models.TargetKey{Kind: models.TargetComment, Id: in.CommentId}
	s.Store.Mutations.Begin(cache.MutationReply, cache.OpCreate)

	if err := gateway.Validate(in); err != nil {
		s.failMutation(cache.MutationReply, cache.OpCreate, target, err)
		return models.Reply{}, err
	}

	res, err := s.Gateway.CreateReply(ctx, in)
	if err != nil {
		s.failMutation(cache.MutationReply, cache.OpCreate, target, err)
		return models.Reply{}, err
	}

	reply := res.Entity
	if reply.CommentId == 0 {
		reply.CommentId = in.CommentId
	}
	added := false
	s.Store.Replies.Set(models.CommentScope(in.CommentId), func(b cache.Bucket[models.Reply]) cache.Bucket[models.Reply] {
		if next, ok := b.ReplaceById(reply); ok {
			return next
		}
		added = true
		return b.Append(reply).AdjustTotal(1)
	})
	if added {
		s.adjustReplyCount(in.CommentId, 1)
	}

	s.succeedMutation(cache.MutationReply, cache.OpCreate, models.TargetKey{Kind: models.TargetReply, Id: reply.Id})
	return reply, nil
}

// UpdateReply replaces the reply in every bucket holding it; absent is a no-op.
func (s *Service) UpdateReply(ctx context.Context, in gateway.UpdateReplyInput) (models.Reply, error) {
	in = in.Normalize()
	target := models.TargetKey{Kind: models.TargetReply, Id: in.ReplyId}
	s.Store.Mutations.Begin(cache.MutationReply, cache.OpUpdate)

	if err := gateway.Validate(in); err != nil {
		s.failMutation(cache.MutationReply, cache.OpUpdate, target, err)
		return models.Reply{}, err
	}

	res, err := s.Gateway.UpdateReply(ctx, in)
	if err != nil {
		s.failMutation(cache.MutationReply, cache.OpUpdate, target, err)
		return models.Reply{}, err
	}

	reply := res.Entity
	if reply.Id == 0 {
		reply.Id = in.ReplyId
	}
	s.Store.Replies.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Reply]) (cache.Bucket[models.Reply], bool) {
		return b.ReplaceById(reply)
	})

	s.succeedMutation(cache.MutationReply, cache.OpUpdate, target)
	return reply, nil
}

// DeleteReply sweeps every reply bucket and decrements the parent comment's
// reply count once.
func (s *Service) DeleteReply(ctx context.Context, replyId int64) error {
	target := models.TargetKey{Kind: models.TargetReply, Id: replyId}
	s.Store.Mutations.Begin(cache.MutationReply, cache.OpDelete)
	s.Store.Markers.Mark(cache.MutationReply, target)
	defer s.Store.Markers.Unmark(cache.MutationReply, target)

	if err := s.Gateway.DeleteReply(ctx, replyId); err != nil {
		s.failMutation(cache.MutationReply, cache.OpDelete, target, err)
		return err
	}

	var parentId int64
	s.Store.Replies.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Reply]) (cache.Bucket[models.Reply], bool) {
		next, n := b.RemoveWhere(func(r models.Reply) bool {
			if r.Id == replyId {
				parentId = r.CommentId
				return true
			}
			return false
		})
		if n == 0 {
			return b, false
		}
		return next.AdjustTotal(-n), true
	})
	if parentId != 0 {
		s.adjustReplyCount(parentId, -1)
	}

	s.succeedMutation(cache.MutationReply, cache.OpDelete, target)
	return nil
}
