package service

import (
	"context"
	"log"

	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/events"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

// failMutation records a create/update/delete failure. Nothing has been
// written to any bucket at this point.
func (s *Service) failMutation(kind cache.MutationKind, op cache.MutationOp, target models.TargetKey, err error) {
	msg := gateway.Message(err)
	s.Store.Mutations.End(kind, op, msg)
	log.Printf("Failed to %s %s %d: %v", op, kind, target.Id, err)
	s.emit(kind, op, target, events.OutcomeFailed, msg)
}

func (s *Service) succeedMutation(kind cache.MutationKind, op cache.MutationOp, target models.TargetKey) {
	s.Store.Mutations.End(kind, op, "")
	s.emit(kind, op, target, events.OutcomeApplied, "")
}

// CreateComment posts a comment and, once the server has assigned its id,
// inserts it at the head of its topic's bucket.
func (s *Service) CreateComment(ctx context.Context, in gateway.CreateCommentInput) (models.Comment, error) {
	in = in.Normalize()
	target := models.TargetKey{Kind: models.TargetTopic, Id: in.TopicId}
	s.Store.Mutations.Begin(cache.MutationComment, cache.OpCreate)

	if err := gateway.Validate(in); err != nil {
		s.failMutation(cache.MutationComment, cache.OpCreate, target, err)
		return models.Comment{}, err
	}

	res, err := s.Gateway.CreateComment(ctx, in)
	if err != nil {
		s.failMutation(cache.MutationComment, cache.OpCreate, target, err)
		return models.Comment{}, err
	}

	comment := res.Entity
	if comment.TopicId == 0 {
		comment.TopicId = in.TopicId
	}
	s.Store.Comments.Set(models.TopicScope(in.TopicId), func(b cache.Bucket[models.Comment]) cache.Bucket[models.Comment] {
		// A fetch that resolved first may already hold it
		if next, ok := b.ReplaceById(comment); ok {
			return next
		}
		return b.Prepend(comment)
	})
	s.adjustTopicCommentCount(in.TopicId, 1)

	s.succeedMutation(cache.MutationComment, cache.OpCreate, models.TargetKey{Kind: models.TargetComment, Id: comment.Id})
	return comment, nil
}

// UpdateComment replaces the comment in place in every bucket that holds it.
// A comment missing from the cache is not an error.
func (s *Service) UpdateComment(ctx context.Context, in gateway.UpdateCommentInput) (models.Comment, error) {
	in = in.Normalize()
	target := models.TargetKey{Kind: models.TargetComment, Id: in.CommentId}
	s.Store.Mutations.Begin(cache.MutationComment, cache.OpUpdate)

	if err := gateway.Validate(in); err != nil {
		s.failMutation(cache.MutationComment, cache.OpUpdate, target, err)
		return models.Comment{}, err
	}

	res, err := s.Gateway.UpdateComment(ctx, in)
	if err != nil {
		s.failMutation(cache.MutationComment, cache.OpUpdate, target, err)
		return models.Comment{}, err
	}

	comment := res.Entity
	if comment.Id == 0 {
		comment.Id = in.CommentId
	}
	s.Store.Comments.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Comment]) (cache.Bucket[models.Comment], bool) {
		return b.ReplaceById(comment)
	})

	s.succeedMutation(cache.MutationComment, cache.OpUpdate, target)
	return comment, nil
}

// DeleteComment removes the comment from every comment bucket (the caller may
// not know which scope currently owns it) and drops its reply bucket.
func (s *Service) DeleteComment(ctx context.Context, commentId int64) error {
	target := models.TargetKey{Kind: models.TargetComment, Id: commentId}
	s.Store.Mutations.Begin(cache.MutationComment, cache.OpDelete)
	s.Store.Markers.Mark(cache.MutationComment, target)
	defer s.Store.Markers.Unmark(cache.MutationComment, target)

	if err := s.Gateway.DeleteComment(ctx, commentId); err != nil {
		s.failMutation(cache.MutationComment, cache.OpDelete, target, err)
		return err
	}

	var topicId int64
	s.Store.Comments.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Comment]) (cache.Bucket[models.Comment], bool) {
		next, n := b.RemoveWhere(func(c models.Comment) bool {
			if c.Id == commentId {
				topicId = c.TopicId
				return true
			}
			return false
		})
		if n == 0 {
			return b, false
		}
		return next.AdjustTotal(-n), true
	})
	s.Store.Replies.Delete(models.CommentScope(commentId))
	if topicId != 0 {
		s.adjustTopicCommentCount(topicId, -1)
	}

	s.succeedMutation(cache.MutationComment, cache.OpDelete, target)
	return nil
}

func (s *Service) adjustTopicCommentCount(topicId int64, delta int) {
	s.Store.Topics.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Topic]) (cache.Bucket[models.Topic], bool) {
		if !b.Has(topicId) {
			return b, false
		}
		return b.MapItems(func(t models.Topic) models.Topic {
			if t.Id == topicId {
				t.CommentCount = max(0, t.CommentCount+delta)
			}
			return t
		}), true
	})
}

func (s *Service) adjustReplyCount(commentId int64, delta int) {
	s.Store.Comments.SetEach(func(_ models.ScopeKey, b cache.Bucket[models.Comment]) (cache.Bucket[models.Comment], bool) {
		if !b.Has(commentId) {
			return b, false
		}
		return b.MapItems(func(c models.Comment) models.Comment {
			if c.Id == commentId {
				c.ReplyCount = max(0, c.ReplyCount+delta)
			}
			return c
		}), true
	})
}
