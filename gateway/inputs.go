package gateway

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateCommentInput struct {
	TopicId int64  `json:"topicId" validate:"gt=0"`
	Content string `json:"content" validate:"required,max=2000"`
}

type UpdateCommentInput struct {
	CommentId int64  `json:"-" validate:"gt=0"`
	Content   string `json:"content" validate:"required,max=2000"`
}

type CreateReplyInput struct {
	CommentId     int64  `json:"commentId" validate:"gt=0"`
	ReplyToUserId int64  `json:"replyToUserId,omitempty" validate:"gte=0"`
	Content       string `json:"content" validate:"required,max=2000"`
}

type UpdateReplyInput struct {
	ReplyId int64  `json:"-" validate:"gt=0"`
	Content string `json:"content" validate:"required,max=2000"`
}

// Validate checks a DTO before it is sent. Callers Normalize first so
// whitespace-only bodies are rejected.
func Validate(in any) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &Error{Kind: KindInvalidInput, Message: describe(verrs[0]), Err: err}
		}
		return &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " must not be empty"
	case "max":
		return field + " is too long"
	case "gt", "gte":
		return "invalid " + field
	}
	return "invalid " + field
}

func (in CreateCommentInput) Normalize() CreateCommentInput {
	in.Content = strings.TrimSpace(in.Content)
	return in
}

func (in UpdateCommentInput) Normalize() UpdateCommentInput {
	in.Content = strings.TrimSpace(in.Content)
	return in
}

func (in CreateReplyInput) Normalize() CreateReplyInput {
	in.Content = strings.TrimSpace(in.Content)
	return in
}

func (in UpdateReplyInput) Normalize() UpdateReplyInput {
	in.Content = strings.TrimSpace(in.Content)
	return in
}
