package models

import (
	"strconv"
	"time"
)

// Entity is any server-owned record with a stable id.
type Entity interface {
	EntityId() int64
}

type Topic struct {
	Id           int64     `json:"id"`
	ContentId    int64     `json:"contentId"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	UserId       int64     `json:"userId"`
	Username     string    `json:"username"`
	CommentCount int       `json:"commentCount"`
	LikeCount    int       `json:"likeCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (t Topic) EntityId() int64 { return t.Id }

type Comment struct {
	Id         int64     `json:"id"`
	TopicId    int64     `json:"topicId"`
	UserId     int64     `json:"userId"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar,omitempty"`
	Content    string    `json:"content"`
	LikeCount  int       `json:"likeCount"`
	ReplyCount int       `json:"replyCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c Comment) EntityId() int64 { return c.Id }

type Reply struct {
	Id            int64     `json:"id"`
	CommentId     int64     `json:"commentId"`
	UserId        int64     `json:"userId"`
	Username      string    `json:"username"`
	ReplyToUserId int64     `json:"replyToUserId,omitempty"`
	ReplyToName   string    `json:"replyToName,omitempty"`
	Content       string    `json:"content"`
	LikeCount     int       `json:"likeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r Reply) EntityId() int64 { return r.Id }

// Favorite is a favorites-list record. Id identifies the record itself,
// ContentId the movie it points at.
type Favorite struct {
	Id        int64     `json:"id"`
	ContentId int64     `json:"contentId"`
	Title     string    `json:"title"`
	PosterUrl string    `json:"posterUrl,omitempty"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f Favorite) EntityId() int64 { return f.Id }

type PageMeta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps the request to page >= 1 and 1 <= size <= MaxPageSize.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// TotalPagesFor returns the page count for total items split into pages of size.
func TotalPagesFor(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ScopeKey selects which list bucket an operation targets.
type ScopeKey string

const HomeFeedScope ScopeKey = "feed:home"

func TopicScope(topicId int64) ScopeKey {
	return ScopeKey("topic:" + strconv.FormatInt(topicId, 10))
}

func CommentScope(commentId int64) ScopeKey {
	return ScopeKey("comment:" + strconv.FormatInt(commentId, 10))
}

// FavoritesScope keys a favorites list; filter may be empty for the default list.
func FavoritesScope(filter string) ScopeKey {
	if filter == "" {
		return "favorites"
	}
	return ScopeKey("favorites:" + filter)
}

func TopicListScope(filter string) ScopeKey {
	if filter == "" {
		return "topics"
	}
	return ScopeKey("topics:" + filter)
}

type TargetKind string

const (
	TargetComment TargetKind = "comment"
	TargetReply   TargetKind = "reply"
	TargetContent TargetKind = "content"
	TargetTopic   TargetKind = "topic"
)

func (k TargetKind) Valid() bool {
	switch k {
	case TargetComment, TargetReply, TargetContent, TargetTopic:
		return true
	}
	return false
}

// TargetKey identifies a like or favorite target.
type TargetKey struct {
	Kind TargetKind `json:"kind"`
	Id   int64      `json:"id"`
}

func (t TargetKey) String() string {
	return string(t.Kind) + ":" + strconv.FormatInt(t.Id, 10)
}

// ContentTarget is the target used for favorites.
func ContentTarget(contentId int64) TargetKey {
	return TargetKey{Kind: TargetContent, Id: contentId}
}
