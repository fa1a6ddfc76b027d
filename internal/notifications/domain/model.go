package domain

import (
	"time"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

type Type string

const (
	TypeLike    Type = "like"
	TypeComment Type = "comment"
	TypeReply   Type = "reply"
	TypeSystem  Type = "system"
)

// ExcerptLength caps the comment/reply preview attached to a notification.
const ExcerptLength = 120

// Notification is a stored notification enriched with whatever the referenced
// rows still say. Deleted actors or projects leave the enriched fields nil.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      Type      `json:"type"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	ProjectID *int64    `json:"project_id,omitempty"`
	CommentID *int64    `json:"comment_id,omitempty"`
	ReplyID   *int64    `json:"reply_id,omitempty"`
	Message   *string   `json:"message,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	Actor        *authdomain.UserSummary `json:"actor,omitempty"`
	ProjectTitle *string                 `json:"project_title,omitempty"`
	Excerpt      *string                 `json:"excerpt,omitempty"`
}

// CreateInput describes something that happened to UserID because of ActorID.
type CreateInput struct {
	UserID    int64
	ActorID   int64
	Type      Type
	ProjectID *int64
	CommentID *int64
	ReplyID   *int64
	Message   string
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
