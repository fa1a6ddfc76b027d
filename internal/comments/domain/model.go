package domain

import (
	"time"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

// MaxContentLength is counted in runes.
const MaxContentLength = 2000

// Comment is a top-level comment on a project. Replies hang off comments only.
type Comment struct {
	ID        int64                  `json:"id"`
	ProjectID int64                  `json:"project_id"`
	UserID    int64                  `json:"user_id"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Author    authdomain.UserSummary `json:"author"`
	Replies   []Reply                `json:"replies"`
}

type Reply struct {
	ID        int64                  `json:"id"`
	CommentID int64                  `json:"comment_id"`
	UserID    int64                  `json:"user_id"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Author    authdomain.UserSummary `json:"author"`
}

// Thread identifies who is involved with a comment or reply: its author, the
// project it sits under and that project's owner.
type Thread struct {
	ProjectID       int64
	ProjectOwnerID  int64
	CommentID       int64
	CommentAuthorID int64
	ReplyID         int64
	ReplyAuthorID   int64
}
