package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the application.
// Firebase UID links the row to the identity provider; ID is what every
// other table references.
type User struct {
	ID          int64      `json:"id"`
	FirebaseUID string     `json:"-"`
	Username    string     `json:"username"`
	Email       *string    `json:"email,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	WebsiteURL  *string    `json:"website_url,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Summary is the author block embedded in projects, comments and notifications.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

// UserSummary is the public subset of a user shown next to content.
type UserSummary struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// PublicProfile is what anyone can see at /users/:username.
type PublicProfile struct {
	UserSummary
	Bio           *string   `json:"bio,omitempty"`
	WebsiteURL    *string   `json:"website_url,omitempty"`
	ProjectsCount int       `json:"projects_count"`
	LikesReceived int       `json:"likes_received"`
	CommentsCount int       `json:"comments_count"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Identity is what the auth middleware learned about the caller.
type Identity struct {
	FirebaseUID string
	Email       string
	DisplayName string
	AvatarURL   string
}

// SyncUserRequest carries profile fields supplied on first sign-in.
type SyncUserRequest struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	WebsiteURL  *string
}

// UpdateUserRequest represents data for updating a user; nil means unchanged.
type UpdateUserRequest struct {
	Username    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	WebsiteURL  *string
}
