package domain

import (
	"time"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

// Project is a showcased build together with its per-request aggregates.
// IsLiked and IsBookmarked are relative to the caller and false for anonymous feeds.
type Project struct {
	ID             int64                  `json:"id"`
	UserID         int64                  `json:"user_id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	ProjectURL     string                 `json:"project_url"`
	RepoURL        *string                `json:"repo_url,omitempty"`
	VibeCodingTool *string                `json:"vibe_coding_tool,omitempty"`
	ThumbnailURL   *string                `json:"thumbnail_url,omitempty"`
	ViewCount      int                    `json:"view_count"`
	ShareCount     int                    `json:"share_count"`
	IsFeatured     bool                   `json:"is_featured"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Author         authdomain.UserSummary `json:"author"`
	Tags           []string               `json:"tags"`
	Gallery        []GalleryImage         `json:"gallery,omitempty"`

	LikesCount     int  `json:"likes_count"`
	CommentsCount  int  `json:"comments_count"`
	BookmarksCount int  `json:"bookmarks_count"`
	IsLiked        bool `json:"is_liked"`
	IsBookmarked   bool `json:"is_bookmarked"`
}

type GalleryImage struct {
	ImageURL string  `json:"image_url"`
	Caption  *string `json:"caption,omitempty"`
	Position int     `json:"position"`
}

// TagCount is a tag with the number of projects carrying it.
type TagCount struct {
	Name          string `json:"name"`
	ProjectsCount int    `json:"projects_count"`
}

// ProjectInput is the full editable state of a project; updates replace all of it.
type ProjectInput struct {
	Title          string
	Description    string
	ProjectURL     string
	RepoURL        *string
	VibeCodingTool *string
	ThumbnailURL   *string
	Tags           []string
	Gallery        []GalleryImage
}

// Sort keys accepted by the feed.
type Sort string

const (
	SortNewest        Sort = "newest"
	SortOldest        Sort = "oldest"
	SortPopular       Sort = "popular"
	SortMostCommented Sort = "most_commented"
	SortMostViewed    Sort = "most_viewed"
	SortTrending      Sort = "trending"
)

func (s Sort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortPopular, SortMostCommented, SortMostViewed, SortTrending:
		return true
	}
	return false
}

// FeedFilter selects and orders a page of projects.
type FeedFilter struct {
	Tag          string
	Search       string
	UserID       int64
	Featured     *bool
	LikedBy      int64
	BookmarkedBy int64
	Sort         Sort
	Limit        int
	Offset       int
}

// Share platforms.
const (
	PlatformTwitter  = "twitter"
	PlatformLinkedIn = "linkedin"
	PlatformFacebook = "facebook"
	PlatformReddit   = "reddit"
	PlatformCopy     = "copy"
)

type ShareResult struct {
	Platform   string `json:"platform"`
	ShareURL   string `json:"share_url"`
	ShareCount int    `json:"share_count"`
}
