package domain

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ExcerptLength is the rune length of generated excerpts.
const ExcerptLength = 200

type Post struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       *string    `json:"excerpt"`
	Content       string     `json:"content"`
	ContentHTML   string     `gorm:"column:content_html" json:"content_html"`
	CoverImageURL *string    `gorm:"column:cover_image_url" json:"cover_image_url"`
	AuthorID      *int64     `json:"-"`
	Author        *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CategoryID    *int64     `json:"category_id"`
	Category      *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags          []Tag      `gorm:"many2many:blog_post_tags;joinForeignKey:BlogPostID;joinReferences:BlogTagID" json:"tags"`
	Status        Status     `json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Post) TableName() string { return "blog_posts" }

func (p *Post) IsPublished() bool { return p.Status == StatusPublished }

// Author is the read-only view of the users row that wrote a post.
type Author struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `gorm:"column:avatar_url" json:"avatar_url"`
}

func (Author) TableName() string { return "users" }

type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	PostCount   int64     `gorm:"->;-:migration" json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "blog_categories" }

type Tag struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PostCount int64     `gorm:"->;-:migration" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tag) TableName() string { return "blog_tags" }

// PostInput carries the editable fields of a post. Nil pointers on update
// leave the stored value alone.
type PostInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	CoverImageURL *string
	CategoryID    *int64
	Tags          *[]string
	Status        *Status
}

type PostFilter struct {
	Category string
	Tag      string
	Search   string
	// Status "" means any status (admin listing).
	Status Status
	Limit  int
	Offset int
}
