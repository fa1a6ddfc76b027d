package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
)

// BlogRepository stores the CMS tables through gorm.
type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{})
	if f.Status != "" {
		q = q.Where("blog_posts.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("blog_posts.category_id = (SELECT id FROM blog_categories WHERE slug = ?)", f.Category)
	}
	if f.Tag != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM blog_post_tags pt JOIN blog_tags t ON t.id = pt.blog_tag_id
WHERE pt.blog_post_id = blog_posts.id AND t.slug = ?)`, f.Tag)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("(blog_posts.title ILIKE ? OR blog_posts.content ILIKE ?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []domain.Post
	err := q.Preload("Author").Preload("Category").Preload("Tags").
		Order("blog_posts.published_at DESC NULLS LAST").
		Order("blog_posts.id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *BlogRepository) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.firstPost(ctx, "slug = ?", slug)
}

func (r *BlogRepository) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	return r.firstPost(ctx, "id = ?", id)
}

func (r *BlogRepository) firstPost(ctx context.Context, cond string, arg any) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Category").Preload("Tags").
		Where(cond, arg).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost inserts the post and links p.Tags, which must already exist.
func (r *BlogRepository) CreatePost(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		return replaceTags(tx, p)
	})
}

// UpdatePost writes every column of p and replaces its tag links.
func (r *BlogRepository) UpdatePost(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Save(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrPostNotFound
		}
		return replaceTags(tx, p)
	})
}

func replaceTags(tx *gorm.DB, p *domain.Post) error {
	assoc := tx.Model(p).Association("Tags")
	if len(p.Tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(p.Tags)
}

func (r *BlogRepository) DeletePost(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *BlogRepository) PostSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return r.slugTaken(ctx, &domain.Post{}, slug, exceptID)
}

func (r *BlogRepository) CategorySlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return r.slugTaken(ctx, &domain.Category{}, slug, exceptID)
}

func (r *BlogRepository) TagSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return r.slugTaken(ctx, &domain.Tag{}, slug, exceptID)
}

func (r *BlogRepository) slugTaken(ctx context.Context, model any, slug string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

// ListCategories returns every category with its published post count.
func (r *BlogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Select("blog_categories.*, COUNT(p.id) AS post_count").
		Joins("LEFT JOIN blog_posts p ON p.category_id = blog_categories.id AND p.status = ?", domain.StatusPublished).
		Group("blog_categories.id").
		Order("blog_categories.name").
		Find(&out).Error
	return out, err
}

func (r *BlogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *BlogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *BlogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).Model(c).
		Select("name", "slug", "description").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *BlogRepository) DeleteCategory(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// ListTags returns every tag with its published post count.
func (r *BlogRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	err := r.db.WithContext(ctx).Model(&domain.Tag{}).
		Select("blog_tags.*, COUNT(p.id) AS post_count").
		Joins("LEFT JOIN blog_post_tags pt ON pt.blog_tag_id = blog_tags.id").
		Joins("LEFT JOIN blog_posts p ON p.id = pt.blog_post_id AND p.status = ?", domain.StatusPublished).
		Group("blog_tags.id").
		Order("blog_tags.name").
		Find(&out).Error
	return out, err
}

func (r *BlogRepository) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EnsureTags returns the tags with the given slugs, creating missing ones
// with the supplied names.
func (r *BlogRepository) EnsureTags(ctx context.Context, tags []domain.Tag) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(tags))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tags {
			var row domain.Tag
			err := tx.Where(domain.Tag{Slug: t.Slug}).
				Attrs(domain.Tag{Name: t.Name}).
				FirstOrCreate(&row).Error
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BlogRepository) CreateTag(ctx context.Context, t *domain.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *BlogRepository) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res := r.db.WithContext(ctx).Model(t).
		Select("name", "slug").
		Updates(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func (r *BlogRepository) DeleteTag(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Tag{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
