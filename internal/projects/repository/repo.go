package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects and their
// likes, bookmarks, tags and gallery.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	var repoURL, tool, thumb, displayName, avatarURL sql.NullString
	var tags pq.StringArray

	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.ProjectURL, &repoURL,
		&tool, &thumb, &p.ViewCount, &p.ShareCount,
		&p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.Username, &displayName, &avatarURL,
		&p.LikesCount, &p.CommentsCount, &p.BookmarksCount,
		&p.IsLiked, &p.IsBookmarked,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	p.RepoURL = nullString(repoURL)
	p.VibeCodingTool = nullString(tool)
	p.ThumbnailURL = nullString(thumb)
	p.Author.ID = p.UserID
	p.Author.DisplayName = nullString(displayName)
	p.Author.AvatarURL = nullString(avatarURL)
	p.Tags = []string(tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// List returns one page of the feed plus the total number of matching projects.
func (r *ProjectRepository) List(ctx context.Context, f domain.FeedFilter, viewerID int64) ([]domain.Project, int, error) {
	listSQL, listArgs, countSQL, countArgs, err := BuildFeedQuery(f, viewerID)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, f.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID loads a project with its aggregates and gallery.
func (r *ProjectRepository) GetByID(ctx context.Context, id, viewerID int64) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, projectSelect+` WHERE p.id = $2`, viewerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT image_url, caption, position
FROM project_gallery_images
WHERE project_id = $1
ORDER BY position, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Gallery = []domain.GalleryImage{}
	for rows.Next() {
		var g domain.GalleryImage
		var caption sql.NullString
		if err := rows.Scan(&g.ImageURL, &caption, &g.Position); err != nil {
			return nil, err
		}
		g.Caption = nullString(caption)
		p.Gallery = append(p.Gallery, g)
	}
	return p, rows.Err()
}

// OwnerID returns the id of the user who created the project.
func (r *ProjectRepository) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM projects WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProjectNotFound
	}
	return owner, err
}

// Create inserts the project, its tags and gallery in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, userID int64, in domain.ProjectInput) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO projects (user_id, title, description, project_url, repo_url, vibe_coding_tool, thumbnail_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var id int64
	err = tx.QueryRowContext(ctx, q, userID, in.Title, in.Description, in.ProjectURL,
		in.RepoURL, in.VibeCodingTool, in.ThumbnailURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}

	if err := replaceTags(ctx, tx, id, in.Tags); err != nil {
		return 0, err
	}
	if err := replaceGallery(ctx, tx, id, in.Gallery); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces every editable field, the tag set and the gallery.
func (r *ProjectRepository) Update(ctx context.Context, id int64, in domain.ProjectInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
UPDATE projects
SET title = $2, description = $3, project_url = $4, repo_url = $5,
    vibe_coding_tool = $6, thumbnail_url = $7, updated_at = NOW()
WHERE id = $1`

	res, err := tx.ExecContext(ctx, q, id, in.Title, in.Description, in.ProjectURL,
		in.RepoURL, in.VibeCodingTool, in.ThumbnailURL)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrProjectNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = $1`, id); err != nil {
		return err
	}
	if err := replaceTags(ctx, tx, id, in.Tags); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_gallery_images WHERE project_id = $1`, id); err != nil {
		return err
	}
	if err := replaceGallery(ctx, tx, id, in.Gallery); err != nil {
		return err
	}

	return tx.Commit()
}

// replaceTags upserts each tag name and links it to the project.
func replaceTags(ctx context.Context, tx *sql.Tx, projectID int64, tags []string) error {
	const upsert = `
INSERT INTO tags (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`
	for _, name := range tags {
		var tagID int64
		if err := tx.QueryRowContext(ctx, upsert, name).Scan(&tagID); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_tags (project_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			projectID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

func replaceGallery(ctx context.Context, tx *sql.Tx, projectID int64, images []domain.GalleryImage) error {
	for i, img := range images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_gallery_images (project_id, image_url, caption, position) VALUES ($1, $2, $3, $4)`,
			projectID, img.ImageURL, img.Caption, i); err != nil {
			return fmt.Errorf("insert gallery image: %w", err)
		}
	}
	return nil
}

// Delete removes the project; likes, bookmarks, comments and tags links cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// AddLike reports whether a new like row was created.
func (r *ProjectRepository) AddLike(ctx context.Context, userID, projectID int64) (bool, error) {
	return r.insertEdge(ctx,
		`INSERT INTO project_likes (user_id, project_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, projectID)
}

func (r *ProjectRepository) RemoveLike(ctx context.Context, userID, projectID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_likes WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

func (r *ProjectRepository) AddBookmark(ctx context.Context, userID, projectID int64) (bool, error) {
	return r.insertEdge(ctx,
		`INSERT INTO project_bookmarks (user_id, project_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, projectID)
}

func (r *ProjectRepository) RemoveBookmark(ctx context.Context, userID, projectID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_bookmarks WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

func (r *ProjectRepository) insertEdge(ctx context.Context, q string, userID, projectID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, q, userID, projectID)
	if err != nil {
		// foreign key violation → the project is gone
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, domain.ErrProjectNotFound
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProjectRepository) LikesCount(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_likes WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

func (r *ProjectRepository) BookmarksCount(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_bookmarks WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

// IncrementViews bumps view_count and returns the new value.
func (r *ProjectRepository) IncrementViews(ctx context.Context, id int64) (int, error) {
	return r.bumpCounter(ctx, `UPDATE projects SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id)
}

func (r *ProjectRepository) ViewCount(ctx context.Context, id int64) (int, error) {
	return r.bumpCounter(ctx, `SELECT view_count FROM projects WHERE id = $1`, id)
}

func (r *ProjectRepository) IncrementShares(ctx context.Context, id int64) (int, error) {
	return r.bumpCounter(ctx, `UPDATE projects SET share_count = share_count + 1 WHERE id = $1 RETURNING share_count`, id)
}

func (r *ProjectRepository) bumpCounter(ctx context.Context, q string, id int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProjectNotFound
	}
	return n, err
}

// SetFeatured sets is_featured, or flips it when featured is nil.
func (r *ProjectRepository) SetFeatured(ctx context.Context, id int64, featured *bool) (bool, error) {
	var out bool
	err := r.db.QueryRowContext(ctx, `
UPDATE projects SET is_featured = COALESCE($2::boolean, NOT is_featured), updated_at = NOW()
WHERE id = $1
RETURNING is_featured`, id, featured).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrProjectNotFound
	}
	return out, err
}

// PopularTags returns tags ordered by how many projects use them.
func (r *ProjectRepository) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.name, COUNT(pt.project_id) AS projects_count
FROM tags t
JOIN project_tags pt ON pt.tag_id = t.id
GROUP BY t.id, t.name
ORDER BY projects_count DESC, t.name ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TagCount, 0, limit)
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Name, &tc.ProjectsCount); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
