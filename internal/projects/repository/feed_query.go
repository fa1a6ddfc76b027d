package repository

import (
	"fmt"
	"strings"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
)

// projectSelect reads one project row plus aggregates. $1 is always the viewer id
// (0 for anonymous, which matches no like or bookmark).
const projectSelect = `
SELECT p.id, p.user_id, p.title, p.description, p.project_url, p.repo_url,
       p.vibe_coding_tool, p.thumbnail_url, p.view_count, p.share_count,
       p.is_featured, p.created_at, p.updated_at,
       u.username, u.display_name, u.avatar_url,
       (SELECT COUNT(*) FROM project_likes pl WHERE pl.project_id = p.id) AS likes_count,
       (SELECT COUNT(*) FROM comments c WHERE c.project_id = p.id) AS comments_count,
       (SELECT COUNT(*) FROM project_bookmarks pb WHERE pb.project_id = p.id) AS bookmarks_count,
       EXISTS (SELECT 1 FROM project_likes pl WHERE pl.project_id = p.id AND pl.user_id = $1) AS is_liked,
       EXISTS (SELECT 1 FROM project_bookmarks pb WHERE pb.project_id = p.id AND pb.user_id = $1) AS is_bookmarked,
       ARRAY(SELECT t.name FROM project_tags pt JOIN tags t ON t.id = pt.tag_id
             WHERE pt.project_id = p.id ORDER BY t.name) AS tags
FROM projects p
JOIN users u ON u.id = p.user_id`

// orderBy is the closed set of ORDER BY clauses; user input only picks a key.
var orderBy = map[domain.Sort]string{
	domain.SortNewest:        "p.created_at DESC, p.id DESC",
	domain.SortOldest:        "p.created_at ASC, p.id ASC",
	domain.SortPopular:       "likes_count DESC, p.created_at DESC, p.id DESC",
	domain.SortMostCommented: "comments_count DESC, p.created_at DESC, p.id DESC",
	domain.SortMostViewed:    "p.view_count DESC, p.created_at DESC, p.id DESC",
	domain.SortTrending: "(SELECT COUNT(*) FROM project_likes tl WHERE tl.project_id = p.id " +
		"AND tl.created_at > NOW() - INTERVAL '7 days') DESC, likes_count DESC, p.created_at DESC, p.id DESC",
}

// whereBuilder collects conditions and numbers their placeholders after any
// arguments already present.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, replacing each %s with the placeholder for v.
func (w *whereBuilder) add(cond string, v any) {
	w.args = append(w.args, v)
	ph := fmt.Sprintf("$%d", len(w.args))
	w.conds = append(w.conds, strings.ReplaceAll(cond, "%s", ph))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func applyFilter(w *whereBuilder, f domain.FeedFilter) {
	if f.Tag != "" {
		w.add(`EXISTS (SELECT 1 FROM project_tags ft JOIN tags t ON t.id = ft.tag_id
             WHERE ft.project_id = p.id AND t.name = %s)`, f.Tag)
	}
	if f.Search != "" {
		w.add(`(p.title ILIKE %s OR p.description ILIKE %s)`, "%"+escapeLike(f.Search)+"%")
	}
	if f.UserID > 0 {
		w.add(`p.user_id = %s`, f.UserID)
	}
	if f.Featured != nil {
		w.add(`p.is_featured = %s`, *f.Featured)
	}
	if f.LikedBy > 0 {
		w.add(`EXISTS (SELECT 1 FROM project_likes fl WHERE fl.project_id = p.id AND fl.user_id = %s)`, f.LikedBy)
	}
	if f.BookmarkedBy > 0 {
		w.add(`EXISTS (SELECT 1 FROM project_bookmarks fb WHERE fb.project_id = p.id AND fb.user_id = %s)`, f.BookmarkedBy)
	}
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// BuildFeedQuery returns the page query and the matching count query, each with
// its own argument list.
func BuildFeedQuery(f domain.FeedFilter, viewerID int64) (listSQL string, listArgs []any, countSQL string, countArgs []any, err error) {
	sort := f.Sort
	if sort == "" {
		sort = domain.SortNewest
	}
	order, ok := orderBy[sort]
	if !ok {
		return "", nil, "", nil, domain.ErrInvalidSort
	}

	list := &whereBuilder{args: []any{viewerID}}
	applyFilter(list, f)
	list.args = append(list.args, f.Limit, f.Offset)
	listSQL = fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		projectSelect, list.clause(), order, len(list.args)-1, len(list.args))

	count := &whereBuilder{}
	applyFilter(count, f)
	countSQL = "SELECT COUNT(*) FROM projects p" + count.clause()

	return listSQL, list.args, countSQL, count.args, nil
}
