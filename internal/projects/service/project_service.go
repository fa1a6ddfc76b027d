package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	notifdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

const maxTags = 10

// Repository is the persistence the service needs; *repository.ProjectRepository satisfies it.
type Repository interface {
	List(ctx context.Context, f domain.FeedFilter, viewerID int64) ([]domain.Project, int, error)
	GetByID(ctx context.Context, id, viewerID int64) (*domain.Project, error)
	OwnerID(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, userID int64, in domain.ProjectInput) (int64, error)
	Update(ctx context.Context, id int64, in domain.ProjectInput) error
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, userID, projectID int64) (bool, error)
	RemoveLike(ctx context.Context, userID, projectID int64) error
	AddBookmark(ctx context.Context, userID, projectID int64) (bool, error)
	RemoveBookmark(ctx context.Context, userID, projectID int64) error
	LikesCount(ctx context.Context, projectID int64) (int, error)
	BookmarksCount(ctx context.Context, projectID int64) (int, error)
	IncrementViews(ctx context.Context, id int64) (int, error)
	ViewCount(ctx context.Context, id int64) (int, error)
	IncrementShares(ctx context.Context, id int64) (int, error)
	SetFeatured(ctx context.Context, id int64, featured *bool) (bool, error)
	PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error)
}

// ViewDeduper decides whether a view should count.
type ViewDeduper interface {
	FirstView(ctx context.Context, projectID int64, viewer string) (bool, error)
}

// Notifier delivers notifications to project owners.
type Notifier interface {
	Notify(ctx context.Context, in notifdomain.CreateInput) error
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo          Repository
	views         ViewDeduper
	notifier      Notifier
	publicBaseURL string
}

func NewProjectService(repo Repository, views ViewDeduper, notifier Notifier, publicBaseURL string) *ProjectService {
	return &ProjectService{
		repo:          repo,
		views:         views,
		notifier:      notifier,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Feed returns one page of projects matching f.
func (s *ProjectService) Feed(ctx context.Context, f domain.FeedFilter, page pagination.Params, viewerID int64) ([]domain.Project, pagination.Meta, error) {
	if f.Sort != "" && !f.Sort.Valid() {
		return nil, pagination.Meta{}, domain.ErrInvalidSort
	}
	f.Tag = validation.NormalizeTag(f.Tag)
	f.Search = strings.TrimSpace(f.Search)
	f.Limit = page.Limit
	f.Offset = page.Offset()

	items, total, err := s.repo.List(ctx, f, viewerID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.Meta(total), nil
}

func (s *ProjectService) Get(ctx context.Context, id, viewerID int64) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id, viewerID)
}

// Create stores a new project owned by userID and returns it as the owner sees it.
func (s *ProjectService) Create(ctx context.Context, userID int64, in domain.ProjectInput) (*domain.Project, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, userID)
}

// Update replaces the project; only the owner or an admin may do it.
func (s *ProjectService) Update(ctx context.Context, actor *authdomain.User, id int64, in domain.ProjectInput) (*domain.Project, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, actor.ID)
}

func (s *ProjectService) Delete(ctx context.Context, actor *authdomain.User, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProjectService) authorize(ctx context.Context, actor *authdomain.User, id int64) error {
	owner, err := s.repo.OwnerID(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (actor.ID != owner && !actor.IsAdmin()) {
		return domain.ErrForbidden
	}
	return nil
}

// Like is idempotent; only a newly created like notifies the owner.
func (s *ProjectService) Like(ctx context.Context, userID, projectID int64) (bool, int, error) {
	owner, err := s.repo.OwnerID(ctx, projectID)
	if err != nil {
		return false, 0, err
	}
	created, err := s.repo.AddLike(ctx, userID, projectID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.repo.LikesCount(ctx, projectID)
	if err != nil {
		return false, 0, err
	}

	if created && owner != userID {
		pid := projectID
		s.notify(ctx, notifdomain.CreateInput{UserID: owner, ActorID: userID, Type: notifdomain.TypeLike, ProjectID: &pid})
	}
	return true, count, nil
}

func (s *ProjectService) Unlike(ctx context.Context, userID, projectID int64) (bool, int, error) {
	if _, err := s.repo.OwnerID(ctx, projectID); err != nil {
		return false, 0, err
	}
	if err := s.repo.RemoveLike(ctx, userID, projectID); err != nil {
		return false, 0, err
	}
	count, err := s.repo.LikesCount(ctx, projectID)
	return false, count, err
}

func (s *ProjectService) Bookmark(ctx context.Context, userID, projectID int64) (bool, int, error) {
	if _, err := s.repo.AddBookmark(ctx, userID, projectID); err != nil {
		return false, 0, err
	}
	count, err := s.repo.BookmarksCount(ctx, projectID)
	return true, count, err
}

func (s *ProjectService) Unbookmark(ctx context.Context, userID, projectID int64) (bool, int, error) {
	if _, err := s.repo.OwnerID(ctx, projectID); err != nil {
		return false, 0, err
	}
	if err := s.repo.RemoveBookmark(ctx, userID, projectID); err != nil {
		return false, 0, err
	}
	count, err := s.repo.BookmarksCount(ctx, projectID)
	return false, count, err
}

// RecordView counts a view once per viewer per window. When the dedup store is
// unavailable the view is counted.
func (s *ProjectService) RecordView(ctx context.Context, projectID int64, viewer string) (bool, int, error) {
	first := true
	if s.views != nil {
		ok, err := s.views.FirstView(ctx, projectID, viewer)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("project_id", projectID).Msg("view dedup unavailable")
		} else {
			first = ok
		}
	}

	if !first {
		n, err := s.repo.ViewCount(ctx, projectID)
		return false, n, err
	}
	n, err := s.repo.IncrementViews(ctx, projectID)
	return err == nil, n, err
}

// Share bumps share_count and returns the platform-specific share link.
func (s *ProjectService) Share(ctx context.Context, projectID int64, platform string) (*domain.ShareResult, error) {
	p, err := s.repo.GetByID(ctx, projectID, 0)
	if err != nil {
		return nil, err
	}
	link, err := ShareURL(platform, fmt.Sprintf("%s/projects/%d", s.publicBaseURL, projectID), p.Title)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.IncrementShares(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &domain.ShareResult{Platform: platform, ShareURL: link, ShareCount: count}, nil
}

func (s *ProjectService) SetFeatured(ctx context.Context, projectID int64, featured *bool) (bool, error) {
	return s.repo.SetFeatured(ctx, projectID, featured)
}

func (s *ProjectService) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.PopularTags(ctx, limit)
}

func (s *ProjectService) notify(ctx context.Context, in notifdomain.CreateInput) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, in); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("type", string(in.Type)).Int64("user_id", in.UserID).Msg("notify")
	}
}

// ShareURL builds the link a share button opens for platform.
func ShareURL(platform, projectURL, title string) (string, error) {
	u := url.QueryEscape(projectURL)
	t := url.QueryEscape(title)
	switch platform {
	case domain.PlatformTwitter:
		return "https://twitter.com/intent/tweet?text=" + t + "&url=" + u, nil
	case domain.PlatformLinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + u, nil
	case domain.PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + u, nil
	case domain.PlatformReddit:
		return "https://www.reddit.com/submit?url=" + u + "&title=" + t, nil
	case domain.PlatformCopy:
		return projectURL, nil
	}
	return "", domain.ErrInvalidPlatform
}

// normalizeInput trims text fields and lowercases, de-duplicates and checks tags.
func normalizeInput(in domain.ProjectInput) (domain.ProjectInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ProjectURL = strings.TrimSpace(in.ProjectURL)
	in.RepoURL = trimOptional(in.RepoURL)
	in.VibeCodingTool = trimOptional(in.VibeCodingTool)
	in.ThumbnailURL = trimOptional(in.ThumbnailURL)

	seen := make(map[string]bool, len(in.Tags))
	tags := make([]string, 0, len(in.Tags))
	for _, raw := range in.Tags {
		t := validation.NormalizeTag(raw)
		if t == "" || seen[t] {
			continue
		}
		if !validation.IsTag(t) {
			return in, fmt.Errorf("%w: %q", domain.ErrInvalidTag, raw)
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return in, fmt.Errorf("%w: at most %d tags", domain.ErrInvalidTag, maxTags)
	}
	in.Tags = tags
	return in, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
