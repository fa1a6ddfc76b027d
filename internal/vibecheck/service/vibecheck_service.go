package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/repository"
)

type Repository interface {
	Create(ctx context.Context, vc *domain.VibeCheck) error
	Get(ctx context.Context, id uuid.UUID) (*domain.VibeCheck, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.VibeCheck, int, error)
	DeleteAnonymousBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, hash string) (*repository.CachedEvaluation, error)
	Set(ctx context.Context, hash string, ce repository.CachedEvaluation) error
}

type Evaluator interface {
	Evaluate(ctx context.Context, in domain.Input) (*domain.Evaluation, error)
	Model() string
}

type VibeCheckService struct {
	repo  Repository
	cache Cache
	eval  Evaluator
	now   func() time.Time
	newID func() uuid.UUID
}

// NewVibeCheckService accepts a nil evaluator when no model key is configured;
// Check then reports ErrEvaluatorUnavailable. cache may also be nil.
func NewVibeCheckService(repo Repository, cache Cache, eval Evaluator) *VibeCheckService {
	return &VibeCheckService{repo: repo, cache: cache, eval: eval, now: time.Now, newID: uuid.New}
}

func (s *VibeCheckService) Enabled() bool { return s.eval != nil }

// Check evaluates the input, reusing a cached verdict for the same normalized
// input, and stores a new record for the caller either way.
func (s *VibeCheckService) Check(ctx context.Context, userID int64, in domain.Input) (*domain.VibeCheck, error) {
	if s.eval == nil {
		return nil, domain.ErrEvaluatorUnavailable
	}
	norm, err := NormalizeInput(in)
	if err != nil {
		return nil, err
	}
	hash := InputHash(norm)
	log := logging.Ctx(ctx).With().Str("input_hash", hash[:12]).Logger()

	vc := &domain.VibeCheck{
		ID:        s.newID(),
		InputHash: hash,
	}
	if userID != 0 {
		vc.UserID = &userID
	}
	if norm.WebsiteURL != "" {
		vc.WebsiteURL = &norm.WebsiteURL
	}
	if norm.IdeaDescription != "" {
		vc.IdeaDescription = &norm.IdeaDescription
	}

	cached := s.lookup(ctx, hash)
	if cached != nil {
		vc.Evaluation, vc.Model, vc.Cached = cached.Evaluation, cached.Model, true
		log.Info().Msg("vibe check served from cache")
	} else {
		start := s.now()
		ev, err := s.eval.Evaluate(ctx, norm)
		if err != nil {
			return nil, err
		}
		if err := ev.Normalize(); err != nil {
			return nil, fmt.Errorf("%w: empty summary", err)
		}
		vc.Evaluation, vc.Model = *ev, s.eval.Model()
		log.Info().Dur("took", s.now().Sub(start)).Str("model", vc.Model).Msg("vibe check evaluated")

		if s.cache != nil {
			if err := s.cache.Set(ctx, hash, repository.CachedEvaluation{Evaluation: vc.Evaluation, Model: vc.Model}); err != nil {
				log.Warn().Err(err).Msg("cache vibe check")
			}
		}
	}

	if err := s.repo.Create(ctx, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

func (s *VibeCheckService) lookup(ctx context.Context, hash string) *repository.CachedEvaluation {
	if s.cache == nil {
		return nil
	}
	ce, err := s.cache.Get(ctx, hash)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("read vibe check cache")
		return nil
	}
	return ce
}

// Get treats malformed ids as missing records.
func (s *VibeCheckService) Get(ctx context.Context, id string) (*domain.VibeCheck, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, uid)
}

func (s *VibeCheckService) ListForUser(ctx context.Context, userID int64, page pagination.Params) ([]domain.VibeCheck, pagination.Meta, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.Meta(total), nil
}

// PurgeAnonymous deletes ownerless checks older than retentionDays.
func (s *VibeCheckService) PurgeAnonymous(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteAnonymousBefore(ctx, cutoff)
}
