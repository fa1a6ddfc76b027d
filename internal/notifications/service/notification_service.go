package service

import (
	"context"
	"time"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

type Repository interface {
	Create(ctx context.Context, in domain.CreateInput) (*domain.Notification, error)
	List(ctx context.Context, userID int64, f domain.ListFilter) ([]domain.Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Broker delivers live notifications to connected streams.
type Broker interface {
	Publish(ctx context.Context, n *domain.Notification) error
	Subscribe(ctx context.Context, userID int64) (<-chan string, func(), error)
}

type NotificationService struct {
	repo   Repository
	broker Broker
	now    func() time.Time
}

func NewNotificationService(repo Repository, broker Broker) *NotificationService {
	return &NotificationService{repo: repo, broker: broker, now: time.Now}
}

// Notify stores a notification and pushes it to live streams. Self-notifications
// are dropped silently.
func (s *NotificationService) Notify(ctx context.Context, in domain.CreateInput) error {
	switch in.Type {
	case domain.TypeLike, domain.TypeComment, domain.TypeReply, domain.TypeSystem:
	default:
		return domain.ErrInvalidType
	}
	if in.UserID == 0 || in.UserID == in.ActorID {
		return nil
	}

	n, err := s.repo.Create(ctx, in)
	if err != nil {
		return err
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, n); err != nil {
			// stored rows are still picked up by the next list call
			logging.Ctx(ctx).Warn().Err(err).Int64("user_id", in.UserID).Msg("publish notification")
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, page pagination.Params) ([]domain.Notification, pagination.Meta, error) {
	items, total, err := s.repo.List(ctx, userID, domain.ListFilter{
		UnreadOnly: unreadOnly,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.Meta(total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *NotificationService) Subscribe(ctx context.Context, userID int64) (<-chan string, func(), error) {
	if s.broker == nil {
		return nil, nil, domain.ErrStreamUnavailable
	}
	return s.broker.Subscribe(ctx, userID)
}

// PurgeRead deletes read notifications older than retentionDays. A
// non-positive retention disables the purge.
func (s *NotificationService) PurgeRead(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteReadBefore(ctx, cutoff)
}
