package http

import (
	"context"
	"sync"
	"time"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

type Service interface {
	List(ctx context.Context, userID int64, unreadOnly bool, page pagination.Params) ([]domain.Notification, pagination.Meta, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
	Subscribe(ctx context.Context, userID int64) (<-chan string, func(), error)
}

type Handler struct {
	svc       Service
	keepAlive time.Duration

	closing   chan struct{}
	closeOnce sync.Once
}

func New(svc Service) *Handler {
	return &Handler{svc: svc, keepAlive: 15 * time.Second, closing: make(chan struct{})}
}

// Close ends every open stream. Streams only watch the client connection
// otherwise, which would hold a graceful shutdown open until its deadline.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}
