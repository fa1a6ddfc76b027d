package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix = "project:view:" // project:view:{project_id}:{viewer}
	viewWindow    = 24 * time.Hour
)

// ViewTracker remembers which viewers already counted a view in the current window.
type ViewTracker struct {
	client *redis.Client
	window time.Duration
}

func NewViewTracker(client *redis.Client) *ViewTracker {
	return &ViewTracker{client: client, window: viewWindow}
}

// FirstView reports whether this is the viewer's first view of the project
// within the window, and marks it seen.
func (t *ViewTracker) FirstView(ctx context.Context, projectID int64, viewer string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.viewKey(projectID, viewer), 1, t.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record view: %w", err)
	}
	return ok, nil
}

func (t *ViewTracker) viewKey(projectID int64, viewer string) string {
	return fmt.Sprintf("%s%d:%s", viewKeyPrefix, projectID, viewer)
}
