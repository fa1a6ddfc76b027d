package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
)

const userChannelPrefix = "notify:user:" // notify:user:{user_id}

// Publisher fans notifications out over Redis Pub/Sub so any API instance
// holding the recipient's stream can forward them.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func UserChannel(userID int64) string {
	return fmt.Sprintf("%s%d", userChannelPrefix, userID)
}

func (p *Publisher) Publish(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, UserChannel(n.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Subscribe returns the payloads published for userID until ctx ends or the
// returned close func is called.
func (p *Publisher) Subscribe(ctx context.Context, userID int64) (<-chan string, func(), error) {
	ps := p.client.Subscribe(ctx, UserChannel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = ps.Close() }, nil
}
