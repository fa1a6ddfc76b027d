package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
)

func TestPublisher_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	pub := NewPublisher(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, closeSub, err := pub.Subscribe(ctx, 10)
	require.NoError(t, err)
	defer closeSub()

	require.NoError(t, pub.Publish(ctx, &domain.Notification{ID: 1, UserID: 10, Type: domain.TypeLike}))
	require.NoError(t, pub.Publish(ctx, &domain.Notification{ID: 2, UserID: 11, Type: domain.TypeLike}))

	select {
	case payload := <-events:
		var n domain.Notification
		require.NoError(t, json.Unmarshal([]byte(payload), &n))
		assert.Equal(t, int64(1), n.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}

	select {
	case payload := <-events:
		t.Fatalf("received another user's notification: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notify:user:42", UserChannel(42))
}
