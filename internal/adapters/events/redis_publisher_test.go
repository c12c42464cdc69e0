package events

import (
	"context"
	"robot-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisPublisher(t *testing.T) *RedisPublisher {
	t.Helper()

	mr := miniredis.RunT(t)
	p := NewRedisPublisherFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestRedisPublisherFanOutPerRobot(t *testing.T) {
	p := newTestRedisPublisher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, p.Ping(ctx))

	sub, err := p.Subscribe(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, ports.Event{Type: ports.EventDeliveryRecorded, RobotID: 8}))
	require.NoError(t, p.Publish(ctx, ports.Event{
		Type:       ports.EventOptimizationCompleted,
		RobotID:    7,
		RunID:      "run-1",
		OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	select {
	case evt := <-sub:
		assert.Equal(t, ports.EventOptimizationCompleted, evt.Type)
		assert.Equal(t, int64(7), evt.RobotID)
		assert.Equal(t, "run-1", evt.RunID)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "robot:42:events", ChannelName(42))
}

func TestNewRedisPublisherRejectsBadURL(t *testing.T) {
	_, err := NewRedisPublisher("not a url")
	assert.Error(t, err)
}
