package events

import (
	"context"
	"encoding/json"
	"fmt"
	"robot-route-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "robot:"

var (
	_ ports.EventPublisher  = (*RedisPublisher)(nil)
	_ ports.EventSubscriber = (*RedisPublisher)(nil)
)

// RedisPublisher fans events out over Redis Pub/Sub, one channel per robot.
type RedisPublisher struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	return &RedisPublisher{rdb: redis.NewClient(opt), timeout: 2 * time.Second}, nil
}

func NewRedisPublisherFromClient(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, timeout: 2 * time.Second}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt ports.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("redis publisher: encode %s: %w", evt.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, ChannelName(evt.RobotID), data).Err(); err != nil {
		return fmt.Errorf("redis publisher: publish %s: %w", evt.Type, err)
	}
	return nil
}

// Subscribe streams decoded events for one robot until ctx is done.
// Undecodable payloads are dropped.
func (p *RedisPublisher) Subscribe(ctx context.Context, robotID int64) (<-chan ports.Event, error) {
	ps := p.rdb.Subscribe(ctx, ChannelName(robotID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis publisher: subscribe robot %d: %w", robotID, err)
	}

	out := make(chan ports.Event, 16)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt ports.Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case out <- evt:
				default:
				}
			}
		}
	}()

	return out, nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

func ChannelName(robotID int64) string {
	return fmt.Sprintf("%s%d:events", channelPrefix, robotID)
}
