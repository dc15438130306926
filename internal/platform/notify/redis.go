package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list activation messages are pushed to.
const DefaultQueueKey = "notify:activation"

// queuedMessage is the JSON payload pushed to the queue.
type queuedMessage struct {
	Message
	Code     string    `json:"code"`
	QueuedAt time.Time `json:"queued_at"`
}

// RedisNotifier pushes activation messages onto a Redis list consumed by an
// out-of-process mailer.
type RedisNotifier struct {
	rdb redis.Cmdable
	key string
	now func() time.Time
}

// RedisOption configures a RedisNotifier.
type RedisOption func(*RedisNotifier)

// WithQueueKey overrides DefaultQueueKey.
func WithQueueKey(key string) RedisOption {
	return func(n *RedisNotifier) {
		if key != "" {
			n.key = key
		}
	}
}

// WithRedisClock replaces the clock used for queued_at.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(n *RedisNotifier) { n.now = now }
}

// NewRedisNotifier returns a RedisNotifier writing through rdb.
func NewRedisNotifier(rdb redis.Cmdable, opts ...RedisOption) *RedisNotifier {
	n := &RedisNotifier{rdb: rdb, key: DefaultQueueKey, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SendActivationCode RPUSHes the message onto the queue.
func (n *RedisNotifier) SendActivationCode(ctx context.Context, to, code string) error {
	payload, err := json.Marshal(queuedMessage{
		Message:  ActivationMessage(to, code),
		Code:     code,
		QueuedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if err := n.rdb.RPush(ctx, n.key, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to queue message: %w", err)
	}
	return nil
}
