package livequery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier fans change notifications out across instances via redis
// pub/sub, so a write on one node wakes subscriptions on every node.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger, prefix: "livequery:"}
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string) {
	if err := n.client.Publish(ctx, n.prefix+topic, "1").Err(); err != nil {
		n.logger.Error("livequery publish failed", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}

func (n *RedisNotifier) Subscribe(topic string) Events {
	pubsub := n.client.Subscribe(context.Background(), n.prefix+topic)
	sub := &redisEvents{pubsub: pubsub, ch: make(chan struct{}, 1)}
	go sub.pump()
	return sub
}

type redisEvents struct {
	pubsub *redis.PubSub
	ch     chan struct{}
	once   sync.Once
}

func (e *redisEvents) pump() {
	for range e.pubsub.Channel() {
		select {
		case e.ch <- struct{}{}:
		default:
		}
	}
	close(e.ch)
}

func (e *redisEvents) C() <-chan struct{} {
	return e.ch
}

func (e *redisEvents) Close() {
	e.once.Do(func() {
		_ = e.pubsub.Close()
	})
}
