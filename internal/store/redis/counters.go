package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/betavietvn/leadtrack/internal/config"
)

// CounterStore backs visitor counters with Redis INCR so counts survive
// process restarts and are shared across collector instances.
type CounterStore struct {
	client *redis.Client
}

func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

// Bump increments the counter and returns the value it held before the
// increment.
func (s *CounterStore) Bump(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return val - 1, nil
}

func (s *CounterStore) key(name string) string {
	return "counters:" + name
}
