package store

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// The redis store implements the ChartStore interface using Redis as the backend.
// Keys are namespaced as `/<prefix>/charts/<key>` so multiple deployments can
// share one Redis instance.

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed chart store.
// A zero ttl keeps charts until deleted.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) ChartStore {
	return &redisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (m *redisStore) chartKey(key string) string {
	return path.Join(m.prefix, "charts", key)
}

func (m *redisStore) Save(ctx context.Context, chart *Chart) error {
	if chart.Key == "" {
		return errors.New("chart key is required")
	}

	data, err := json.Marshal(chart)
	if err != nil {
		return errors.Wrap(err, "failed to marshal chart")
	}

	err = m.client.Set(ctx, m.chartKey(chart.Key), data, m.ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to store chart in Redis")
	}
	return nil
}

func (m *redisStore) Get(ctx context.Context, key string) (*Chart, error) {
	data, err := m.client.Get(ctx, m.chartKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrap(err, "failed to get chart from Redis")
	}

	chart := new(Chart)
	if err := json.Unmarshal([]byte(data), chart); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal chart")
	}
	return chart, nil
}

func (m *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := m.client.Exists(ctx, m.chartKey(key)).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check chart in Redis")
	}
	return count > 0, nil
}

func (m *redisStore) Delete(ctx context.Context, key string) error {
	err := m.client.Del(ctx, m.chartKey(key)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to delete chart from Redis")
	}
	return nil
}
