package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dori/taskboard/internal/model"
)

// Redis keeps the user in a Redis key with no expiry
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a cache using client. prefix namespaces the key, e.g. "taskboard:".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("cache.NewRedis: client is nil")
	}
	return &Redis{client: client, key: prefix + UserKey}
}

func (c *Redis) Load(ctx context.Context) (*model.User, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeUser(data)
}

func (c *Redis) Save(ctx context.Context, u model.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, 0).Err()
}

func (c *Redis) Remove(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
