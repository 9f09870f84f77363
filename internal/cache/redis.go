package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &Redis{client: client}, nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Set(ctx context.Context, k string, v any, ttl time.Duration) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, k, value, ttl).Err()
}

// Get unmarshals the value at k into out. A missing key is not an error,
// the second return reports presence.
func (r *Redis) Get(ctx context.Context, k string, out any) (bool, error) {
	res := r.client.Get(ctx, k)
	if res.Err() != nil {
		if res.Err() == redis.Nil {
			return false, nil
		}
		return false, res.Err()
	}

	if err := json.Unmarshal([]byte(res.Val()), out); err != nil {
		return false, err
	}

	return true, nil
}

func (r *Redis) Delete(ctx context.Context, k string) error {
	return r.client.Del(ctx, k).Err()
}
