package redis

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todo/repository"
)

type tokenRepository struct {
	client *redislib.Client
	key    string
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed token slot stored under key.
// A zero ttl keeps the token until it is cleared.
func NewTokenRepository(client *redislib.Client, key string, ttl time.Duration) repository.TokenStore {
	if key == "" {
		key = "todo:token"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &tokenRepository{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (r *tokenRepository) Load(ctx context.Context) (string, error) {
	result, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", err
	}
	return result, nil
}

func (r *tokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return r.Clear(ctx)
	}
	return r.client.Set(ctx, r.key, token, r.ttl).Err()
}

func (r *tokenRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *tokenRepository) Close() error {
	return r.client.Close()
}
