package pdfstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "docsign:pdf:"

// Redis shares cached documents between service instances. A zero ttl keeps
// entries until Redis evicts them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+Key(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "failed to get cached pdf")
	}
	return data, true, nil
}

func (s *Redis) Put(ctx context.Context, url string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+Key(url), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to cache pdf")
	}
	return nil
}

var _ Store = (*Redis)(nil)
