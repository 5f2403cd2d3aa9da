package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: defaultTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, collection string) ([]domain.ArtPiece, error) {
	data, err := r.client.Get(ctx, cacheKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var pieces []domain.ArtPiece
	if err := json.Unmarshal(data, &pieces); err != nil {
		return nil, fmt.Errorf("unmarshal gallery failed: %w", err)
	}
	return pieces, nil
}

func (r *RedisCache) Set(ctx context.Context, collection string, pieces []domain.ArtPiece) error {
	data, err := json.Marshal(pieces)
	if err != nil {
		return fmt.Errorf("marshal gallery failed: %w", err)
	}

	// Jitter spreads expiry of entries written at the same time.
	jitter := time.Duration(rand.Intn(3)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(collection), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, collection string) error {
	if err := r.client.Del(ctx, cacheKey(collection)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(collection string) string {
	return fmt.Sprintf("gallery:%s", collection)
}
