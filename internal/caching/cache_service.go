package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invoicegen/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invoicegen"

type CacheService interface {
	// Dashboard insights, per user
	GetInsights(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetInsights(ctx context.Context, userID uuid.UUID, insights []string, ttl time.Duration) error
	InvalidateInsights(ctx context.Context, userID uuid.UUID) error

	// Upstream model list
	GetModels(ctx context.Context) ([]models.ModelInfo, error)
	SetModels(ctx context.Context, list []models.ModelInfo, ttl time.Duration) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisClient builds a client, accepting either host:port or a redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
		slog.Warn("could not parse redis url, using it as an address", "addr", addr)
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

func InsightsKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:insights:%s", keyPrefix, userID.String())
}

func ModelsKey() string {
	return keyPrefix + ":ai:models"
}

func RateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) GetInsights(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var insights []string
	found, err := r.getJSON(ctx, InsightsKey(userID), &insights)
	if err != nil || !found {
		return nil, err
	}
	return insights, nil
}

func (r *redisCacheService) SetInsights(ctx context.Context, userID uuid.UUID, insights []string, ttl time.Duration) error {
	return r.setJSON(ctx, InsightsKey(userID), insights, ttl)
}

func (r *redisCacheService) InvalidateInsights(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, InsightsKey(userID)).Err()
}

func (r *redisCacheService) GetModels(ctx context.Context) ([]models.ModelInfo, error) {
	var list []models.ModelInfo
	found, err := r.getJSON(ctx, ModelsKey(), &list)
	if err != nil || !found {
		return nil, err
	}
	return list, nil
}

func (r *redisCacheService) SetModels(ctx context.Context, list []models.ModelInfo, ttl time.Duration) error {
	return r.setJSON(ctx, ModelsKey(), list, ttl)
}

// IsRateLimited counts a hit against key and reports whether the limit is exceeded
// within the current window. The window starts at the first hit.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := RateLimitKey(key)

	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// getJSON reports found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
