package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cosmetics-store-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	config *config.Config
}

func NewRedisRepo(cfg *config.Config) (*RedisRepo, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure Redis is reachable
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepo{client: client, config: cfg}, nil
}

func (r *RedisRepo) Client() *redis.Client {
	return r.client
}

// CheckLoginRateLimit runs a sliding-window counter over a sorted set of
// attempt timestamps. Returns isAllowed, attempts left, seconds to wait.
func (r *RedisRepo) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {

	key := fmt.Sprintf("login_attempts:%s", username)

	now := time.Now().Unix()

	// Only attempts inside the window are counted.
	windowStart := now - int64(r.config.RateConfig.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})

	count := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, r.config.RateConfig.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	attempts := count.Val()
	remaining := r.config.RateConfig.MaxAttempts - attempts

	if attempts >= r.config.RateConfig.MaxAttempts {

		oldest, err := r.client.ZRange(ctx, key, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return false, 0, 0, err
		}

		oldestTime, err := strconv.ParseInt(oldest[0], 10, 64)
		if err != nil {
			return false, 0, 0, err
		}

		retryAfter := int64(r.config.RateConfig.WindowSize.Seconds()) - (now - oldestTime)

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}
