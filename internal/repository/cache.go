package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const (
	userOrdersPrefix = "storefront:user_orders:"
	defaultCacheTTL  = 5 * time.Minute
)

// RedisOrderCache implements OrderCache using Redis.
type RedisOrderCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.LoggerV2
}

// NewRedisClient opens a client for cfg. Connections are lazy.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisOrderCache creates a new Redis-based order history cache.
func NewRedisOrderCache(client redis.UniversalClient, ttl time.Duration, logger *logging.LoggerV2) *RedisOrderCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func userOrdersKey(userID int64) string {
	return userOrdersPrefix + strconv.FormatInt(userID, 10)
}

// GetByUserID returns the cached history, or nil on a miss.
func (c *RedisOrderCache) GetByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	data, err := c.client.Get(ctx, userOrdersKey(userID)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", logging.Fields{"user_id": userID})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	var orders []*models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", logging.Fields{"user_id": userID, "count": len(orders)})
	return orders, nil
}

// SetByUserID caches orders for a user.
func (c *RedisOrderCache) SetByUserID(ctx context.Context, userID int64, orders []*models.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, userOrdersKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

// InvalidateByUserID removes cached orders for a user.
func (c *RedisOrderCache) InvalidateByUserID(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, userOrdersKey(userID)).Err()
}
