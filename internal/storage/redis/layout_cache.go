package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "district:layout:"

// Source is the authoritative layout reader behind the cache.
type Source interface {
	Layout(ctx context.Context, eventID string) (domain.EventLayout, error)
}

// LayoutCache keeps short-lived snapshots of event layouts in Redis. Redis
// failures degrade to reading the source directly.
type LayoutCache struct {
	client *redis.Client
	source Source
	ttl    time.Duration
	logger *zap.Logger
}

func NewLayoutCache(client *redis.Client, source Source, ttl time.Duration, logger *zap.Logger) *LayoutCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayoutCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *LayoutCache) Layout(ctx context.Context, eventID string) (domain.EventLayout, error) {
	key := keyPrefix + eventID

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var layout domain.EventLayout
		if err := json.Unmarshal(raw, &layout); err == nil {
			return layout, nil
		}
		c.logger.Warn("discarding unreadable cached layout", zap.String("event_id", eventID))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("layout cache read failed", zap.String("event_id", eventID), zap.Error(err))
	}

	layout, err := c.source.Layout(ctx, eventID)
	if err != nil {
		return domain.EventLayout{}, err
	}

	payload, err := json.Marshal(layout)
	if err != nil {
		return layout, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("layout cache write failed", zap.String("event_id", eventID), zap.Error(err))
	}
	return layout, nil
}

func (c *LayoutCache) Invalidate(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, keyPrefix+eventID).Err()
}

// Ping reports whether Redis is reachable.
func (c *LayoutCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
