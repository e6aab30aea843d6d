package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kingshubham139/university-chat/internal/app"
	"github.com/kingshubham139/university-chat/internal/chat"
)

// RecentCache is a read-through redis cache for per-group message history.
// Entries are invalidated whenever a group's history changes; everything
// here is best-effort, postgres stays the source of truth.
type RecentCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewRecentCache connects to redis and verifies connectivity
func NewRecentCache(ctx context.Context, cfg app.Config, log *slog.Logger) (*RecentCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RecentCache{rdb: rdb, ttl: time.Minute, log: log}, nil
}

// Get returns the cached history for a group, if present.
func (c *RecentCache) Get(ctx context.Context, groupName string) ([]chat.Message, bool) {
	raw, err := c.rdb.Get(ctx, historyKey(groupName)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []chat.Message
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Fill stores a freshly queried history slice.
func (c *RecentCache) Fill(ctx context.Context, groupName string, msgs []chat.Message) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, historyKey(groupName), raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache.fill", "group", groupName, "err", err)
	}
}

// Invalidate drops the cached history for a group.
func (c *RecentCache) Invalidate(ctx context.Context, groupName string) {
	if err := c.rdb.Del(ctx, historyKey(groupName)).Err(); err != nil {
		c.log.Debug("cache.invalidate", "group", groupName, "err", err)
	}
}

// Close shuts down the redis connection
func (c *RecentCache) Close() { _ = c.rdb.Close() }

// key namespacing for group history
func historyKey(groupName string) string { return "history:" + groupName }
