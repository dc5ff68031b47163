package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Cache хранит сериализованные ответы браузерных эндпоинтов.
// Ключи группируются префиксами ("teams:", "tournaments:"), чтобы после
// записи можно было сбросить всю группу.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Fetch returns the cached value under key, or calls load and stores its
// result. Cache failures are logged and never fail the read.
func Fetch[T any](ctx context.Context, c Cache, logger *slog.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		if err != nil {
			logger.Warn("cache get failed", slog.String("key", key), slog.Any("error", err))
		} else if ok {
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			logger.Warn("cache entry is corrupt", slog.String("key", key))
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		raw, err := json.Marshal(value)
		if err == nil {
			err = c.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			logger.Warn("cache set failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return value, nil
}

// Invalidate drops every key under the given prefixes.
func Invalidate(ctx context.Context, c Cache, logger *slog.Logger, prefixes ...string) {
	if c == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.DeletePrefix(ctx, p); err != nil {
			logger.Warn("cache invalidation failed", slog.String("prefix", p), slog.Any("error", err))
		}
	}
}
