package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/arenarium/cache"
)

// EventPublisher рассылает события в комнаты WebSocket.
type EventPublisher interface {
	Publish(room, eventType string, payload interface{})
}

// EntityEvent: полезная нагрузка событий entity_* и image_updated.
type EntityEvent struct {
	Entity string `json:"entity"`
	ID     int    `json:"id"`
	URL    string `json:"url,omitempty"`
}

// Префиксы ключей кэша браузерных эндпоинтов.
const (
	cacheTeams       = "teams:"
	cachePlayers     = "players:"
	cacheHeroes      = "heroes:"
	cacheItems       = "items:"
	cacheMatches     = "matches:"
	cacheTournaments = "tournaments:"
	cacheStatistics  = "statistics:"
)

// Deps собирает инфраструктуру, общую для сервисов: кэш чтения, рассылку
// событий и логгер. Нулевые Cache и Events допустимы.
type Deps struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Events   EventPublisher
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) ttl() time.Duration {
	if d.CacheTTL <= 0 {
		return 30 * time.Second
	}
	return d.CacheTTL
}

func (d Deps) invalidate(ctx context.Context, prefixes ...string) {
	cache.Invalidate(ctx, d.Cache, d.logger(), prefixes...)
}

func (d Deps) publish(room, eventType string, payload interface{}) {
	if d.Events == nil {
		return
	}
	d.Events.Publish(room, eventType, payload)
}

// cached читает значение через кэш с общим TTL.
func cached[T any](ctx context.Context, d Deps, key string, load func(context.Context) (T, error)) (T, error) {
	return cache.Fetch(ctx, d.Cache, d.logger(), key, d.ttl(), load)
}

func cacheKey(prefix string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		switch v := p.(type) {
		case *string:
			if v != nil {
				b.WriteString(*v)
			}
		case *int:
			if v != nil {
				fmt.Fprintf(&b, "%d", *v)
			}
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return b.String()
}

func tournamentRoom(id int) string {
	return fmt.Sprintf("tournament_%d", id)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimOptional обрезает пробелы; пустая строка превращается в nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// GetExtensionFromContentType возвращает расширение файла для image/* типа.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			// Убираем возможные суффиксы типа "+xml" (например, "image/svg+xml")
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
