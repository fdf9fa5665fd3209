// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"social_backend/internal/feature/post/domain/entity"
	"social_backend/internal/feature/post/usecase"
)

// CachingPostRepository decorates a PostRepository with Redis caching of
// the feed read paths. It implements the decorator pattern,
// transparently adding caching without modifying the underlying
// repository. All caching is best effort: a nil or failing Redis client
// falls through to the inner repository.
type CachingPostRepository struct {
	inner     usecase.PostRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingPostRepository decorates a PostRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "posts".
func NewCachingPostRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PostRepository, namespace string) *CachingPostRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "posts"
	}
	return &CachingPostRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts a post and invalidates the cached feeds.
func (c *CachingPostRepository) Create(ctx context.Context, p *entity.Post) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Save updates a post and invalidates the cached feeds.
func (c *CachingPostRepository) Save(ctx context.Context, p *entity.Post) error {
	if err := c.inner.Save(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes a post and invalidates the cached feeds.
func (c *CachingPostRepository) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID always hits the underlying repository: single-row lookups
// are cheap and caching them would only widen the staleness window.
func (c *CachingPostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	return c.inner.FindByID(ctx, id)
}

// FindAll retrieves the full feed, checking cache first.
func (c *CachingPostRepository) FindAll(ctx context.Context) ([]*entity.Post, error) {
	return c.cached(ctx, c.cacheKey("all", ""), func() ([]*entity.Post, error) {
		return c.inner.FindAll(ctx)
	})
}

// FindByAuthor retrieves an author's posts, checking cache first.
func (c *CachingPostRepository) FindByAuthor(ctx context.Context, username string) ([]*entity.Post, error) {
	return c.cached(ctx, c.cacheKey("author", username), func() ([]*entity.Post, error) {
		return c.inner.FindByAuthor(ctx, username)
	})
}

// FindByCategory retrieves a game category's posts, checking cache first.
func (c *CachingPostRepository) FindByCategory(ctx context.Context, category string) ([]*entity.Post, error) {
	return c.cached(ctx, c.cacheKey("category", category), func() ([]*entity.Post, error) {
		return c.inner.FindByCategory(ctx, category)
	})
}

// cached serves a feed query from cache, falling back to the database
// and storing the result on a miss.
func (c *CachingPostRepository) cached(ctx context.Context, key string, load func() ([]*entity.Post, error)) ([]*entity.Post, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []*entity.Post
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// invalidate drops every cached feed in the namespace. Best effort:
// failures are ignored, entries expire via TTL anyway.
func (c *CachingPostRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a specific feed query.
func (c *CachingPostRepository) cacheKey(kind, arg string) string {
	if arg == "" {
		return fmt.Sprintf("%s:%s", c.namespace, kind)
	}
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, safe(arg))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPostRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
