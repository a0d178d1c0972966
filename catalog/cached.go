package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey    = "catalog:services"
	loadTimeout = 10 * time.Second
)

// fetcher is implemented by providers that can serve a stand-in list; a
// list that is not fresh is returned to callers but never cached.
type fetcher interface {
	Fetch(ctx context.Context) ([]models.Service, bool, error)
}

// Cached keeps the service list in Redis. Concurrent misses share a single
// load from the wrapped provider.
type Cached struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
	sfg    singleflight.Group
	log    *zap.Logger
}

func NewCached(next Provider, client *redis.Client, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, client: client, ttl: ttl, log: log.Named("catalog")}
}

// List serves the cached list, loading it on a miss. The shared load is
// detached from the caller that started it so one canceled request does not
// fail the others waiting on it.
func (c *Cached) List(ctx context.Context) ([]models.Service, error) {
	v, err, _ := c.sfg.Do(cacheKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		raw, err := c.client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var list []models.Service
			if jerr := json.Unmarshal(raw, &list); jerr == nil {
				return list, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			c.log.Warn("catalog cache read failed", zap.Error(err))
		}

		list, fresh, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return list, nil
		}
		if payload, jerr := json.Marshal(list); jerr == nil {
			if serr := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); serr != nil {
				c.log.Warn("catalog cache write failed", zap.Error(serr))
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Service), nil
}

func (c *Cached) load(ctx context.Context) ([]models.Service, bool, error) {
	if f, ok := c.next.(fetcher); ok {
		return f.Fetch(ctx)
	}
	list, err := c.next.List(ctx)
	return list, err == nil, err
}

func (c *Cached) Get(ctx context.Context, slug string) (models.Service, error) {
	list, err := c.List(ctx)
	if err != nil {
		return models.Service{}, err
	}
	return find(list, slug)
}

// Invalidate drops the cached list so the next read reloads it.
func (c *Cached) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
