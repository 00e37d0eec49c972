package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/pkg/logger"
)

const payloadCacheName = "fetch"

// Fetcher retrieves a JSON payload from a fixed upstream URL.
// *fetch.Client satisfies it.
type Fetcher interface {
	FetchRaw(ctx context.Context) (json.RawMessage, error)
	URL() string
}

// PayloadStore caches upstream payloads keyed by URL.
// *cache.PayloadCache satisfies it.
type PayloadStore interface {
	Get(ctx context.Context, url string) (json.RawMessage, error)
	Set(ctx context.Context, url string, payload json.RawMessage, ttl time.Duration) error
}

// PostsService defines the interface for reading upstream posts.
type PostsService interface {
	Posts(ctx context.Context) (json.RawMessage, error)
}

// PostsServiceImpl implements PostsService.
type PostsServiceImpl struct {
	fetcher Fetcher
	store   PayloadStore
	ttl     time.Duration
	log     *logger.Logger
}

// NewPostsService creates a PostsService that fetches on every call.
func NewPostsService(fetcher Fetcher, log *logger.Logger) *PostsServiceImpl {
	if log == nil {
		log = logger.Nop()
	}
	return &PostsServiceImpl{
		fetcher: fetcher,
		log:     log,
	}
}

// NewPostsServiceWithCache creates a PostsService that serves payloads from
// store for ttl. A nil store or non-positive ttl disables caching.
func NewPostsServiceWithCache(fetcher Fetcher, store PayloadStore, ttl time.Duration, log *logger.Logger) *PostsServiceImpl {
	s := NewPostsService(fetcher, log)
	if store != nil && ttl > 0 {
		s.store = store
		s.ttl = ttl
	}
	return s
}

// Posts returns the upstream payload. Fetch failures are returned unchanged.
func (s *PostsServiceImpl) Posts(ctx context.Context) (json.RawMessage, error) {
	log := logger.FromContext(ctx, s.log)
	url := s.fetcher.URL()

	if s.store != nil {
		if payload, err := s.store.Get(ctx, url); err == nil {
			metrics.RecordCacheHit(payloadCacheName)
			metrics.RecordFetch(metrics.FetchResultCached, 0)
			return payload, nil
		}
		metrics.RecordCacheMiss(payloadCacheName)
	}

	start := time.Now()
	payload, err := s.fetcher.FetchRaw(ctx)
	if err != nil {
		metrics.RecordFetch(metrics.FetchResultError, time.Since(start))
		log.Warn("upstream fetch failed", "url", url, "error", err)
		return nil, err
	}
	metrics.RecordFetch(metrics.FetchResultSuccess, time.Since(start))

	if s.store != nil {
		if err := s.store.Set(ctx, url, payload, s.ttl); err != nil {
			log.Warn("failed to cache upstream payload", "url", url, "error", err)
		}
	}

	return payload, nil
}
