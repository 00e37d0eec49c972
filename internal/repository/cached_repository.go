package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/recordkit/recordkit/internal/cache"
	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/internal/models"
)

const recordCacheName = "record"

// CachedRecordRepository wraps a RecordRepository with caching.
// It implements write-through caching with fallback to the wrapped
// repository on cache miss. Cache errors never fail an operation.
//
// Deletes bump an eviction generation. A read that started before a
// delete does not fill the cache, so a removed record is never written
// back after its eviction.
type CachedRecordRepository struct {
	repo  RecordRepository
	cache cache.RecordCacher

	mu         sync.Mutex
	generation uint64
}

// NewCachedRecordRepository creates a new cached record repository.
func NewCachedRecordRepository(repo RecordRepository, recordCache cache.RecordCacher) *CachedRecordRepository {
	return &CachedRecordRepository{
		repo:  repo,
		cache: recordCache,
	}
}

// Create stores a record in the repository, then in cache.
func (c *CachedRecordRepository) Create(ctx context.Context, record *models.Record) error {
	if err := c.repo.Create(ctx, record); err != nil {
		return err
	}
	_ = c.cache.Set(ctx, record)
	return nil
}

// GetByID checks the cache first then falls back to the repository.
func (c *CachedRecordRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	cached, err := c.cache.Get(ctx, id)
	if err == nil {
		metrics.RecordCacheHit(recordCacheName)
		return cached, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		metrics.RecordCacheMiss(recordCacheName)
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	record, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		_ = c.cache.Set(ctx, record)
	}
	c.mu.Unlock()
	return record, nil
}

// List is served by the repository; pages are not cached.
func (c *CachedRecordRepository) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	return c.repo.List(ctx, limit, offset)
}

// Count is served by the repository.
func (c *CachedRecordRepository) Count(ctx context.Context) (int64, error) {
	return c.repo.Count(ctx)
}

// Delete removes a record from the repository, then evicts it from cache.
// The entry is evicted even when the repository has no such record.
func (c *CachedRecordRepository) Delete(ctx context.Context, id string) error {
	err := c.repo.Delete(ctx, id)

	c.mu.Lock()
	c.generation++
	_ = c.cache.Delete(ctx, id)
	c.mu.Unlock()

	return err
}

// HealthCheck checks the wrapped repository. Cache health is reported separately.
func (c *CachedRecordRepository) HealthCheck(ctx context.Context) error {
	return c.repo.HealthCheck(ctx)
}
