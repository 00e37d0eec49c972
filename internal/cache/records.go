package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recordkit/recordkit/internal/models"
)

// Default key prefixes.
const (
	RecordKeyPrefix  = "record:"
	PayloadKeyPrefix = "fetch:"
)

// RecordCacher defines the interface for record caching operations.
// This interface enables easy mocking in tests.
type RecordCacher interface {
	Get(ctx context.Context, id string) (*models.Record, error)
	Set(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Ensure RecordCache implements RecordCacher
var _ RecordCacher = (*RecordCache)(nil)

// RecordCache stores records as JSON under a key prefix.
type RecordCache struct {
	cache     Cache
	keyPrefix string
	ttl       time.Duration
}

// NewRecordCache creates a record cache. An empty prefix uses RecordKeyPrefix.
func NewRecordCache(cache Cache, keyPrefix string, ttl time.Duration) *RecordCache {
	if keyPrefix == "" {
		keyPrefix = RecordKeyPrefix
	}
	return &RecordCache{
		cache:     cache,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get retrieves a record by ID.
func (c *RecordCache) Get(ctx context.Context, id string) (*models.Record, error) {
	data, err := c.cache.Get(ctx, c.key(id))
	if err != nil {
		return nil, err
	}

	var record models.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}
	return &record, nil
}

// Set stores a record. Records without an ID are not cached.
func (c *RecordCache) Set(ctx context.Context, record *models.Record) error {
	if record == nil || record.ID == "" {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return c.cache.Set(ctx, c.key(record.ID), data, c.ttl)
}

// Delete removes a record from cache.
func (c *RecordCache) Delete(ctx context.Context, id string) error {
	return c.cache.Delete(ctx, c.key(id))
}

// Ping checks if the cache is healthy.
func (c *RecordCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}

func (c *RecordCache) key(id string) string {
	return c.keyPrefix + id
}

// PayloadCache stores raw JSON payloads fetched from upstream URLs.
type PayloadCache struct {
	cache     Cache
	keyPrefix string
}

// NewPayloadCache creates a payload cache. An empty prefix uses PayloadKeyPrefix.
func NewPayloadCache(cache Cache, keyPrefix string) *PayloadCache {
	if keyPrefix == "" {
		keyPrefix = PayloadKeyPrefix
	}
	return &PayloadCache{cache: cache, keyPrefix: keyPrefix}
}

// Get returns the payload cached for url.
func (c *PayloadCache) Get(ctx context.Context, url string) (json.RawMessage, error) {
	data, err := c.cache.Get(ctx, c.keyPrefix+url)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		_ = c.cache.Delete(ctx, c.keyPrefix+url)
		return nil, ErrCacheMiss
	}
	return json.RawMessage(data), nil
}

// Set caches payload for url for ttl.
func (c *PayloadCache) Set(ctx context.Context, url string, payload json.RawMessage, ttl time.Duration) error {
	return c.cache.Set(ctx, c.keyPrefix+url, payload, ttl)
}
