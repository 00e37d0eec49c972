package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/recordkit/recordkit/internal/cache"
	"github.com/recordkit/recordkit/internal/config"
	"github.com/recordkit/recordkit/internal/database"
	"github.com/recordkit/recordkit/internal/fetch"
	"github.com/recordkit/recordkit/internal/idgen"
	"github.com/recordkit/recordkit/internal/ratelimit"
	"github.com/recordkit/recordkit/internal/repository"
	"github.com/recordkit/recordkit/internal/server"
	"github.com/recordkit/recordkit/internal/services"
	"github.com/recordkit/recordkit/pkg/logger"
)

// app holds the wired server and the resources it owns.
type app struct {
	server  *server.Server
	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp builds storage, caches, services and the HTTP server from cfg.
// Postgres and Redis are used only when configured.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	return newAppWithDoer(ctx, cfg, log, http.DefaultClient)
}

func newAppWithDoer(ctx context.Context, cfg *config.Config, log *logger.Logger, doer fetch.Doer) (*app, error) {
	a := &app{}
	var opts []server.Option

	var repo repository.RecordRepository = repository.NewMemoryRecordRepository()
	if cfg.DatabaseEnabled() {
		pool, err := database.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		migrator, err := database.NewRecordsMigrator(pool)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load migrations: %w", err)
		}
		applied, err := migrator.Up(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database ready", "migrations_applied", applied)

		repo = repository.NewPostgresRecordRepository(pool)
		opts = append(opts, server.WithReadinessCheck("database", pool.HealthCheck))
	} else {
		log.Warn("database not configured, records are kept in memory")
	}

	var payloads *cache.PayloadCache
	var redisCache *cache.RedisCache
	if cfg.RedisEnabled() {
		var err error
		redisCache, err = cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = redisCache.Close() })

		repo = repository.NewCachedRecordRepository(repo, cache.NewRecordCache(redisCache, "", cfg.Records.CacheTTL))
		opts = append(opts, server.WithReadinessCheck("cache", redisCache.Ping))
		log.Info("redis cache enabled", "record_ttl", cfg.Records.CacheTTL.String(), "fetch_ttl", cfg.Fetch.CacheTTL.String())
	}

	if cfg.FetchCacheEnabled() {
		var store cache.Cache = cache.NewMemoryCache()
		if redisCache != nil {
			store = redisCache
		}
		payloads = cache.NewPayloadCache(store, "")
	}

	if cfg.Rate.Enabled {
		limiter, err := newLimiter(cfg.Rate, redisCache)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("build rate limiter: %w", err)
		}
		opts = append(opts, server.WithRateLimiter(limiter))
		log.Info("rate limiting enabled", "requests", cfg.Rate.Requests, "window", cfg.Rate.Window.String())
	}

	gen := idgen.NewUUIDGenerator()
	fetcher := fetch.New(doer, fetch.WithURL(cfg.Fetch.URL))

	var posts services.PostsService
	if payloads != nil {
		posts = services.NewPostsServiceWithCache(fetcher, payloads, cfg.Fetch.CacheTTL, log)
	} else {
		posts = services.NewPostsService(fetcher, log)
	}

	opts = append(opts,
		server.WithRecordService(services.NewRecordService(repo, gen, log)),
		server.WithPostsService(posts),
		server.WithRequestIDGenerator(gen),
	)
	a.server = server.New(cfg, log, opts...)

	return a, nil
}

// newLimiter shares limits through Redis when available, otherwise limits
// are per process.
func newLimiter(cfg config.RateLimitConfig, redisCache *cache.RedisCache) (ratelimit.Limiter, error) {
	rl := ratelimit.Config{Requests: cfg.Requests, Window: cfg.Window}
	if redisCache != nil {
		return ratelimit.NewRedisLimiter(redisCache.Client(), rl)
	}
	return ratelimit.NewMemoryLimiter(rl)
}
