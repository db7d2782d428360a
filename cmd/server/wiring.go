package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"hospital/internal/access/audit"
	"hospital/internal/access/catalog"
	"hospital/internal/access/metrics"
	"hospital/internal/access/resolver"
	"hospital/internal/access/service"
	"hospital/internal/access/store/auditlog"
	"hospital/internal/access/store/override"
	"hospital/internal/access/store/override/cache"
	"hospital/internal/platform/config"
	"hospital/internal/platform/database"
	platformredis "hospital/internal/platform/redis"
)

// app holds the long-lived collaborators built at startup.
type app struct {
	db       *sql.DB
	redis    *platformredis.Client
	stream   *audit.Stream
	resolver *resolver.Resolver
	service  *service.Service
}

type stores struct {
	overrides override.Store
	tx        override.Tx
	auditLog  auditlog.Store
	// shared is set when other processes may write the same overrides.
	shared bool
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	m := metrics.New()
	c := catalog.Default()

	st, err := a.buildStores(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	reader, cached, err := a.buildOverrideReader(ctx, cfg.Redis, st, m, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	publisher, err := a.buildPublisher(ctx, cfg.Kafka, st.auditLog, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.resolver = resolver.New(c, reader, resolver.WithLogger(log), resolver.WithMetrics(m))
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
	}
	if cached != nil {
		opts = append(opts, service.WithCacheInvalidator(cached))
	}
	a.service = service.New(c, a.resolver, st.overrides, st.tx, st.auditLog, opts...)
	return a, nil
}

func (a *app) buildStores(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (stores, error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set; overrides and audit entries are kept in memory")
		mem := override.NewInMemoryStore()
		return stores{
			overrides: mem,
			tx:        override.NewInMemoryTx(mem),
			auditLog:  auditlog.NewInMemoryStore(),
		}, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	if cfg.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			_ = db.Close()
			return stores{}, err
		}
	}
	a.db = db
	return stores{
		overrides: override.NewPostgres(db),
		tx:        override.NewPostgresTx(db),
		auditLog:  auditlog.NewPostgres(db),
		shared:    true,
	}, nil
}

// buildOverrideReader puts a cache in front of the override store. A shared
// store is only cached in Redis, where every instance sees the same
// invalidations; without Redis its reads go straight to the database. The
// returned cache is nil when there is nothing to invalidate.
func (a *app) buildOverrideReader(
	ctx context.Context,
	cfg config.RedisConfig,
	st stores,
	m *metrics.Metrics,
	log *slog.Logger,
) (override.Reader, *cache.Reader, error) {
	client, err := platformredis.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	var backend cache.Backend
	switch {
	case client != nil:
		a.redis = client
		backend = cache.NewRedis(client.Client, cfg.CacheTTL)
	case st.shared:
		log.Info("REDIS_URL not set; override reads are not cached")
		return st.overrides, nil, nil
	default:
		backend = cache.NewLocal(cfg.LocalSize, cfg.CacheTTL)
	}
	cached := cache.New(st.overrides, backend, cache.WithLogger(log), cache.WithMetrics(m))
	return cached, cached, nil
}

// buildPublisher always records entries in the audit store. When brokers are
// configured it also streams them; stream failures do not count as a lost
// entry because the store already holds it.
func (a *app) buildPublisher(ctx context.Context, cfg config.KafkaConfig, store auditlog.Store, log *slog.Logger) (audit.Publisher, error) {
	storePub := audit.NewStorePublisher(store)
	if len(cfg.Brokers) == 0 {
		return storePub, nil
	}
	stream, err := audit.NewStream(ctx, cfg, audit.WithStreamLogger(log))
	if err != nil {
		return nil, fmt.Errorf("connect audit stream: %w", err)
	}
	a.stream = stream
	log.Info("audit stream enabled", "topic", cfg.AuditTopic, "brokers", cfg.Brokers)
	streamed := audit.NewBreaker(stream, cfg.BreakerThreshold, cfg.BreakerCooldown)
	return audit.Multi{storePub, audit.Optional{Publisher: streamed, Logger: log}}, nil
}

// health reports the first failing dependency.
func (a *app) health(ctx context.Context) error {
	if a.db != nil {
		if err := database.Health(ctx, a.db); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.stream != nil {
		_ = a.stream.Close(ctx)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
