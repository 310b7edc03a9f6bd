package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"studyhub/internal/docstore"
	"studyhub/internal/events"
	"studyhub/internal/platform/config"
	"studyhub/internal/platform/metrics"
	"studyhub/internal/platform/redis"
	"studyhub/internal/websession"
)

// Runtime is a built App plus the infrastructure it owns.
type Runtime struct {
	App     *App
	Metrics *metrics.Metrics

	db      *sql.DB
	redis   *redis.Client
	closers []func() error
}

// Build selects the storage, session and event backends from cfg and composes
// the App over them. Close releases whatever Build opened.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *Runtime, err error) {
	rt := &Runtime{Metrics: metrics.New(reg)}
	defer func() {
		if err != nil {
			_ = rt.Close()
		}
	}()

	engine, err := rt.openEngine(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	store, err := rt.openSessionStore(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := rt.openPublisher(ctx, cfg.Events, logger)
	if err != nil {
		return nil, err
	}

	if cfg.UsesDevSigningKey() {
		logger.Warn("using the development session signing key")
	}
	sessions := websession.New(store,
		websession.NewTokens(cfg.Session.SigningKey, cfg.Session.Issuer),
		websession.WithTTL(cfg.Session.TTL),
		websession.WithLogger(logger),
		websession.WithMetrics(rt.Metrics),
	)

	rt.App, err = New(ctx, Deps{
		Engine:    engine,
		Sessions:  sessions,
		Publisher: publisher,
		Metrics:   rt.Metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *Runtime) openEngine(ctx context.Context, cfg config.Storage, logger *slog.Logger) (docstore.Engine, error) {
	if cfg.Backend != config.StoragePostgres {
		logger.Info("using in-memory document store")
		return docstore.NewMemoryEngine(), nil
	}
	if err := docstore.Migrate(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	rt.db = db
	rt.closers = append(rt.closers, db.Close)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("using postgres document store")
	return docstore.NewPostgresEngine(db), nil
}

func (rt *Runtime) openSessionStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (websession.Store, error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("using in-memory session store")
		return websession.NewInMemoryStore(), nil
	}
	rt.redis = client
	rt.closers = append(rt.closers, client.Close)
	logger.Info("using redis session store")
	return websession.NewRedisStore(client.Client), nil
}

func (rt *Runtime) openPublisher(ctx context.Context, cfg config.Events, logger *slog.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewLogPublisher(logger), nil
	}
	p, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic,
		events.WithKafkaLogger(logger),
		events.WithKafkaMetrics(rt.Metrics),
	)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, p.Close)
	logger.Info("publishing activity events to kafka", "topic", cfg.KafkaTopic)
	return p, nil
}

// Health pings the external backends in use.
func (rt *Runtime) Health(ctx context.Context) error {
	if rt.db != nil {
		if err := rt.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}
