package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/config"
	"github.com/kailas-cloud/studiodex/internal/db"
	"github.com/kailas-cloud/studiodex/internal/db/meili"
	dbRedis "github.com/kailas-cloud/studiodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/studiodex/internal/logger"
	"github.com/kailas-cloud/studiodex/internal/metrics"
	"github.com/kailas-cloud/studiodex/internal/repository/catalog"
	"github.com/kailas-cloud/studiodex/internal/repository/searchindex"
	"github.com/kailas-cloud/studiodex/internal/usecase/health"
	"github.com/kailas-cloud/studiodex/internal/usecase/indexer"
	"github.com/kailas-cloud/studiodex/internal/usecase/mapper"
	searchuc "github.com/kailas-cloud/studiodex/internal/usecase/search"
	"github.com/kailas-cloud/studiodex/internal/version"
)

// app is the composition root shared by all commands.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	store   db.Store
	pool    *pgxpool.Pool
	handle  *indexer.Handle
	indexer *indexer.Service
	search  *searchuc.Service
	health  *health.Service
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.sliceSize > 0 {
		cfg.Index.SliceSize = opts.sliceSize
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logpkg.NewLogger(opts.env, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Debug("Starting studiodex",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.String("index", cfg.Index.Name),
		zap.Int("slice_size", cfg.Index.SliceSize),
	)

	store, err := newEngine(cfg.Engine, cfg.Storage)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create engine store: %w", err)
	}
	readiness := time.Duration(cfg.Engine.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("engine not ready: %w", err)
	}

	pool, err := catalog.NewPool(ctx, cfg.Catalog.DSN, logger)
	if err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, err
	}

	metrics.RegisterIndexMetrics()
	metrics.RegisterSearchMetrics()

	repo := catalog.New(pool)
	client := searchindex.New(store).WithScanSize(cfg.Index.ShuffleScanSize)
	handle := indexer.NewHandle()

	idx := indexer.New(client, repo, mapper.New(repo, repo), handle, cfg.Index.Name, logger).
		WithSliceSize(cfg.Index.SliceSize)
	search := searchuc.New(client.Open(cfg.Index.Name), handle, logger).
		WithDefaultSeed(cfg.Search.DefaultSeed)

	return &app{
		env:     opts.env,
		cfg:     cfg,
		logger:  logger,
		store:   store,
		pool:    pool,
		handle:  handle,
		indexer: idx,
		search:  search,
		health:  health.New(store, repo, handle),
	}, nil
}

// newEngine creates the engine driver selected by cfg.Driver.
func newEngine(cfg config.EngineConfig, storage config.StorageConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: storage.KeyPrefix,
		})
	case config.DriverMeilisearch:
		store, err = meili.NewStore(meili.Config{
			Host:   cfg.Host,
			APIKey: cfg.APIKey,
		})
	default:
		return nil, fmt.Errorf("unknown engine driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// attach resolves an index promoted by an earlier build.
func (a *app) attach(ctx context.Context) (bool, error) {
	ok, err := a.indexer.Attach(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		a.logger.Debug("attached to live index", zap.String("index", a.indexer.Alias()))
	}
	return ok, nil
}

func (a *app) Close() {
	a.pool.Close()
	a.store.Close()
	_ = a.logger.Sync()
}

// withApp builds the app, runs fn and releases every resource afterwards.
func withApp(ctx context.Context, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
