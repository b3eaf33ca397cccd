// Package cli wires configuration, storage and the engine together for the
// quizflow commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/internal/config"
	"github.com/aretw0/quizflow/internal/dashboard"
	"github.com/aretw0/quizflow/internal/logging"
	"github.com/aretw0/quizflow/pkg/adapters/memory"
	"github.com/aretw0/quizflow/pkg/adapters/redis"
	"github.com/aretw0/quizflow/pkg/adapters/sqlite"
	"github.com/aretw0/quizflow/pkg/catalog"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/observability"
	"github.com/aretw0/quizflow/pkg/ports"
)

// Store is a result store the CLI owns and must close.
type Store interface {
	ports.WatchableStore
	Close() error
}

// App is the assembled application.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Graph     *domain.Graph
	Store     Store
	Metrics   *observability.Metrics
	Engine    *quizflow.Engine
	Dashboard *dashboard.Service
}

// NewLogger builds the application logger from the configuration.
func NewLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}

// LoadGraph loads the graph file, or the built-in catalog when path is empty.
func LoadGraph(path string) (*domain.Graph, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// OpenStore opens the configured result store.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.NewStore(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithChannel(cfg.Redis.Channel),
		)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Bootstrap assembles the App. Callers must Close it.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	g, err := LoadGraph(cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	metrics := observability.NewMetrics()
	engine, err := quizflow.New(
		quizflow.WithGraph(g),
		quizflow.WithStore(store),
		quizflow.WithLogger(logger),
		quizflow.WithMetrics(metrics),
		quizflow.WithLifecycleHooks(debugHooks(logger)),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	dash := dashboard.NewService(store, store,
		dashboard.WithLogger(logger),
		dashboard.WithRefreshObserver(metrics.ObserveRefresh),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Graph:     g,
		Store:     store,
		Metrics:   metrics,
		Engine:    engine,
		Dashboard: dash,
	}, nil
}

// Close releases the dashboard subscribers and the store.
func (a *App) Close() error {
	a.Dashboard.Close()
	return a.Store.Close()
}

// debugHooks logs every transition at debug level.
func debugHooks(logger *slog.Logger) domain.FlowHooks {
	return domain.FlowHooks{
		OnBegin: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "hook: begin", "nickname", e.Nickname, "question", e.QuestionID)
		},
		OnAdvance: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "hook: advance", "from", e.FromID, "option", e.OptionID, "to", e.QuestionID)
		},
		OnComplete: func(ctx context.Context, e *domain.SubmissionRequested) {
			logger.DebugContext(ctx, "hook: complete", "nickname", e.Nickname, "result", e.ResultTitle)
		},
		OnRestart: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "hook: restart", "from", e.FromID)
		},
	}
}
