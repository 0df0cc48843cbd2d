package app

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/qpfl/league-core/internal/config"
	"github.com/qpfl/league-core/internal/domain/document"
	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/stats"
	"github.com/qpfl/league-core/internal/infrastructure/repository/cache"
	"github.com/qpfl/league-core/internal/infrastructure/repository/memory"
	"github.com/qpfl/league-core/internal/infrastructure/repository/postgres"
	"github.com/qpfl/league-core/internal/infrastructure/repository/redis"
	"github.com/qpfl/league-core/internal/infrastructure/statsfeed"
	idgen "github.com/qpfl/league-core/internal/platform/id"
	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
	"github.com/qpfl/league-core/internal/usecase"
)

// App holds the wired services for one process.
type App struct {
	Config    config.Config
	League    league.Config
	Logger    *logging.Logger
	Store     document.Store
	Stats     stats.Source
	Ledger    *usecase.LedgerService
	Lineups   *usecase.LineupService
	Scoring   *usecase.ScoringService
	Standings *usecase.StandingsService

	closers []func() error
}

// New builds the document store selected by cfg.StoreBackend and every service on top of it.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)

	leagueCfg, err := config.LoadLeagueConfig(cfg.LeagueConfigPath)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	source := cache.NewStatsSource(
		statsfeed.NewSource(statsFetcher(cfg, logger), logger),
		cfg.StatsCacheTTL,
		resilience.NewCircuitBreaker(statsBreakerConfig(cfg, logger)),
	)

	return Wire(cfg, leagueCfg, store, source, logger, closeStore), nil
}

func statsBreakerConfig(cfg config.Config, logger *logging.Logger) resilience.CircuitBreakerConfig {
	breaker := cfg.StatsCircuitBreaker()
	breaker.OnStateChange = func(from, to resilience.CircuitState) {
		logger.Warn("stats source circuit breaker changed state", "from", from, "to", to)
	}
	return breaker
}

// statsFetcher prefers the HTTP feed when STATS_FEED_URL is set.
func statsFetcher(cfg config.Config, logger *logging.Logger) statsfeed.Fetcher {
	if cfg.StatsFeedURL == "" {
		return statsfeed.NewDirFetcher(cfg.StatsSnapshotDir)
	}
	return statsfeed.NewHTTPFetcher(statsfeed.HTTPFetcherConfig{
		BaseURL: cfg.StatsFeedURL,
		Token:   cfg.StatsFeedToken,
		Timeout: cfg.StatsFeedTimeout,
		Retry:   resilience.RetryPolicy{MaxAttempts: cfg.StatsFeedMaxAttempts, Step: time.Second},
		Logger:  logger,
	})
}

// Wire assembles the services from already-built dependencies.
func Wire(cfg config.Config, leagueCfg league.Config, store document.Store, source stats.Source, logger *logging.Logger, closers ...func() error) *App {
	retry := cfg.CommitRetryPolicy()
	return &App{
		Config:    cfg,
		League:    leagueCfg,
		Logger:    logger,
		Store:     store,
		Stats:     source,
		Ledger:    usecase.NewLedgerService(leagueCfg, store, idgen.NewShortUUIDGenerator(8), retry, logger),
		Lineups:   usecase.NewLineupService(leagueCfg, store, retry, logger),
		Scoring:   usecase.NewScoringService(leagueCfg, store, source, cfg.ScoringWorkers, retry, logger),
		Standings: usecase.NewStandingsService(leagueCfg, store, logger),
		closers:   closers,
	}
}

func (a *App) Close() error {
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if a.closers[i] == nil {
			continue
		}
		errs = crerr.CombineErrors(errs, a.closers[i]())
	}
	return errs
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (document.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDocumentStore(db, cfg.DocumentsTable), db.Close, nil

	case config.StoreRedis:
		store, err := redis.New(cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("document store ready", "backend", cfg.StoreBackend, "prefix", cfg.RedisKeyPrefix)
		return store, store.Close, nil

	case config.StoreMemory, "":
		logger.Warn("document store is in-process memory; nothing is persisted")
		return memory.NewDocumentStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
