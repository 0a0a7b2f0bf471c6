package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis"
	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/cache"
	"github.com/siahsang/postfeed/internal/config"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/database"
	"github.com/siahsang/postfeed/internal/filter"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type application struct {
	config    config.Config
	logger    *slog.Logger
	core      *core.Core
	auth      *auth.Auth
	pageCache cache.PageCache
	feedFills singleflight.Group
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApplication(cfg config.Config, logger *slog.Logger, db *gorm.DB, pageCache cache.PageCache) (*application, error) {
	paginator, err := filter.NewPaginator(cfg.Feed.PageSize)
	if err != nil {
		return nil, err
	}

	sqlTemplate := databaseutils.NewSQLTemplate(db, cfg.DB.QueryTimeout)
	return &application{
		config:    cfg,
		logger:    logger,
		core:      core.NewCore(logger, sqlTemplate, paginator),
		auth:      auth.New(cfg.JWT.Secret, cfg.JWT.TokenTTL),
		pageCache: pageCache,
	}, nil
}

func configLogger(env string) *slog.Logger {
	if env != config.EnvDevelopment {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}

func openDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(ctx, cfg.DB.DSN, database.Options{
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxIdleTime:  cfg.DB.MaxIdleTime,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established successfully")
	return db, nil
}

// openPageCache builds the configured backend. The returned closer releases
// the janitor goroutine or the redis connection pool.
func openPageCache(cfg config.Config) (cache.PageCache, func() error, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping().Err(); err != nil {
			_ = client.Close()
			return nil, nil, xerrors.Newf("redis %s: %w", cfg.Redis.Addr, err)
		}

		c, err := cache.NewRedisCache(client, cfg.Cache.TTL, cfg.Cache.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return c, client.Close, nil

	default:
		c, err := cache.NewMemoryCache(cfg.Cache.TTL, cache.WithSweepInterval(cfg.Cache.SweepInterval))
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}
