package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/config"
	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/handler"
	"github.com/mdkhajajamaludin/wellness/internal/logging"
	"github.com/mdkhajajamaludin/wellness/internal/middleware"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
	"github.com/mdkhajajamaludin/wellness/internal/router"
	"github.com/mdkhajajamaludin/wellness/internal/service"
)

func main() {
	_ = config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("prod", "info", os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stderr)

	dialect, err := database.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database driver")
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connection failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A broken schema degrades request handling but must not stop the server.
	if err := database.EnsureSchema(ctx, db, dialect); err != nil {
		log.Error().Err(err).Msg("database tables not initialized")
	} else {
		log.Info().Msg("database tables initialized")
	}

	events := config.LoadEventsConfig()
	var publisher handler.EventPublisher
	if p := service.NewPublisher(events, log); p != nil {
		publisher = p
		log.Info().Str("queue", events.Queue).Msg("record events enabled")
	}
	if events.Enabled() && events.ConsumerEnabled {
		c := &queue.Consumer{URL: events.URL, Queue: events.Queue, LogPath: events.ActivityLogPath, Log: log}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}

	h := handler.NewRecordHandler(
		repository.NewHealthcareRepo(db, dialect),
		repository.NewFoodDietRepo(db, dialect),
		repository.NewNoteRepo(db, dialect),
		publisher,
		log,
	)

	e := router.New(router.Options{Log: log, AllowOrigins: cfg.AllowOrigins})
	router.RegisterRoutes(e)
	router.RegisterRecords(e, h, recordMiddleware(log)...)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// recordMiddleware builds the rate limiter and response cache.  Both need
// Redis and are pass-through when it is not configured.
func recordMiddleware(log zerolog.Logger) []echo.MiddlewareFunc {
	rdb := config.NewRedisClient()
	if rdb == nil {
		if config.RedisAddr() != "" {
			log.Warn().Msg("redis unreachable; cache and rate limiting disabled")
		}
	} else {
		log.Info().Str("addr", config.RedisAddr()).Msg("redis connected")
	}
	return []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	}
}
