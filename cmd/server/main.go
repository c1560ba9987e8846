package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/task-tracker-api/internal/config"
	"github.com/iliyamo/task-tracker-api/internal/database"
	"github.com/iliyamo/task-tracker-api/internal/logging"
	"github.com/iliyamo/task-tracker-api/internal/repository"
	"github.com/iliyamo/task-tracker-api/internal/router"
	"github.com/iliyamo/task-tracker-api/internal/service"
	"github.com/iliyamo/task-tracker-api/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db, cfg.DBDriver)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	rl := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if rl.Enabled {
		rc := config.LoadRedisConfig()
		if rdb, err = config.NewRedisClient(rc); err != nil {
			log.WithError(err).WithField("addr", rc.Addr).Warn("redis unavailable; auth rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	var events service.EventPublisher = service.NoopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.RabbitURL)
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTTL)
	auth, err := service.NewAuthService(repository.NewUserRepo(db), tokens, cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("init auth service")
	}
	tasks := service.NewTaskService(repository.NewTaskRepo(db), events, log)

	e := router.New(router.Deps{
		Auth:           auth,
		Tasks:          tasks,
		Redis:          rdb,
		RateLimit:      rl,
		MetricsEnabled: cfg.MetricsEnabled,
		Log:            log,
	})
	e.Server.ReadHeaderTimeout = 10 * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "db": cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
