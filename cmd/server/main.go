package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/config"
	"github.com/iliyamo/cinema-ticketing/internal/database"
	"github.com/iliyamo/cinema-ticketing/internal/handler"
	"github.com/iliyamo/cinema-ticketing/internal/logger"
	"github.com/iliyamo/cinema-ticketing/internal/metrics"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/router"
	"github.com/iliyamo/cinema-ticketing/internal/service"
	"github.com/iliyamo/cinema-ticketing/internal/utils"
)

const (
	serviceName   = "cinema-ticketing"
	bookingMaxAge = 30 * time.Minute
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// the configured logger needs cfg
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New(cfg.Env, cfg.LogLevel, serviceName)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	rdb := connectRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	kv, closeKV, err := openStorage(ctx, cfg, rdb, log)
	if err != nil {
		return err
	}
	defer closeKV()

	users := repository.NewUserStore(kv, log.Named("users"), cfg.BcryptCost)

	var cache catalog.Cache = catalog.NewMemoryCache(cfg.Catalog.CacheTTL)
	if cfg.Catalog.CacheBackend == config.CacheRedis {
		if rdb != nil {
			cache = catalog.NewRedisCache(rdb, cfg.Catalog.CachePrefix, cfg.Catalog.CacheTTL)
		} else {
			log.Warn("redis unavailable, catalog cache falls back to memory")
		}
	}
	movies := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		ClientName: cfg.Catalog.ClientName,
		Timeout:    cfg.Catalog.Timeout,
	}, cache, log.Named("catalog"), m)

	var events service.Publisher = service.NewLogPublisher(log.Named("events"), m)
	if cfg.Events.Enabled {
		events = service.NewAMQPPublisher(cfg.Events.AMQPURL, log.Named("events"), m)
	}
	if cfg.Events.Consumer {
		go func() {
			err := queue.StartOrderConsumer(ctx, queue.ConsumerConfig{
				URL:     cfg.Events.AMQPURL,
				LogPath: cfg.Events.OrderLogPath,
			}, log.Named("consumer"))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order consumer stopped", zap.Error(err))
			}
		}()
	}

	bookings := booking.NewService(users, utils.NewOrderIDs(), events, log.Named("booking"))

	var throttle echo.MiddlewareFunc
	if cfg.Throttle.Enabled && rdb != nil {
		throttle = middleware.LoginThrottle(cfg.Throttle, rdb, log)
	}

	auth := &handler.AuthHandler{
		Users:     users,
		JWTSecret: cfg.JWTSecret,
		AccessTTL: cfg.AccessTTL,
		Log:       log,
	}
	e := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Sessions:  users,
		Throttle:  throttle,
		Metrics:   m.Handler(),
		Log:       log,
		Auth:      auth,
		Profile:   &handler.ProfileHandler{Auth: auth},
		Orders:    &handler.OrderHandler{Users: users, Events: events, Log: log},
		Catalog:   &handler.CatalogHandler{Catalog: movies, Users: users, Log: log},
		Bookings: &handler.BookingHandler{
			Catalog:  movies,
			Bookings: bookings,
			Sessions: booking.NewRegistry(bookingMaxAge),
			Log:      log,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("storage", cfg.StorageDriver))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is not needed or not reachable.
func connectRedis(ctx context.Context, cfg config.Config, log *zap.Logger) *redis.Client {
	needed := cfg.StorageDriver == config.StorageRedis ||
		cfg.Catalog.CacheBackend == config.CacheRedis ||
		cfg.Throttle.Enabled
	if !needed {
		return nil
	}
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable", zap.Error(err))
		return nil
	}
	return rdb
}

func openStorage(ctx context.Context, cfg config.Config, rdb *redis.Client, log *zap.Logger) (database.KV, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.StorageFile:
		kv, err := database.NewFileKV(cfg.StorageDir)
		return kv, noop, err
	case config.StorageMySQL:
		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return nil, noop, err
		}
		kv := database.NewMySQLKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return kv, func() { _ = db.Close() }, nil
	case config.StorageRedis:
		if rdb == nil {
			return nil, noop, errors.New("storage driver redis requires a reachable redis")
		}
		return database.NewRedisKV(rdb, serviceName), noop, nil
	}
	log.Info("using in-memory storage; data is lost on restart")
	return database.NewMemoryKV(), noop, nil
}
