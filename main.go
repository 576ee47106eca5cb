package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"spectra_backend/internals/configs"
	database "spectra_backend/internals/databases"
	"spectra_backend/internals/features/students/cache"
	"spectra_backend/internals/features/students/upstream"
	ossHelper "spectra_backend/internals/helpers/oss"
	middlewares "spectra_backend/internals/middlewares"
	routes "spectra_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	log, err := configs.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app, cfg, log)

	// DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	database.TunePool(db, log)
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	database.WarmUp(db, log)

	deps := routes.Deps{
		Config:   cfg,
		DB:       db,
		Upstream: upstream.NewClient(cfg.Upstream, log),
		Cache:    cache.Nop{},
		Log:      log,
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.URL != "" {
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		redisCache, err = cache.DialRedisCache(pingCtx, cfg.Redis.URL, cfg.Redis.TTL)
		cancelPing()
		if err != nil {
			log.Warn("redis disabled", zap.Error(err))
		} else {
			deps.Cache = redisCache
			log.Info("redis cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	if cfg.OSS.Enabled() {
		if archiver, err := ossHelper.NewPictureArchiver(cfg.OSS, log); err != nil {
			log.Warn("picture archive disabled", zap.Error(err))
		} else {
			deps.Pictures = archiver
		}
	}

	routes.SetupRoutes(app, deps)

	// Keep-Alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = cfg.Upstream.Timeout + 15*time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info("listening", zap.String("port", cfg.AppPort))
		if err := app.Listen("0.0.0.0:" + cfg.AppPort); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + close pools
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if redisCache != nil {
		_ = redisCache.Close()
	}
	database.Close(db)
	log.Info("shutdown complete")
}
