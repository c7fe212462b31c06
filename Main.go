package main

import (
	"Market/cache"
	"Market/config"
	"Market/events"
	"Market/jwt"
	"Market/logger"
	"Market/routers"
	"Market/store"
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logger.Fatal().Err(err).Msg("無法讀取設定檔")
	}

	production := cfg.Server.Environment == "production"
	logger.Init(cfg.Log, production)
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.SetupDatabaseConnection(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("無法連接到資料庫")
	}
	defer func() {
		dbInstance, err := db.DB()
		if err != nil {
			logger.Error().Err(err).Msg("無法取得資料庫連線")
			return
		}
		if err := dbInstance.Close(); err != nil {
			logger.Error().Err(err).Msg("關閉資料庫連線失敗")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := config.SetupRedisConnection(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("無法連接到Redis")
	}
	defer rdb.Close()

	tokens, err := jwt.LoadManager(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath, cfg.JWT.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("無法讀取JWT金鑰")
	}

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := store.New(db)
	router := routers.SetupRouters(routers.Dependencies{
		Streams:     s,
		Products:    s,
		Favorites:   s,
		Users:       s,
		Sessions:    s,
		ProductList: cache.NewRedisProductList(rdb),
		Publisher:   publisher,
		Tokens:      tokens,
		Registry:    registry,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
}
