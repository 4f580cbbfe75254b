package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/config"
	"github.com/biasadhi/biasadhi-gobackend/internal/db"
	"github.com/biasadhi/biasadhi-gobackend/internal/handlers"
	"github.com/biasadhi/biasadhi-gobackend/internal/logging"
	"github.com/biasadhi/biasadhi-gobackend/internal/middleware"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	client, err := db.Connect(connectCtx, cfg.MongoURI, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	database := client.Database(cfg.DBName)
	indexCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	err = db.EnsureIndexes(indexCtx, database)
	cancel()
	if err != nil {
		return err
	}

	// Initialize services and handlers
	tokens := services.NewTokenService(cfg.TokenSecret)
	userService := services.NewUserService(database, cfg.StoreTimeout, logger)
	biodataService := services.NewBiodataService(database, cfg.StoreTimeout, logger)
	favoriteService := services.NewFavoriteService(database, cfg.StoreTimeout)
	paymentService := services.NewPaymentService(database, cfg.StoreTimeout, logger)
	bridge := services.NewStripeBridge(cfg.StripeSecretKey, logger)

	opts := handlers.RouterOptions{
		StrictAuth:  cfg.AuthStrict,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiter fails open", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		opts.RateLimit = middleware.RateLimit(middleware.NewRedisCounter(rdb), cfg.RateLimit, cfg.RateWindow, "auth", cfg.TrustProxy, logger)
	}

	router := handlers.NewRouter(handlers.Handlers{
		Token:     handlers.NewTokenHandler(tokens, logger),
		Users:     handlers.NewUserHandler(userService, logger),
		Biodata:   handlers.NewBiodataHandler(biodataService, logger),
		Favorites: handlers.NewFavoriteHandler(favoriteService, logger),
		Payments:  handlers.NewPaymentHandler(paymentService, bridge, logger),
	}, middleware.NewAuth(tokens, userService, logger), opts)

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("port", cfg.Port), zap.Bool("strictAuth", cfg.AuthStrict))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
