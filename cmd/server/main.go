package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"poi-route-service/internal/adapters/cache"
	"poi-route-service/internal/api"
	"poi-route-service/internal/bootstrap"
	"poi-route-service/internal/config"
	"poi-route-service/internal/platform/obs"
	"poi-route-service/internal/routing"
	"poi-route-service/internal/services"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It loads and freezes the graph, wires the optional Redis cache and starts the HTTP server.
func main() {
	if found, err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	} else if !found {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := bootstrap.LoadGraph(ctx, cfg, logger)
	if err != nil {
		return err
	}
	svc := services.NewRouteService(g, logger, routing.WithMaxExpanded(cfg.SearchMaxExpanded))

	var router services.Router = svc
	if cfg.RedisAddr != "" {
		client, err := cache.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()

		router = services.NewCachedRouter(svc, cache.NewRedisRouteCache(client), cfg.RouteCacheTTL, logger)
		logger.Info("route cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.RouteCacheTTL))
	}

	handler := api.NewRouter(api.Deps{
		Service:           svc,
		Router:            router,
		MatrixConcurrency: cfg.MatrixConcurrency,
		Logger:            logger,
	})

	// Matrix and tour requests run many searches; the write timeout leaves room for them.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
