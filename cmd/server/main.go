package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kingshubham139/university-chat/internal/app"
	"github.com/kingshubham139/university-chat/internal/chat"
	httpx "github.com/kingshubham139/university-chat/internal/http"
	"github.com/kingshubham139/university-chat/internal/store"
	"github.com/kingshubham139/university-chat/internal/ws"
	"github.com/kingshubham139/university-chat/pkg/auth"
	"github.com/kingshubham139/university-chat/pkg/metrics"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Redis cache for message history
	cache, err := store.NewRecentCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("redis connect", "err", err)
		log.Fatal(err)
	}
	defer cache.Close()
	pg.AttachCache(cache)

	// Realtime core: registry + dispatcher, rebuilt empty on every start.
	// Presence resets with the process; history lives in postgres.
	registry := chat.NewRegistry()
	dispatcher := chat.NewDispatcher(registry, pg, logger)
	metrics.ObserveRooms(func() float64 { return float64(registry.RoomCount()) })

	// WebSocket gateway
	hub := ws.NewHub(logger, dispatcher, auth.New(cfg.JWTSecret))

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, pg, dispatcher)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
