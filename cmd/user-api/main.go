package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-user-orders.git/internal/cache"
	"github.com/ariefcatur/go-user-orders.git/internal/config"
	"github.com/ariefcatur/go-user-orders.git/internal/events"
	"github.com/ariefcatur/go-user-orders.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-user-orders.git/internal/kafka"
	"github.com/ariefcatur/go-user-orders.git/internal/postgres"
	"github.com/ariefcatur/go-user-orders.git/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := cache.NewClient(cfg.RedisAddr)
	defer rdb.Close()
	store := cache.New(rdb)

	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicUserCreated, 1024, logger)
	prod.Start(ctx)

	svc := &users.Service{
		Repo:   &users.Repo{DB: pool},
		Cache:  store,
		Events: prod,
		TTL:    cfg.CacheTTL,
		Log:    logger,
	}

	router := httpx.NewRouter()
	uh := &httpx.UsersHandler{Svc: svc, Log: logger}
	uh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "service", cfg.ServiceName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx) // no new publishes after this
	prod.Close()              // flush the inbox and close the writer
	prod.WaitClosed()
}
