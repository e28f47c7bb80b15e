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
	"github.com/ariefcatur/go-user-orders.git/internal/orders"
	"github.com/ariefcatur/go-user-orders.git/internal/postgres"
	"github.com/ariefcatur/go-user-orders.git/internal/userclient"
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

	svc := &orders.Service{
		Repo:  &orders.Repo{DB: pool},
		Cache: store,
		Users: userclient.New(cfg.UserServiceURL, cfg.UserClientTimeout),
		TTL:   cfg.CacheTTL,
		Log:   logger,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	// user.created consumer runs in-process with the HTTP API; when it dies
	// the whole process goes down rather than serving without it
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, events.TopicUserCreated, logger)
	created := &users.CreatedHandler{Cache: store, TTL: cfg.CacheTTL, Log: logger}
	go func() {
		logger.Info("consumer started", "group", cfg.ConsumerGroup, "topic", events.TopicUserCreated)
		if err := cons.Start(ctx, created.Handle); err != nil {
			logger.Error("consumer exit", "err", err)
			select {
			case sig <- syscall.SIGTERM:
			default:
			}
		}
	}()

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{Svc: svc, Log: logger}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "service", cfg.ServiceName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	<-sig
	logger.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stops the consumer loop
}
