package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kiranalabs/kiranabot/internal/api/router"
	"github.com/kiranalabs/kiranabot/internal/catalog"
	"github.com/kiranalabs/kiranabot/internal/config"
	"github.com/kiranalabs/kiranabot/internal/customers"
	"github.com/kiranalabs/kiranabot/internal/engine"
	"github.com/kiranalabs/kiranabot/internal/faq"
	"github.com/kiranalabs/kiranabot/internal/notify"
	"github.com/kiranalabs/kiranabot/internal/observability/metrics"
	"github.com/kiranalabs/kiranabot/internal/orders"
	"github.com/kiranalabs/kiranabot/internal/session"
	"github.com/kiranalabs/kiranabot/internal/telegram"
	"github.com/kiranalabs/kiranabot/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting kirana bot", "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.NewBotMetrics(registry)

	// Storage. Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		orderStore orders.Store
		directory  customers.Directory
		pool       *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("postgres unreachable", "error", err)
			os.Exit(1)
		}
		orderStore = orders.NewPostgresStore(pool)
		directory = customers.NewPostgresDirectory(pool)
		logger.Info("using postgres storage")
	} else {
		orderStore = orders.NewMemoryStore()
		directory = customers.NewMemoryDirectory()
		logger.Warn("DATABASE_URL not set, orders and customers are in-memory only")
	}

	// Sessions. Redis when configured, otherwise per-process memory.
	var (
		sessions    session.Store
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		logger.Info("using redis session store", "ttl", cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	// Notifications: operator chat always, email when SendGrid is configured.
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
		logger.Info("sendgrid email notifications enabled", "to", cfg.OrderNotificationEmail)
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}

	var dispatcher *engine.Dispatcher

	bot, err := telegram.New(cfg.BotToken, sinkFunc(func(ctx context.Context, in engine.Inbound) error {
		return dispatcher.Enqueue(ctx, in)
	}), cfg.UpdateTimeout, logger)
	if err != nil {
		logger.Error("telegram bot init failed", "error", err)
		os.Exit(1)
	}

	notifier := notify.NewService(
		telegram.NewOperatorNotifier(bot.API(), cfg.OwnerChatID, logger),
		emailSender,
		cfg.OrderNotificationEmail,
		logger,
	)
	notifier.OnFailure = botMetrics.ObserveNotifyFailure

	conv := engine.New(engine.Config{
		Catalog:       catalog.Default(),
		FAQ:           faq.Default(cfg.SupportEmail, cfg.ContactNumber),
		Sessions:      sessions,
		Orders:        orderStore,
		Customers:     directory,
		Notifier:      notifier,
		Metrics:       botMetrics,
		Logger:        logger,
		SupportEmail:  cfg.SupportEmail,
		ContactNumber: cfg.ContactNumber,
	})

	dispatcher = engine.NewDispatcher(conv, bot.Deliver, logger,
		engine.WithWorkerCount(cfg.WorkerCount),
		engine.WithQueueBuffer(cfg.QueueBuffer),
	)
	dispatcher.Start(ctx)

	go bot.Run(ctx)

	opsServer := &http.Server{
		Addr: ":" + cfg.OpsPort,
		Handler: router.New(&router.Config{
			Logger:         logger,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Database:       poolPinger(pool),
			Redis:          redisPinger(redisClient),
		}),
	}
	go func() {
		logger.Info("ops server listening", "port", cfg.OpsPort)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer doneCancel()

	_ = opsServer.Shutdown(doneCtx)

	waitCh := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("dispatcher stopped")
	case <-doneCtx.Done():
		logger.Error("shutdown timed out", "error", doneCtx.Err())
	}
}

// sinkFunc adapts a closure to the telegram.Sink interface so the bot can be
// constructed before the dispatcher that feeds on it.
type sinkFunc func(ctx context.Context, in engine.Inbound) error

func (f sinkFunc) Enqueue(ctx context.Context, in engine.Inbound) error {
	return f(ctx, in)
}

// poolPinger wraps the pgx pool as a readiness probe; nil pools yield nil
// probes so the router skips the check.
func poolPinger(pool *pgxpool.Pool) router.Pinger {
	if pool == nil {
		return nil
	}
	return pingerFunc(pool.Ping)
}

func redisPinger(client *redis.Client) router.Pinger {
	if client == nil {
		return nil
	}
	return pingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
