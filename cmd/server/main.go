// main wires configuration, storage, the notification pipeline, and the HTTP
// router, then runs everything under one lifecycle with graceful shutdown.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fundrace/internal/allocator"
	"fundrace/internal/media"
	"fundrace/internal/notify"
	"fundrace/internal/notify/mailer"
	"fundrace/internal/notify/queue"
	"fundrace/internal/notify/worker"
	"fundrace/internal/paymentlink"
	"fundrace/internal/platform/config"
	"fundrace/internal/platform/httpserver"
	"fundrace/internal/platform/logger"
	platformmetrics "fundrace/internal/platform/metrics"
	"fundrace/internal/platform/postgres"
	platformredis "fundrace/internal/platform/redis"
	reghandler "fundrace/internal/registration/handler"
	regmetrics "fundrace/internal/registration/metrics"
	regservice "fundrace/internal/registration/service"
	regstore "fundrace/internal/registration/store"
	"fundrace/internal/settings"
	httptransport "fundrace/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rds, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rds != nil {
		defer rds.Close()
	}

	// Storage backends degrade to in-memory when nothing is configured so
	// the server stays runnable in development.
	var registrations regstore.Store = regstore.NewInMemoryStore()
	var settingsStore settings.Store = settings.NewInMemoryStore()
	var paymentLinks paymentlink.Store = paymentlink.NewInMemoryStore()
	if db != nil {
		registrations = regstore.NewPostgres(db)
		settingsStore = settings.NewPostgres(db)
		paymentLinks = paymentlink.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var issued allocator.IssuedSet = allocator.NewInMemorySet()
	if rds != nil {
		issued = allocator.NewRedisSet(rds.Client, "")
	}

	mediaStore, mediaDir, err := newMediaStore(cfg)
	if err != nil {
		return err
	}

	notifyQueue, jobs, closeQueue, err := newNotifyQueue(cfg, log)
	if err != nil {
		return err
	}
	defer closeQueue()

	metrics := platformmetrics.New()

	settingsSvc := settings.NewService(settingsStore, log)
	linkSvc := paymentlink.NewService(paymentLinks, log)
	regSvc := regservice.New(
		registrations,
		allocator.New(issued),
		settingsSvc,
		notifyQueue,
		mediaStore,
		log,
		regservice.WithMetrics(regmetrics.New()),
	)

	router := httptransport.NewRouter(log, httptransport.Handlers{
		Registration: reghandler.New(regSvc, mediaStore, log),
		PaymentLinks: paymentlink.NewHandler(linkSvc, log),
		Settings:     settings.NewHandler(settingsSvc, mediaStore, log),
	}, httptransport.Options{
		MediaDir: mediaDir,
		Metrics:  metrics,
	})

	srv := httpserver.New(cfg.Addr, router)
	send := worker.New(mailer.New(cfg.SMTP, log), jobs, log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting server",
			slog.String("addr", cfg.Addr),
			slog.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return runNotify(groupCtx, cfg, send, log)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newMediaStore(cfg config.Config) (media.Store, string, error) {
	if cfg.CloudinaryURL != "" {
		store, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
		return store, "", err
	}
	store, err := media.NewDiskStore(cfg.MediaDir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

// newNotifyQueue picks Kafka when brokers are configured, else an in-process
// channel. The returned jobs channel is nil for Kafka; delivery then runs
// through the consumer in runNotify.
func newNotifyQueue(cfg config.Config, log *slog.Logger) (notify.Queue, <-chan notify.Job, func(), error) {
	if cfg.KafkaBrokers != "" {
		producer, err := queue.NewKafkaQueue(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return producer, nil, producer.Close, nil
	}
	channel := queue.NewChannelQueue(0)
	return channel, channel.Jobs(), func() {}, nil
}

func runNotify(ctx context.Context, cfg config.Config, send *worker.Worker, log *slog.Logger) error {
	if cfg.KafkaBrokers == "" {
		return send.Run(ctx)
	}
	consumer, err := queue.NewKafkaConsumer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, cfg.KafkaGroup, log)
	if err != nil {
		return err
	}
	defer consumer.Close()
	return consumer.Run(ctx, send.Handle)
}
