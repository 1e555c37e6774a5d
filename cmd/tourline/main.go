package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/go-redis/redis/v8"

	homeapp "tourline/internal/app/handlers/home"
	orderapp "tourline/internal/app/handlers/orders"
	sectionapp "tourline/internal/app/handlers/sections"
	taxonomyapp "tourline/internal/app/handlers/taxonomy"
	tourapp "tourline/internal/app/handlers/tours"
	appoutbox "tourline/internal/app/outbox"
	"tourline/internal/app/policies"
	"tourline/internal/app/schedule"
	domainorders "tourline/internal/domain/orders"
	domainsections "tourline/internal/domain/sections"
	domaintaxonomy "tourline/internal/domain/taxonomy"
	domaintours "tourline/internal/domain/tours"
	"tourline/internal/infra/broker/kafka"
	"tourline/internal/infra/config"
	mongodb "tourline/internal/infra/db/mongo"
	ginserver "tourline/internal/infra/http/gin"
	"tourline/internal/infra/obs"
	infraoutbox "tourline/internal/infra/outbox"
	"tourline/internal/infra/ratelimit"
	"tourline/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration with in-memory storage", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.BookingRateMax = 5
		cfg.BookingRateWindow = time.Minute
		cfg.PriceBands = os.Getenv("PRICE_BANDS")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
	closers  []func() error
	logger   *slog.Logger
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		ready:  func() error { return nil },
		logger: logger,
	}

	var (
		tourRepo     domaintours.Repository
		detailRepo   domaintours.DetailRepository
		orderRepo    domainorders.Repository
		sectionRepo  domainsections.Repository
		taxonomyRepo domaintaxonomy.Repository
		idemStore    policies.IdempotencyStore
		box          appoutbox.Outbox
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		tourRepo = mongodb.NewTourRepository(client.DB)
		detailRepo = mongodb.NewDetailRepository(client.DB)
		orderRepo = mongodb.NewOrderRepository(client.DB)
		sectionRepo = mongodb.NewSectionRepository(client.DB)
		taxonomyRepo = mongodb.NewTaxonomyRepository(client.DB)
		idemStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		store := infraoutbox.NewStore(client.DB)
		box = store
		app.ready = func() error { return client.Ping(context.Background()) }

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, err
			}
			app.closers = append(app.closers, producer.Close)
			worker := &infraoutbox.Worker{
				Queue:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
				Logger:      logger,
			}
			go func() {
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("outbox relay stopped", "error", err)
				}
			}()
			logger.Info("outbox relay started", "brokers", cfg.KafkaBrokers)
		} else {
			logger.Info("kafka brokers not configured, outbox relay disabled")
		}
	} else {
		tourRepo = memory.NewTourRepository()
		detailRepo = memory.NewDetailRepository()
		orderRepo = memory.NewOrderRepository()
		sectionRepo = memory.NewSectionRepository()
		taxonomyRepo = memory.NewTaxonomyRepository()
		idemStore = memory.NewIdempotencyStore()
		box = memory.NewOutbox()
	}

	var limiter policies.AttemptLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		app.closers = append(app.closers, rdb.Close)
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.BookingRateMax, cfg.BookingRateWindow)
	} else {
		limiter = memory.NewAttemptLimiter(cfg.BookingRateMax, cfg.BookingRateWindow)
	}

	encoder := appoutbox.JSONEventEncoder{}
	planner := mongodb.NewPlanner(mongodb.LoadPriceBands(cfg.PriceBands, logger))

	recalculator := &tourapp.Recalculator{
		Tours:   tourRepo,
		Details: detailRepo,
		Box:     box,
		Encoder: encoder,
		Logger:  logger,
	}
	catalog := &tourapp.CatalogService{
		Tours:   tourRepo,
		Details: detailRepo,
		Planner: planner,
		Logger:  logger,
	}
	adminTours := &tourapp.AdminService{
		Tours:        tourRepo,
		Details:      detailRepo,
		Recalculator: recalculator,
		Box:          box,
		Encoder:      encoder,
		Logger:       logger,
	}
	orders := &orderapp.Service{
		Orders:      orderRepo,
		Tours:       tourRepo,
		Details:     detailRepo,
		Idempotency: idemStore,
		Limiter:     limiter,
		Box:         box,
		Encoder:     encoder,
		Logger:      logger,
	}
	home := &homeapp.Service{
		Sections: sectionRepo,
		Tours:    tourRepo,
		Planner:  planner,
		Logger:   logger,
	}
	sweeper := &schedule.Sweeper{
		Tours:    tourRepo,
		Recalc:   recalculator,
		Interval: cfg.PriceSweepInterval,
		Logger:   logger,
	}
	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pricing sweep stopped", "error", err)
		}
	}()

	sections := &sectionapp.AdminService{Sections: sectionRepo}
	taxonomy := &taxonomyapp.Service{Entities: taxonomyRepo}

	app.handlers = ginserver.Handlers{
		Catalog:   ginserver.CatalogHandler{Catalog: catalog, Home: home},
		Orders:    ginserver.OrderHandler{Orders: orders},
		AdminTour: ginserver.AdminTourHandler{Admin: adminTours},
		Sections:  ginserver.SectionHandler{Sections: sections},
		Taxonomy:  ginserver.TaxonomyHandler{Taxonomy: taxonomy},
	}
	return app, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
