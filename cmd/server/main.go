package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"eventops/internal/abstracts"
	"eventops/internal/audit"
	auditHandler "eventops/internal/audit/handler"
	"eventops/internal/certificate"
	certificateHandler "eventops/internal/certificate/handler"
	"eventops/internal/certificate/pdf"
	"eventops/internal/jwttoken"
	"eventops/internal/platform/config"
	"eventops/internal/platform/httpserver"
	"eventops/internal/platform/logger"
	"eventops/internal/platform/metrics"
	platformredis "eventops/internal/platform/redis"
	"eventops/internal/redemption/dedupe"
	redemptionHandler "eventops/internal/redemption/handler"
	"eventops/internal/redemption/service"
	"eventops/internal/redemption/store"
	"eventops/internal/registration"
	"eventops/internal/station"
	stationHandler "eventops/internal/station/handler"
	httptransport "eventops/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.EventTimezone)
	if err != nil {
		log.Warn("unknown event timezone, falling back to UTC",
			slog.String("timezone", cfg.EventTimezone))
		location = time.UTC
	}

	// Two connections to the same database: pgx for the contended
	// usage-record path, database/sql for the read-mostly lookup stores.
	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	recordStore := store.NewPostgresStore(pool)
	if err := recordStore.EnsureSchema(ctx); err != nil {
		return err
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	m := metrics.New()

	// Audit pipeline: publisher -> inbox -> worker -> store (+ optional
	// Kafka mirror). The worker drains on shutdown.
	inbox := make(chan audit.Event, 256)
	auditStore := audit.NewPostgresStore(db)
	if err := auditStore.EnsureSchema(ctx); err != nil {
		return err
	}
	var mirror audit.Mirror
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaMirror, err := audit.NewKafkaMirror(ctx, cfg.Kafka)
		if err != nil {
			return err
		}
		defer kafkaMirror.Close()
		mirror = kafkaMirror
	}
	worker := audit.NewWorker(auditStore, mirror, inbox, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		// Detached from the signal context so buffered events still drain
		// after shutdown begins; closing the inbox stops the worker.
		if err := worker.Run(context.WithoutCancel(ctx)); err != nil {
			log.Error("audit worker stopped", slog.String("error", err.Error()))
		}
	}()
	publisher := audit.NewPublisher(inbox, log)

	regStore := registration.NewPostgresStore(db)
	abstractStore := abstracts.NewPostgresStore(db)
	templateStore := certificate.NewPostgresStore(db)

	redemptionSvc := service.New(regStore, recordStore, publisher, m, location)
	resolver := certificate.NewResolver(templateStore, abstractStore, publisher, m)
	generator := pdf.NewClient(cfg.PDF)
	runner := station.NewRunner(generator, publisher, m, log)

	var cacheFactory station.CacheFactory
	if rdb != nil {
		raw := rdb.Client
		cacheFactory = func(stationID string) dedupe.Cache {
			return dedupe.NewRedisCache(raw, cfg.DedupeTTL, stationID)
		}
	} else {
		cacheFactory = func(string) dedupe.Cache {
			return dedupe.NewMemoryCache(dedupe.WithTTL(cfg.DedupeTTL))
		}
	}
	stations := station.NewManager(redemptionSvc, resolver, cacheFactory, m, log)

	jwtValidator := jwttoken.NewService(cfg.JWTSigningKey, "eventops")

	checks := map[string]httptransport.HealthCheck{
		"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
	}
	if rdb != nil {
		checks["redis"] = rdb.Health
	}

	router := httptransport.NewRouter(log, checks,
		redemptionHandler.New(redemptionSvc, log, m, jwtValidator),
		certificateHandler.New(resolver, templateStore, abstractStore, regStore, runner, log, jwtValidator),
		stationHandler.New(stations, log, jwtValidator),
		auditHandler.New(auditStore, log, jwtValidator),
	)

	srv := httpserver.New(cfg.Addr, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting eventops", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	close(inbox)
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn("audit worker did not drain in time")
	}
	return nil
}
