package main

import (
	"context"
	"database/sql"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"wissensbank/backend/internal/config"
	"wissensbank/backend/internal/db"
	"wissensbank/backend/internal/handler"
	apphttp "wissensbank/backend/internal/http"
	"wissensbank/backend/internal/mailer"
	"wissensbank/backend/internal/repository"
	"wissensbank/backend/internal/scheduler"
	"wissensbank/backend/internal/service"
	"wissensbank/backend/pkg/logger"
	"wissensbank/backend/pkg/network"
	"wissensbank/backend/pkg/snowflake"
)

// @title        Wissens-Bank API
// @version      1.0
// @description  Search and entity alerts, the daily briefing and their scheduled triggers.
// @BasePath     /
func main() {
	cfg := config.Load()
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", "module", "main", "action", "run", "resource", "server", "result", "failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	if err := snowflake.Init(1); err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rateLimitRepo, closeCounters, err := newRateLimitRepository(cfg, sqlDB)
	if err != nil {
		return err
	}
	defer closeCounters()

	alertRepo := repository.NewAlertRepository(sqlDB)
	hitRepo := repository.NewAlertHitRepository(sqlDB)
	documentRepo := repository.NewDocumentRepository(sqlDB)
	entityRepo := repository.NewEntityRepository(sqlDB)
	subscriberRepo := repository.NewSubscriberRepository(sqlDB)

	clientFactory := network.NewClientFactory(network.StaticProxy(cfg.ProxyURL))
	mail := mailer.New(cfg.ResendAPIKey, cfg.EmailFrom, cfg.MailRatePerSecond, clientFactory)

	rateLimitService := service.NewRateLimitService(rateLimitRepo, cfg.RateSalt, nil)
	alertService := service.NewAlertService(alertRepo, mail, cfg.SiteURL, cfg.SiteName, nil)
	scanService := service.NewScanService(alertService, hitRepo, documentRepo, entityRepo, mail, service.ScanOptions{
		SiteURL:    cfg.SiteURL,
		SiteName:   cfg.SiteName,
		BatchLimit: cfg.AlertBatchLimit,
	}, nil)
	newsletterService := service.NewNewsletterService(subscriberRepo, documentRepo, mail, cfg.SiteURL, cfg.SiteName, nil)

	var ingestService service.IngestService
	if len(cfg.DocumentFeeds) > 0 {
		ingestService = service.NewIngestService(documentRepo, cfg.DocumentFeeds, clientFactory, nil)
	}

	e := apphttp.NewRouter(
		handler.NewAlertHandler(alertService, cfg.SiteURL),
		handler.NewScanHandler(scanService, cfg.CronSecret),
		handler.NewNewsletterHandler(newsletterService, cfg.SiteURL, cfg.CronSecret),
		handler.NewHealthHandler(sqlDB),
		rateLimitService,
		cfg.StaticDir,
		cfg.EnableSwagger,
	)

	if cfg.ScanSchedule != "" || cfg.BriefingSchedule != "" {
		sched := scheduler.New(0)
		if cfg.ScanSchedule != "" {
			if err := sched.ScheduleCycle(cfg.ScanSchedule, ingestService, scanService, rateLimitService); err != nil {
				return err
			}
		}
		if cfg.BriefingSchedule != "" {
			if err := sched.ScheduleBriefing(cfg.BriefingSchedule, newsletterService); err != nil {
				return err
			}
		}
		sched.Start()
		defer sched.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "module", "main", "action", "listen", "resource", "server", "result", "ok", "addr", cfg.Addr, "site", cfg.SiteURL)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "module", "main", "action", "shutdown", "resource", "server", "result", "ok")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newRateLimitRepository picks the counter store. Redis is only used when
// configured; the SQLite store needs no extra infrastructure.
func newRateLimitRepository(cfg config.Config, sqlDB *sql.DB) (repository.RateLimitRepository, func(), error) {
	if cfg.RateLimitBackend != "redis" {
		return repository.NewRateLimitRepository(sqlDB), func() {}, nil
	}
	if cfg.RedisURL == "" {
		return nil, nil, errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_URL")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	return repository.NewRedisRateLimitRepository(rdb), func() { _ = rdb.Close() }, nil
}
