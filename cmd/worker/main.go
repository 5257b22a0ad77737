package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-console/internal/app"
	"github.com/meridian-pos/meridian-console/internal/console/dashboard"
	"github.com/meridian-pos/meridian-console/internal/console/inventory"
	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/platform/cache"
	"github.com/meridian-pos/meridian-console/internal/upstream"
	"github.com/meridian-pos/meridian-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	marks := invalidate.NewMarks(redisClient, logger)

	probeJob := jobs.NewHealthProbeJob(client, redisClient, logger)
	dashboardHandler := dashboard.NewHandler(client, redisClient, marks, logger)
	inventoryService := inventory.NewService(client, redisClient, marks)
	warmupJob := jobs.NewCacheWarmupJob(dashboardHandler, inventoryService, cfg.UpstreamServiceToken, logger)

	warmupTask, err := jobs.NewCacheWarmupTask(jobs.CacheWarmupPayload{Dashboard: true, Inventory: true})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskUpstreamHealthProbe, Handler: probeJob.Handle},
			{Type: jobs.TaskCacheWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "* * * * *", Task: jobs.NewUpstreamHealthProbeTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: "*/5 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
