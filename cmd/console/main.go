package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-console/internal/app"
	"github.com/meridian-pos/meridian-console/internal/console/auditlog"
	authhttp "github.com/meridian-pos/meridian-console/internal/console/auth"
	"github.com/meridian-pos/meridian-console/internal/console/branches"
	"github.com/meridian-pos/meridian-console/internal/console/customers"
	"github.com/meridian-pos/meridian-console/internal/console/dashboard"
	"github.com/meridian-pos/meridian-console/internal/console/inventory"
	"github.com/meridian-pos/meridian-console/internal/console/sales"
	"github.com/meridian-pos/meridian-console/internal/console/users"
	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/mutation"
	"github.com/meridian-pos/meridian-console/internal/observability"
	"github.com/meridian-pos/meridian-console/internal/platform/cache"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
	"github.com/meridian-pos/meridian-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager, err := session.NewManager(redisClient, "meridian_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	if err != nil {
		logger.Error("init session manager", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	mutation.SetObserver(metrics.ObserveMutation)
	listview.SetStaleObserver(metrics.ObserveStaleFetch)

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	marks := invalidate.NewMarks(redisClient, logger)

	authHandler := authhttp.NewHandler(client, logger)
	dashboardHandler := dashboard.NewHandler(client, redisClient, marks, logger)
	branchesHandler := branches.NewHandler(branches.NewService(client), marks, logger)
	customersHandler := customers.NewHandler(customers.NewService(client), marks, logger)
	salesHandler := sales.NewHandler(sales.NewService(client), marks, logger)
	inventoryService := inventory.NewService(client, redisClient, marks)
	inventoryHandler := inventory.NewHandler(inventoryService, marks, logger)
	usersHandler := users.NewHandler(users.NewService(client), marks, logger)
	auditLogHandler := auditlog.NewHandler(auditlog.NewService(client), cfg.AuditPollInterval, logger)

	authHandler.OnLogout(branchesHandler.DropViewer)
	authHandler.OnLogout(customersHandler.DropViewer)
	authHandler.OnLogout(salesHandler.DropViewer)
	authHandler.OnLogout(inventoryHandler.DropViewer)
	authHandler.OnLogout(usersHandler.DropViewer)
	authHandler.OnLogout(auditLogHandler.DropViewer)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		Upstream:         client,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		BranchesHandler:  branchesHandler,
		CustomersHandler: customersHandler,
		SalesHandler:     salesHandler,
		InventoryHandler: inventoryHandler,
		UsersHandler:     usersHandler,
		AuditLogHandler:  auditLogHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
