package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iitconnect/iitconnect/api"
	dbfs "github.com/iitconnect/iitconnect/db"
	"github.com/iitconnect/iitconnect/internal/ai"
	"github.com/iitconnect/iitconnect/internal/config"
	"github.com/iitconnect/iitconnect/internal/db"
	"github.com/iitconnect/iitconnect/internal/files"
	"github.com/iitconnect/iitconnect/internal/jobs"
	"github.com/iitconnect/iitconnect/internal/repository/sqlite"
	"github.com/iitconnect/iitconnect/pkg/llm"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	llm.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	logger.Info("starting iitconnect server", "version", version, "build_time", buildTime)

	ctx := context.Background()

	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		logger.Error("open db", "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		logger.Error("migrate db", "err", err)
		os.Exit(1)
	}

	store, err := files.NewStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Error("open upload store", "err", err)
		os.Exit(1)
	}

	client, err := llm.NewDefaultClient(cfg.OllamaConfig)
	if err != nil {
		logger.Error("create llm client", "err", err)
		os.Exit(1)
	}

	repo := sqlite.New(conn, logger)
	engine, err := ai.NewEngine(ctx, client, cfg.EngineConfig, repo, repo, logger)
	if err != nil {
		logger.Error("create study engine", "err", err)
		os.Exit(1)
	}

	jobsRepo := jobs.NewRepository(conn)
	handlers := map[string]jobs.Handler{
		jobs.TypeNotifyFanout: jobs.NotifyFollowersHandler(repo, repo),
		jobs.TypeVerifyUpload: jobs.VerifyUploadHandler(engine, repo),
	}
	pool := jobs.NewWorkerPool(jobsRepo, handlers, logger, cfg.Workers)
	pool.Start(ctx)

	handler := api.SetupRoutes(cfg, version, buildTime, conn, engine, pool, store)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}

	pool.Stop()
	if err := client.Close(); err != nil {
		logger.Warn("close llm client", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Warn("close db", "err", err)
	}

	logger.Info("server exited")
}
