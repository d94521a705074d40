package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/api"
	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/internal/analytics"
	"github.com/giomambre/cv-job-matching/internal/engine"
	logpkg "github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/tasks"
	"github.com/giomambre/cv-job-matching/internal/version"
)

func main() {
	var (
		help        = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a YAML config file (default: built-in defaults)")
		port        = flag.Int("port", 0, "Port to run the server on (overrides http.port)")
		dataDir     = flag.String("data-dir", "", "Directory holding model versions (overrides artifacts.dir)")
		modelVer    = flag.String("model-version", "", "Model version to serve (overrides artifacts.version)")
	)
	flag.Parse()

	if *help {
		fmt.Printf("CV Job Matching - ranks job ads against a résumé with TF-IDF and cosine similarity\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                  # Serve ./model_data/v1 on port 8080\n", os.Args[0])
		fmt.Printf("  %s --config config/local.yaml       # Use a config file\n", os.Args[0])
		fmt.Printf("  %s --model-version v2 --port 9000   # Serve another version\n", os.Args[0])
		return
	}
	if *showVersion {
		fmt.Printf("cv-job-matching %s\n", version.String())
		return
	}

	_ = godotenv.Load()
	env := config.GetEnv()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if *dataDir != "" {
		cfg.Artifacts.Dir = *dataDir
	}
	if *modelVer != "" {
		cfg.Artifacts.Version = *modelVer
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cv-job-matching server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("artifacts_dir", cfg.Artifacts.Dir),
		zap.String("model_version", cfg.Artifacts.Version),
		zap.String("ranker", cfg.Matching.Ranker),
	)

	engineOpts := engine.Options{Ranker: cfg.Matching.Ranker, Logger: logger}
	matcher, err := engine.Load(cfg.Artifacts.Dir, cfg.Artifacts.Version, engineOpts)
	if err != nil {
		logger.Fatal("Failed to load model artifacts", zap.Error(err))
	}
	active := engine.NewActive(matcher)

	analyticsService := analytics.NewService(active, analytics.Options{
		DataFile: cfg.Analytics.DataFile,
		Logger:   logger,
	})

	opts := api.Options{
		DefaultK:       cfg.Matching.DefaultK,
		MaxK:           cfg.Matching.MaxK,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Analytics:      analyticsService,
		Logger:         logger,
	}

	var taskManager *tasks.Manager
	if cfg.Tasks.Enabled {
		taskManager = tasks.NewManager(cfg.Tasks.Workers, logger)
		taskManager.Start()
		opts.Tasks = &api.TaskDeps{
			Manager:   taskManager,
			Reloader:  engine.NewReloader(active, cfg.Artifacts.Dir, cfg.Model, engineOpts),
			CorpusDir: cfg.Tasks.CorpusDir,
		}
		logger.Info("Background tasks enabled",
			zap.Int("workers", cfg.Tasks.Workers),
			zap.String("corpus_dir", cfg.Tasks.CorpusDir),
		)
	}

	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(active, opts)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if taskManager != nil {
		taskManager.Stop()
	}
	if err := analyticsService.Save(); err != nil {
		logger.Error("Failed to save analytics", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
