package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alimomennasab/hate-speech-agent/internal/adapter/client"
	"github.com/alimomennasab/hate-speech-agent/internal/adapter/http/router"
	"github.com/alimomennasab/hate-speech-agent/internal/adapter/repository/postgres"
	"github.com/alimomennasab/hate-speech-agent/internal/adapter/repository/redisstore"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/repository"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/cache"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/config"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/database"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/logger"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/metrics"
	"github.com/alimomennasab/hate-speech-agent/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Starts the HTTP API. Submission history in PostgreSQL and the recent-results\n" +
		"feed in Redis are enabled through CHECKER_DATABASE_ENABLED and CHECKER_REDIS_ENABLED.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	var (
		db             *gorm.DB
		submissionRepo repository.SubmissionRepository
	)
	if cfg.Database.Enabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Connected to database")

		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to run migrations", zap.Error(err))
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed")
		submissionRepo = postgres.NewSubmissionRepository(db)
	}

	var (
		redisClient *redis.Client
		recentRepo  repository.RecentRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			// The recent feed falls back to the database.
			log.Warn("Failed to connect to Redis, continuing without recent feed", zap.Error(err))
			redisClient = nil
		} else {
			log.Info("Connected to Redis")
			recentRepo = redisstore.NewRecentRepository(redisClient, cfg.Redis.RecentLimit, log)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	classifier := client.NewModerationClassifier(client.NewModerationClient(cfg.Service.BaseURL, 0))
	controller := usecase.NewController(classifier, log,
		usecase.WithDeadline(cfg.Service.Deadline),
		usecase.WithMetrics(m),
	)
	checkUC := usecase.NewCheckUsecase(controller, submissionRepo, recentRepo, m, log)

	r := router.Setup(router.Deps{
		DB:            db,
		Redis:         redisClient,
		CheckUC:       checkUC,
		HealthChecker: classifier,
		Gatherer:      reg,
		Logger:        log,
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// A synchronous check may hold the connection for the full deadline.
		WriteTimeout: cfg.Service.Deadline + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server",
			zap.String("address", addr),
			zap.String("moderation_service", cfg.Service.BaseURL),
			zap.Duration("deadline", cfg.Service.Deadline),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		log.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Async submissions settle on a detached context and write to the stores below.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Service.Deadline+10*time.Second)
	defer drainCancel()
	if err := checkUC.Wait(drainCtx); err != nil {
		log.Warn("Async submissions still pending at shutdown", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
