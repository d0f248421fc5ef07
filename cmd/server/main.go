package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NexHire-2025/interview-service/internal/assessment"
	"github.com/NexHire-2025/interview-service/internal/cache"
	"github.com/NexHire-2025/interview-service/internal/config"
	"github.com/NexHire-2025/interview-service/internal/handlers"
	"github.com/NexHire-2025/interview-service/internal/repositories/postgres"
	"github.com/NexHire-2025/interview-service/internal/services"
	"github.com/NexHire-2025/interview-service/internal/utils"
	"github.com/NexHire-2025/interview-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	generator, err := assessment.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	orchestrator := assessment.NewOrchestrator(generator, logger)

	repo := postgres.NewRepository(db)
	locker := cache.NewRedisLocker(redisClient, logger)
	cacheService := cache.NewRedisCache(redisClient)
	validator := utils.NewValidator()

	sessionService := services.NewSessionService(repo, orchestrator, locker, cacheService, publisher, logger, cfg.WarningBudget)
	candidateService := services.NewCandidateService(repo, publisher, logger)
	jobService := services.NewJobService(repo, logger)
	reportService := services.NewReportService(repo, logger)

	router := handlers.SetupRouter(
		handlers.NewInterviewHandler(sessionService, candidateService, validator),
		handlers.NewCompanyHandler(jobService, candidateService, sessionService, validator),
		handlers.NewReportHandler(reportService),
		logger,
		cfg.Environment,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Interview service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
