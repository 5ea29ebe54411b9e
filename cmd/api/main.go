package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"benefitsportal/internal/api"
	"benefitsportal/internal/auth"
	"benefitsportal/internal/config"
	"benefitsportal/internal/data"
	"benefitsportal/internal/database"
	"benefitsportal/internal/jobs"
	"benefitsportal/internal/llm"
	"benefitsportal/internal/middleware"
	"benefitsportal/internal/observability"
	"benefitsportal/internal/services"
	"benefitsportal/internal/services/assistant"
	"benefitsportal/internal/storage"

	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	metrics := observability.NewMetrics(cfg.App.Name)
	if !cfg.Metrics.Enabled {
		metrics = nil
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.JSONFormat, metrics)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Fatal("server exited with error", err)
	}
}

func run(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("upload storage failed: %w", err)
	}

	// repositories
	companyRepo := data.NewCompanyRepository(db.DB)
	settingsRepo := data.NewSettingsRepository(db.DB)
	userRepo := data.NewUserRepository(db.DB)
	documentRepo := data.NewDocumentRepository(db.DB)
	surveyRepo := data.NewSurveyRepository(db.DB)
	eventRepo := data.NewEventRepository(db.DB)
	chatRepo := data.NewChatRepository(db.DB)
	notificationRepo := data.NewNotificationRepository(db.DB)

	// assistant
	var completions assistant.CompletionClient = assistant.UnavailableClient{}
	if cfg.LLM.Enabled {
		client, err := llm.New(llm.Config{
			APIKey:           cfg.LLM.APIKey,
			BaseURL:          cfg.LLM.BaseURL,
			Model:            cfg.LLM.Model,
			AppName:          cfg.LLM.AppName,
			TimeoutSeconds:   cfg.LLM.TimeoutSeconds,
			RetryAttempts:    cfg.LLM.RetryAttempts,
			RetryWaitSeconds: cfg.LLM.RetryWaitSeconds,
		})
		if err != nil {
			return fmt.Errorf("completion client failed: %w", err)
		}
		completions = client
	}

	var conversations assistant.ConversationCache
	if redisClient != nil {
		conversations = assistant.NewRedisConversationCache(redisClient, cfg.JWT.ExpiryDuration)
	} else {
		conversations = assistant.NewMemoryConversationCache()
	}
	assistantSvc := assistant.NewService(completions, conversations, logger, metrics)

	// jobs
	var queue jobs.Queue
	if redisClient != nil {
		queue = jobs.NewRedisQueue(redisClient, nil)
	} else {
		queue = jobs.NewMemoryQueue()
	}

	// services
	companySvc := services.NewCompanyService(companyRepo, settingsRepo, logger)
	settingsSvc := services.NewSettingsService(settingsRepo, logger)
	userSvc := services.NewUserService(userRepo, logger)
	documentSvc := services.NewDocumentService(documentRepo, store, queue, assistantSvc, logger, metrics, cfg.Uploads.MaxFileSize)
	surveySvc := services.NewSurveyService(surveyRepo, assistantSvc, logger, metrics, cfg.Survey.AllowMultipleResponses)
	eventSvc := services.NewEventService(eventRepo, logger)
	chatSvc := services.NewChatService(chatRepo, companyRepo, settingsRepo, documentSvc, assistantSvc, logger)
	notificationSvc := services.NewNotificationService(notificationRepo, logger)
	websiteSvc := services.NewWebsiteService(settingsSvc, documentSvc, assistantSvc, logger)

	var worker *jobs.Worker
	if cfg.Jobs.Enabled {
		worker = jobs.NewWorker(queue, &jobs.WorkerConfig{
			ConcurrentWorkers: cfg.Jobs.Workers,
			PollInterval:      time.Duration(cfg.Jobs.PollIntervalSeconds) * time.Second,
		}, logger, metrics)
		if err := worker.Register(jobs.JobTypeDocumentExtract, documentSvc.ExtractHandler()); err != nil {
			return err
		}
		if err := worker.Start(ctx); err != nil {
			return err
		}
		defer worker.Stop()
	}

	// middleware and handlers
	authSvc := auth.NewService(userRepo, &cfg.JWT)
	authMW := middleware.NewAuthMiddleware(authSvc, cfg.JWT.CookieName)
	scopeMW := middleware.NewScopeMiddleware(companyRepo)
	sanitizer := middleware.NewSanitizer()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		defer rateLimiter.Close()
	}

	router := api.NewRouter(cfg, logger, authMW, scopeMW, rateLimiter, &api.Handlers{
		Auth:          api.NewAuthHandlers(authSvc, userRepo, companyRepo, sanitizer, &cfg.JWT),
		Companies:     api.NewCompanyHandlers(companySvc),
		Settings:      api.NewSettingsHandlers(settingsSvc),
		Users:         api.NewUserHandlers(userSvc, userRepo),
		Documents:     api.NewDocumentHandlers(documentSvc, sanitizer),
		Surveys:       api.NewSurveyHandlers(surveySvc, documentSvc, sanitizer),
		Events:        api.NewEventHandlers(eventSvc),
		Chat:          api.NewChatHandlers(chatSvc, sanitizer),
		Notifications: api.NewNotificationHandlers(notificationSvc, sanitizer),
		Website:       api.NewWebsiteHandlers(websiteSvc, documentSvc, assistantSvc),
		Images:        api.NewImageHandlers(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
