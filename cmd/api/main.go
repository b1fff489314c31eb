package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/config"
	"skillbridge/internal/database"
	apphttp "skillbridge/internal/http"
	"skillbridge/internal/http/handlers"
	"skillbridge/internal/http/metrics"
	httpmw "skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
	"skillbridge/internal/integration/assistant"
	"skillbridge/internal/livequery"
	"skillbridge/internal/observability"
	"skillbridge/internal/repository/postgres"
	"skillbridge/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	redisClient := database.NewRedis(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	accountRepo := postgres.NewAccountRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	chatRepo := postgres.NewChatRepository(db)

	var notifier livequery.Notifier
	var limiter httpmw.Limiter
	if redisClient != nil {
		notifier = livequery.NewRedisNotifier(redisClient, logger)
		limiter = httpmw.NewRedisLimiter(redisClient)
	} else {
		notifier = livequery.NewMemoryNotifier()
		limiter = httpmw.NewRateLimiter()
	}
	streams := livequery.NewManager(notifier)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	assistantClient := assistant.NewClient(cfg.AssistantAPIURL, cfg.AssistantAPIKey, &http.Client{Timeout: 30 * time.Second})

	profileService := app.NewProfileService(profileRepo, logger)
	authService := app.NewAuthService(accountRepo, refreshRepo, resetRepo, profileService, jwtProvider, logger, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL)
	taskService := app.NewTaskService(taskRepo, notifier)
	applicationService := app.NewApplicationService(applicationRepo, taskRepo, profileService, notifier)
	chatService := app.NewChatService(chatRepo, profileService, notifier)
	assistantService := app.NewAssistantService(assistantClient, logger)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	authHandler := handlers.NewAuthHandler(authService, limiter)
	profileHandler := handlers.NewProfileHandler(profileService)
	taskHandler := handlers.NewTaskHandler(taskService, streams, collector)
	applicationHandler := handlers.NewApplicationHandler(applicationService, streams, collector, limiter)
	chatHandler := handlers.NewChatHandler(chatService, streams, collector, limiter)
	assistantHandler := handlers.NewAssistantHandler(assistantService, limiter)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        authHandler,
		ProfileHandler:     profileHandler,
		TaskHandler:        taskHandler,
		ApplicationHandler: applicationHandler,
		ChatHandler:        chatHandler,
		AssistantHandler:   assistantHandler,
		AuthMiddleware:     middleware,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
