package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/summarly/api/internal/cache"
	"github.com/summarly/api/internal/client"
	"github.com/summarly/api/internal/config"
	"github.com/summarly/api/internal/handler"
	"github.com/summarly/api/internal/model"
	"github.com/summarly/api/internal/service"
	"github.com/summarly/api/internal/store"
	"github.com/summarly/api/internal/worker"
	"github.com/summarly/api/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize external clients
	summarizer := newSummarizer(cfg)
	scraper := client.NewScraperClient(&cfg.Scraper)

	// Initialize stores
	jobStore := store.NewJobStore(redisClient, time.Duration(cfg.Jobs.Retention)*time.Hour)
	summaryCache := cache.NewSummaryCache(redisClient, time.Duration(cfg.Cache.TTL)*time.Hour)

	// Initialize service and handler
	summaryService := service.NewSummaryService(jobStore, asynqClient, summarizer)
	summarizeHandler := handler.NewSummarizeHandler(summaryService, validate)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"llm":   summarizer.IsConfigured(),
				"redis": redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})

	// API routes
	app.Post("/submit", summarizeHandler.Submit)
	app.Get("/status/:jobId", summarizeHandler.Status)
	app.Get("/result/:jobId", summarizeHandler.Result)
	app.Post("/summarize", summarizeHandler.Summarize)

	// Start Asynq worker server
	go startWorkerServer(cfg, jobStore, summaryCache, scraper, summarizer)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// newSummarizer selects the active provider from configuration.
func newSummarizer(cfg *config.Config) client.Summarizer {
	switch model.Provider(strings.ToLower(cfg.LLM.Provider)) {
	case model.ProviderGroq:
		return client.NewGroqClient(&cfg.Groq)
	default:
		return client.NewOpenAIClient(&cfg.OpenAI)
	}
}

func startWorkerServer(
	cfg *config.Config,
	jobStore *store.JobStore,
	summaryCache *cache.SummaryCache,
	scraper client.Extractor,
	summarizer client.Summarizer,
) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"summaries": 10,
			},
			LogLevel: asynqLogLevel,
		},
	)

	summaryWorker := worker.NewSummaryWorker(jobStore, summaryCache, scraper, summarizer)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeSummary, summaryWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(response.ErrorResponse{
		Error: response.ErrorDetail{
			Code:    response.CodeServiceError,
			Message: message,
		},
	})
}
