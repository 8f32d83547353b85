package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"wiki-quiz/internal/adapter"
	quizgenadapter "wiki-quiz/internal/adapter/quizgen"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/extractor"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/quizgen"
	"wiki-quiz/internal/repository"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database and run migrations
	db, err := database.NewSQLXSQLiteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db.DB); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repository
	quizRepository := repository.NewQuizDatabaseAdapter(db)

	// Initialize quiz generator
	var generator domain.QuizGenerator
	switch cfg.LLM.Source {
	case "gemini":
		appLogger.Info("Initializing Gemini quiz generator", zap.String("model", cfg.LLM.Gemini.Model))
		generator, err = quizgenadapter.NewGeminiQuizGenerator(context.Background(), cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model)
		if err != nil {
			appLogger.Fatal("Failed to create Gemini quiz generator", zap.Error(err))
		}
	case "ollama":
		appLogger.Info("Initializing Ollama quiz generator",
			zap.String("server_url", cfg.LLM.Ollama.ServerURL),
			zap.String("model", cfg.LLM.Ollama.Model))
		generator, err = quizgenadapter.NewOllamaQuizGenerator(cfg.LLM.Ollama.ServerURL, cfg.LLM.Ollama.Model)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama quiz generator", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported LLM source: %s. Please check LLM_SOURCE in config.", cfg.LLM.Source))
	}

	// Initialize Redis record cache. The cache is optional; without it every
	// lookup goes to the database.
	var recordCache service.RecordCacheService
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		recordCache = service.NewRecordCacheService(cacheAdapter, cfg.Redis.RecordCacheTTL)
		appLogger.Info("RecordCacheService initialized")
	} else {
		appLogger.Warn("Redis address not configured, record cache disabled")
	}

	// Initialize services
	articleExtractor := extractor.NewWikipediaExtractor(nil)
	synthesizer := quizgen.NewSynthesizer(generator)
	quizService := service.NewQuizService(quizRepository, articleExtractor, synthesizer, recordCache, cfg.LLM.Timeout)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// Routes
	app.Get("/", quizHandler.Health)

	apiGroup := app.Group("/api")
	apiGroup.Post("/quizzes", quizHandler.GenerateQuiz)
	apiGroup.Get("/quizzes", quizHandler.GetQuizHistory)
	apiGroup.Get("/quizzes/:id", quizHandler.GetQuizByID)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
