package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"tmc/cv-tailor/internal/config"
	"tmc/cv-tailor/internal/handlers"
	"tmc/cv-tailor/internal/repositories"
	"tmc/cv-tailor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Server.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	log.Info("✅ Config loaded successfully")

	// Initialize repositories
	matchRepo := repositories.NewMatchRepository()
	log.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.TempPath)
	if err := storageService.EnsureTempDir(); err != nil {
		log.Fatalf("❌ Failed to create temp directory: %v", err)
	}

	promptBuilder := services.NewPromptBuilder()
	llmService := services.NewLLMService(cfg.Anthropic, log)
	ocrService := services.NewOCRService(cfg.OCR, log)
	extractorService := services.NewExtractorService(ocrService, log)
	parserService := services.NewParserService(llmService, promptBuilder, log)
	matcherService := services.NewMatcherService(llmService, promptBuilder, log)
	enricherService := services.NewEnricherService(llmService, matcherService, promptBuilder, log)
	mapperService := services.NewMapperService()
	assemblerService := services.NewAssemblerService(cfg.Templates.Path, log)
	analyticsService := services.NewAnalyticsService(cfg.Analytics, log)
	log.Info("✅ Services initialized successfully")

	pipeline := services.NewPipelineService(
		extractorService,
		parserService,
		matcherService,
		enricherService,
		mapperService,
		assemblerService,
		matchRepo,
		analyticsService,
		log,
	)
	log.Info("✅ Pipeline initialized")

	// Initialize janitor
	janitor := services.NewJanitor(matchRepo, storageService, cfg.Janitor, log)
	janitor.Start()

	// Initialize handlers
	matchHandler := handlers.NewMatchHandler(pipeline, storageService, cfg.Storage.MaxFileSize)
	generateHandler := handlers.NewGenerateHandler(pipeline, storageService, cfg.Storage.MaxFileSize)
	resultHandler := handlers.NewResultHandler(matchRepo)
	log.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "CV Tailor API",
		// Generation holds the connection through the model rounds.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 45 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 3,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/match", matchHandler.HandleMatch)
	api.Get("/match/:id", resultHandler.HandleGetMatch)
	api.Post("/generate", generateHandler.HandleGenerate)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Tailor API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/match",
				"GET /api/v1/match/:id",
				"POST /api/v1/generate",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			log.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Infof("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
