package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/KillMonga130/AI-agent-aws/internal/alert"
	"github.com/KillMonga130/AI-agent-aws/internal/api/handlers"
	"github.com/KillMonga130/AI-agent-aws/internal/audit"
	"github.com/KillMonga130/AI-agent-aws/internal/ingest"
	"github.com/KillMonga130/AI-agent-aws/internal/llm"
	"github.com/KillMonga130/AI-agent-aws/internal/marine"
	"github.com/KillMonga130/AI-agent-aws/internal/metrics"
	"github.com/KillMonga130/AI-agent-aws/internal/middleware/ratelimit"
	"github.com/KillMonga130/AI-agent-aws/internal/middleware/security"
	"github.com/KillMonga130/AI-agent-aws/internal/middleware/validation"
	"github.com/KillMonga130/AI-agent-aws/internal/pipeline"
	"github.com/KillMonga130/AI-agent-aws/internal/risk"
	"github.com/KillMonga130/AI-agent-aws/internal/storage/sqlite"
	"github.com/KillMonga130/AI-agent-aws/pkg/config"
	appLogger "github.com/KillMonga130/AI-agent-aws/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Maritime Safety Agent API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// The audit trail is best effort by design, so a missing Redis
	// only degrades auditing, never the service.
	var auditStore *audit.Store
	if cfg.Audit.Enabled {
		auditStore, err = audit.NewStore(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Audit.KeyPrefix,
		)
		if err != nil {
			appLogger.Warn("Audit store unavailable, continuing without it", zap.Error(err))
			auditStore = nil
		} else {
			defer auditStore.Close()
		}
	}

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.TimeoutSec)

	clock := clockwork.NewRealClock()

	weatherClient := ingest.NewOpenMeteoClient(cfg.Ingest.OpenMeteoURL, cfg.Ingest.ForecastDays, cfg.Ingest.TimeoutSec, clock)
	oceanClient := ingest.NewCopernicusClient(cfg.Ingest.CopernicusUsername, cfg.Ingest.CopernicusPassword, clock)

	var ingestAudit ingest.AuditStore
	var analysisAudit risk.AuditStore
	if auditStore != nil {
		ingestAudit = auditStore
		analysisAudit = auditStore
	}

	ingestor := ingest.NewIngestor(weatherClient, oceanClient, ingestAudit, clock)
	analyzer := risk.NewAnalyzer(llmClient, analysisAudit, clock)
	composer := alert.NewComposer(cfg.Pipeline.ValidityHours, clock)

	orchestrator := pipeline.NewOrchestrator(llmClient, ingestor, analyzer, composer, sqliteClient, pipeline.Options{
		DefaultLocation: marine.Location{
			Latitude:  cfg.Pipeline.DefaultLatitude,
			Longitude: cfg.Pipeline.DefaultLongitude,
			Name:      cfg.Pipeline.DefaultLocationName + " (default)",
		},
		SessionTTL: time.Duration(cfg.Pipeline.SessionTTLMinutes) * time.Minute,
		Clock:      clock,
	})
	defer orchestrator.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	queryHandler := handlers.NewQueryHandler(orchestrator, sqliteClient)
	infoHandler := handlers.NewInfoHandler(orchestrator, cfg.LLM.Model)
	wsHandler := handlers.NewWebSocketHandler(orchestrator)

	api := app.Group("/api/v1")

	api.Post("/query", queryHandler.HandleQuery)
	api.Post("/query/location", queryHandler.HandleQueryWithLocation)
	api.Get("/query/history", queryHandler.GetQueryHistory)
	api.Get("/info", infoHandler.GetInfo)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if err := sqliteClient.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
