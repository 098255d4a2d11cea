// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "parlor/docs" // swagger docs
	"parlor/internal/cache"
	"parlor/internal/config"
	"parlor/internal/database"
	"parlor/internal/middleware"
	"parlor/internal/models"
	"parlor/internal/notifications"
	"parlor/internal/repository"
	"parlor/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	ledger         *service.Ledger
	threadRepo     repository.ThreadRepository
	commentRepo    repository.CommentRepository
	voteRepo       repository.VoteRepository
	reactionRepo   repository.ReactionRepository
	pollRepo       repository.PollRepository
	reportRepo     repository.ReportRepository
	chatRepo       repository.ChatRepository
	adminRepo      repository.AdminRepository
	bulletinRepo   repository.BulletinRepository
	hub            *notifications.Hub

	filterService     *service.FilterService
	threadService     *service.ThreadService
	commentService    *service.CommentService
	voteService       *service.VoteService
	reactionService   *service.ReactionService
	pollService       *service.PollService
	reportService     *service.ReportService
	chatService       *service.ChatService
	retentionService  *service.RetentionService
	moderationService *service.ModerationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	// Initialize repositories
	threadRepo := repository.NewThreadRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	pollRepo := repository.NewPollRepository(db)
	reportRepo := repository.NewReportRepository(db)
	chatRepo := repository.NewChatRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	bulletinRepo := repository.NewBulletinRepository(db)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("parlor-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		ledger:         service.NewLedger(),
		threadRepo:     threadRepo,
		commentRepo:    commentRepo,
		voteRepo:       voteRepo,
		reactionRepo:   reactionRepo,
		pollRepo:       pollRepo,
		reportRepo:     reportRepo,
		chatRepo:       chatRepo,
		adminRepo:      adminRepo,
		bulletinRepo:   bulletinRepo,
		hub:            notifications.NewHub(),
	}

	server.filterService = service.NewFilterService(bulletinRepo)
	server.pollService = service.NewPollService(server.ledger, pollRepo, threadRepo)
	server.threadService = service.NewThreadService(
		server.ledger, threadRepo, commentRepo, server.pollService, server.filterService)
	server.commentService = service.NewCommentService(commentRepo, threadRepo, server.filterService)
	server.voteService = service.NewVoteService(server.ledger, voteRepo, threadRepo, commentRepo)
	server.reactionService = service.NewReactionService(server.ledger, reactionRepo, threadRepo, commentRepo)
	server.reportService = service.NewReportService(server.ledger, reportRepo)
	server.chatService = service.NewChatService(chatRepo, server.filterService)
	moderationService, err := service.NewModerationService(
		adminRepo, bulletinRepo, cfg.AdminPassword, cfg.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("moderation service init failed: %w", err)
	}
	server.moderationService = moderationService

	server.retentionService = service.NewRetentionService(
		server.ledger, chatRepo,
		time.Duration(cfg.ChatTTLSeconds)*time.Second,
		time.Duration(cfg.ChatSweepSeconds)*time.Second,
	)
	// After every sweep that removed something, push the refreshed chat window
	// to all connected sockets.
	server.retentionService.OnPrune(func(history []*models.ChatMessage) {
		server.publishEvent(EventHistory, history)
	})

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Parlor Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Thread routes
	threads := api.Group("/threads")
	threads.Get("/", s.GetThreads)
	threads.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchThreads)
	threads.Post("/", middleware.RateLimit(
		s.redis, 2, time.Minute, "create_thread"), s.CreateThread)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	threads.Get("/:id/comments", s.GetComments)
	threads.Post("/:id/comments", middleware.RateLimit(
		s.redis, 6, time.Minute, "create_comment"), s.CreateComment)
	threads.Get("/:id/poll", s.GetThreadPoll)
	threads.Post("/:id/poll", middleware.RateLimit(
		s.redis, 2, time.Minute, "create_poll"), s.CreatePoll)
	threads.Get("/:id", s.GetThread)
	threads.Delete("/:id", s.AdminRequired(), s.DeleteThread)

	api.Delete("/comments/:id", s.AdminRequired(), s.DeleteComment)

	// Aggregation routes
	api.Post("/vote", middleware.RateLimit(
		s.redis, 30, time.Minute, "vote"), s.CastVote)
	api.Post("/react", middleware.RateLimit(
		s.redis, 30, time.Minute, "react"), s.ToggleReaction)
	api.Get("/reactions", s.GetReactions)
	api.Post("/polls/:id/vote", middleware.RateLimit(
		s.redis, 10, time.Minute, "poll_vote"), s.VotePoll)

	// Reports
	api.Post("/report", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "report"), s.CreateReport)

	// Chat
	api.Get("/chat", s.GetChatHistory)
	api.Post("/chat", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_chat"), s.SendChatMessage)

	// Bulletins (public read)
	api.Get("/announcement", s.GetAnnouncement)
	api.Get("/rules", s.GetRules)

	// Websocket endpoint
	api.Get("/ws", s.WebsocketHandler())

	// Admin routes
	api.Post("/admin/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "admin_login"), s.AdminLogin)
	admin := api.Group("/admin", s.AdminRequired())
	admin.Get("/reports", s.GetReports)
	admin.Post("/reports/:id/resolve", s.ResolveReport)
	admin.Delete("/reports/:id", s.DeleteReport)
	admin.Post("/announce", s.SetAnnouncement)
	admin.Post("/rules", s.SetRules)
	admin.Get("/blocklist", s.GetBlocklist)
	admin.Put("/blocklist", s.SetBlocklist)
	admin.Post("/chat/:id/pin", s.PinChatMessage)
	admin.Post("/chat/:id/unpin", s.UnpinChatMessage)
	admin.Get("/audit", s.GetAuditLog)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades gracefully without Redis; report it but stay ready.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Parlor",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects requests without a known
// admin bearer token with 403. Authorization is a pure membership test
// against the issued-token ledger.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		admin, err := s.moderationService.IsAdmin(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		c.Locals("adminToken", token)
		return c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, falling back
// to the password query param used by websocket-adjacent tooling.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Query("token")
}

// adminToken returns the verified token stored by AdminRequired.
func (s *Server) adminToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("adminToken").(string); ok {
		return token
	}
	return ""
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Parlor API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError("request failed", err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Retention sweeps run for the lifetime of the server.
	go s.retentionService.Run(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the retention sweeper
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if err := s.hub.Shutdown(ctx); err != nil {
		log.Printf("error shutting down %s: %v", s.hub.Name(), err)
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
