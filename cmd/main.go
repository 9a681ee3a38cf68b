package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/config"
	"github.com/Arghadee4102H/ASEarnHub/internal/database"
	"github.com/Arghadee4102H/ASEarnHub/internal/handlers"
	"github.com/Arghadee4102H/ASEarnHub/internal/hints"
	"github.com/Arghadee4102H/ASEarnHub/internal/jobs"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/membership"
	"github.com/Arghadee4102H/ASEarnHub/internal/notify"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.App.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Telegram bot is used for membership checks and operator notifications
	bot, err := telego.NewBot(cfg.Telegram.BotToken, telego.WithDefaultLogger(false, true))
	if err != nil {
		logger.Log.Fatal("Failed to initialize telegram bot", zap.Error(err))
	}

	var verifier membership.Verifier = membership.StubVerifier{}
	if cfg.Telegram.VerifyMembership {
		verifier = membership.NewBotVerifier(bot)
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Telegram.WithdrawChannelID != 0 {
		notifier = notify.NewTelegramNotifier(bot, cfg.Telegram.WithdrawChannelID)
	}

	// Optional redis hint cache; a nil cache disables it
	var hintCache *hints.Cache
	if addr := cfg.RedisAddr(); addr != "" {
		hintCache, err = hints.Connect(addr, cfg.Redis.Password)
		if err != nil {
			logger.Log.Warn("Hint cache disabled", zap.Error(err))
			hintCache = nil
		}
	}

	// Initialize services
	ledgerService := services.NewLedgerService(database.GetDB())
	userService := services.NewUserService(database.GetDB())
	referralService := services.NewReferralService(database.GetDB(), ledgerService, services.MilestonePolicy{
		RequireBoth: cfg.App.MilestoneRequireBoth,
	})
	withdrawalService := services.NewWithdrawalService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.Telegram.BotToken)
	taskHandler := handlers.NewTaskHandler(ledgerService, referralService, verifier, hintCache, cfg.App.ChannelRefs)
	checkinHandler := handlers.NewCheckinHandler(ledgerService, referralService)
	referralHandler := handlers.NewReferralHandler(userService, referralService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, notifier)

	// Start balance audit job
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	auditInterval, err := time.ParseDuration(cfg.App.AuditInterval)
	if err != nil {
		logger.Log.Warn("Invalid AUDIT_INTERVAL, using 1h", zap.String("value", cfg.App.AuditInterval))
		auditInterval = time.Hour
	}
	jobs.NewAuditJob(database.GetDB()).Start(jobCtx, auditInterval)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"https://asearnhub.vercel.app", // Production mini app
		"http://localhost:3000",        // Local development
		"http://localhost:5173",        // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/webapp", authHandler.WebAppLogin)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Task endpoints
		api.GET("/tasks", taskHandler.GetTasks)
		api.GET("/tasks/ad/status", taskHandler.GetAdStatus)
		api.POST("/tasks/ad/complete", taskHandler.CompleteAd)
		api.POST("/tasks/channel/complete", taskHandler.CompleteChannelJoin)

		// Daily check-in endpoints
		api.GET("/checkin", checkinHandler.GetStatus)
		api.POST("/checkin", checkinHandler.Claim)

		// Referral endpoints
		api.GET("/referral/code", referralHandler.GetReferralCode)
		api.POST("/referral/apply", referralHandler.ApplyReferralCode)
		api.GET("/referrals", referralHandler.GetReferrals)

		// Withdrawal endpoints
		api.GET("/withdrawals", withdrawalHandler.GetWithdrawals)
		api.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Server.Port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	stopJobs()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
