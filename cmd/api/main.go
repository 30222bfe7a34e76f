// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexracing/waypoint-backend/internal/api/handlers"
	"github.com/apexracing/waypoint-backend/internal/api/middleware"
	"github.com/apexracing/waypoint-backend/internal/config"
	"github.com/apexracing/waypoint-backend/internal/cron"
	"github.com/apexracing/waypoint-backend/internal/db"
	"github.com/apexracing/waypoint-backend/internal/email"
	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/seed"
	"github.com/apexracing/waypoint-backend/internal/service"
	"github.com/apexracing/waypoint-backend/internal/socket"
	"github.com/apexracing/waypoint-backend/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	database, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	defer database.Close()
	pgPool := database.Pool

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pgPool)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			User:         cfg.SMTPUser,
			Password:     cfg.SMTPPassword,
			From:         cfg.SMTPFrom,
			FromName:     cfg.SMTPFromName,
			UseTLS:       cfg.SMTPUseTLS,
			AdvisorEmail: cfg.AdvisorEmail,
		})
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize Receipt Storage
	// ============================================
	receiptStore, err := storage.NewDiskReceiptStore(cfg.ReceiptDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize receipt storage: %v", err)
	}
	log.Printf("🧾 Receipt storage initialized at %s", cfg.ReceiptDir)

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)

	// WebSocket handler with JWT secret for self-authentication
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		log.Println("🌱 Seeding development data...")
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize Notification Service
	// ============================================
	notificationSvc := notification.NewService(repos.NotificationRepo)
	notificationSvc.SetUserRepo(repos.UserRepo)
	notificationSvc.SetBroadcaster(broadcaster)

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:       cfg,
		Repos:        repos,
		NotifSvc:     notificationSvc,
		EmailSvc:     emailSvc,
		ReceiptStore: receiptStore,
		Cache:        redisDB,
		Broadcaster:  broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(
		notificationSvc,
		emailSvc,
		repos.WorkPackageRepo,
		repos.UserRepo,
		repos.NotificationRepo,
	)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
			"email":      getEmailStatus(emailSvc),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth, services.User))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("", h.User.List)
				users.GET("/me", h.User.GetCurrentUser)
				users.PUT("/me", h.User.UpdateCurrentUser)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id/role", h.User.UpdateRole)
			}

			// Team routes
			teams := protected.Group("/teams")
			{
				teams.GET("", h.Team.List)
				teams.GET("/:id", h.Team.Get)
				teams.PUT("/:id/members", h.Team.SetMembers)
				teams.PUT("/:id/head", h.Team.SetHead)
				teams.PUT("/:id/description", h.Team.EditDescription)
			}

			// Project routes
			projects := protected.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.GET("/favorites", h.Project.ListFavorites)
				projects.POST("", h.Project.Create)
				projects.GET("/:wbsNum", h.Project.Get)
				projects.PUT("/:wbsNum", h.Project.Edit)
				projects.PUT("/:wbsNum/team", h.Project.SetTeam)
				projects.DELETE("/:wbsNum", h.Project.Delete)
				projects.POST("/:wbsNum/favorite", h.Project.ToggleFavorite)
			}

			// Work package routes
			workPackages := protected.Group("/work-packages")
			{
				workPackages.POST("", h.WorkPackage.Create)
				workPackages.GET("/:wbsNum", h.WorkPackage.Get)
				workPackages.PUT("/:wbsNum", h.WorkPackage.Edit)
				workPackages.DELETE("/:wbsNum", h.WorkPackage.Delete)
				workPackages.POST("/:wbsNum/complete", h.WorkPackage.MarkComplete)
			}

			// Description bullet routes
			bullets := protected.Group("/description-bullets")
			{
				bullets.POST("/:bulletId/check", h.WorkPackage.CheckDescriptionBullet)
			}

			// Risk routes
			risks := protected.Group("/risks")
			{
				risks.GET("/project/:projectId", h.Risk.ListForProject)
				risks.POST("", h.Risk.Create)
				risks.PUT("/:id", h.Risk.Edit)
				risks.DELETE("/:id", h.Risk.Delete)
			}

			// Reimbursement routes
			reimbursements := protected.Group("/reimbursement-requests")
			{
				reimbursements.POST("", h.Reimbursement.Create)
				reimbursements.GET("", h.Reimbursement.List)
				reimbursements.GET("/mine", h.Reimbursement.ListOwn)
				reimbursements.GET("/pending-advisor", h.Reimbursement.ListPendingAdvisor)
				reimbursements.POST("/send-advisor-list", h.Reimbursement.SendPendingAdvisorList)
				reimbursements.GET("/:id", h.Reimbursement.Get)
				reimbursements.PUT("/:id", h.Reimbursement.Edit)
				reimbursements.DELETE("/:id", h.Reimbursement.Delete)
				reimbursements.PUT("/:id/sabo-number", h.Reimbursement.SetSaboNumber)
				reimbursements.POST("/:id/approve", h.Reimbursement.Approve)
				reimbursements.POST("/:id/deliver", h.Reimbursement.MarkDelivered)
				reimbursements.POST("/:id/receipts", h.Reimbursement.UploadReceipt)
				reimbursements.GET("/receipts/:fileId", h.Reimbursement.DownloadReceipt)
			}

			// Vendor routes
			vendors := protected.Group("/vendors")
			{
				vendors.GET("", h.Reimbursement.ListVendors)
				vendors.POST("", h.Reimbursement.CreateVendor)
			}

			// Expense type routes
			expenseTypes := protected.Group("/expense-types")
			{
				expenseTypes.GET("", h.Reimbursement.ListExpenseTypes)
				expenseTypes.POST("", h.Reimbursement.CreateExpenseType)
				expenseTypes.PUT("/:id", h.Reimbursement.EditExpenseType)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/count", h.Notification.Count)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
				notifications.DELETE("", h.Notification.DeleteAll)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc != nil {
		return "configured"
	}
	return "disabled"
}
