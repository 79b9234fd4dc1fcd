package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"sekolahku_echo/internal/handlers"
	appMiddleware "sekolahku_echo/internal/middleware"
	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis backs the summary cache and the rate limiter. Both degrade
	// gracefully when it is absent.
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("REDIS_URL not set, summary caching disabled")
	}

	// Initialize services
	midtransClient := services.NewMidtransService()
	checkoutService := services.NewCheckoutService(db, midtransClient)
	settlementService := services.NewSettlementService(db)
	refundService := services.NewRefundService(db, midtransClient)
	orderService := services.NewOrderService(db)
	reportService := services.NewReportService(db, cache)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.JSONErrorHandler

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	var counters appMiddleware.CounterStore = appMiddleware.NewMemoryCounterStore()
	if cache != nil {
		counters = cache
	}
	e.Use(appMiddleware.RateLimit(counters, 120, time.Minute))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authClient, db)
	schoolHandler := handlers.NewSchoolHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(db, checkoutService, settlementService, orderService)
	orderHandler := handlers.NewOrderHandler(db, orderService, refundService)
	billingHandler := handlers.NewBillingHandler(db, reportService)
	webhookHandler := handlers.NewWebhookHandler(db, midtransClient, settlementService, orderService)
	preferenceHandler := handlers.NewUserPreferenceHandler(db)

	// Public routes
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)
	e.POST("/webhooks/midtrans", webhookHandler.MidtransNotification)

	// Authenticated routes
	protected := e.Group("")
	protected.Use(appMiddleware.RequireAuth(authClient, db))
	protected.GET("/schools", schoolHandler.ListSchools)
	protected.POST("/schools", schoolHandler.CreateSchool)
	protected.GET("/me/preferences", preferenceHandler.GetUserPreference)
	protected.PUT("/me/preferences", preferenceHandler.UpdateUserPreference)

	// School-scoped routes. Staff covers catalog and billing management;
	// any member can browse the catalog and buy from it.
	member := protected.Group("/schools/:schoolId")
	member.Use(appMiddleware.RequireSchool(db))
	member.GET("", schoolHandler.GetSchool)
	member.GET("/prices", schoolHandler.ListPrices)
	member.POST("/checkout", checkoutHandler.Checkout)
	member.POST("/checkout/simulate-pay/:orderId", checkoutHandler.SimulatePay)
	member.GET("/orders", orderHandler.ListOrders)
	member.GET("/orders/:orderId", orderHandler.GetOrder)
	member.POST("/orders/:orderId/cancel", orderHandler.Cancel)

	staff := protected.Group("/schools/:schoolId")
	staff.Use(appMiddleware.RequireSchool(db, models.RoleDirector, models.RoleTeacher))
	staff.GET("/members", schoolHandler.ListMembers)
	staff.POST("/members", schoolHandler.AddMember)
	staff.DELETE("/members/:memberId", schoolHandler.RemoveMember)
	staff.POST("/prices", schoolHandler.CreatePrice)
	staff.PUT("/prices/:priceId", schoolHandler.UpdatePrice)
	staff.POST("/orders/:orderId/refund", orderHandler.Refund)
	staff.GET("/billing/ledger", billingHandler.Ledger)
	staff.GET("/billing/summary", billingHandler.Summary)
	staff.GET("/billing/reconcile", billingHandler.Reconcile)

	director := protected.Group("/schools/:schoolId")
	director.Use(appMiddleware.RequireSchool(db, models.RoleDirector))
	director.GET("/billing/config", billingHandler.GetConfig)
	director.PUT("/billing/config", billingHandler.UpdateConfig)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
