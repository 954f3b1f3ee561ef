package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	wishlistapp "github.com/storefront/backend/internal/application/wishlist"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)

	// JWT service and token blacklist. Redis backs the blacklist when
	// configured; the in-memory fallback only suits a single instance.
	jwtService := auth.NewJWTService(cfg.JWT)

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// Product image storage
	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("S3 image storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		imageStorage = storage.NewStubImageStorage()
		log.Warn("Object storage not configured, product image uploads are disabled")
	}

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	if cfg.Email.Enabled {
		mailer, err := notification.NewSESMailer(&cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize SES mailer", zap.Error(err))
		}
		orderEmails := notification.NewOrderEmailHandler(mailer, userRepo, log)
		eventBus.Subscribe(orderEmails, orderEmails.EventTypes()...)
		log.Info("Order email notifications enabled", zap.String("from", cfg.Email.FromAddress))
	} else {
		log.Warn("Email not configured, order notifications are disabled")
	}
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Transaction scope for checkout
	checkoutScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, cfg.Account, log)
	userService := identityapp.NewUserService(userRepo, log)
	addressService := identityapp.NewAddressService(addressRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, imageStorage, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	wishlistService := wishlistapp.NewWishlistService(wishlistRepo, cartRepo, productRepo, log)
	orderService := orderapp.NewOrderService(checkoutScope, orderRepo, addressRepo, cfg.Shipping, eventBus, log)
	couponService := promotionapp.NewCouponService(couponRepo, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	userHandler := handler.NewUserHandler(userService, authService)
	addressHandler := handler.NewAddressHandler(addressService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	cartHandler := handler.NewCartHandler(cartService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	orderHandler := handler.NewOrderHandler(orderService)
	couponHandler := handler.NewCouponHandler(couponService, cartService)

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
	}

	// Health check outside the API group so it bypasses auth
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Route-level auth middleware. Public storefront reads use the
	// optional variant so an admin token widens what the catalog shows.
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	optionalAuth := middleware.OptionalJWTAuthMiddleware(jwtService)
	adminOnly := middleware.AdminOnlyMiddleware()

	// Credential endpoints get their own tighter rate limit
	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimit(authLimiter)
	} else {
		authLimit = func(c *gin.Context) { c.Next() }
	}

	// Identity: registration, sessions, profile, addresses
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authLimit, authHandler.Register)
	authRoutes.POST("/login", authLimit, authHandler.Login)
	authRoutes.POST("/refresh", authLimit, authHandler.RefreshToken)
	authRoutes.POST("/logout", requireAuth, authHandler.Logout)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(requireAuth)
	userRoutes.GET("/me", userHandler.GetProfile)
	userRoutes.PUT("/me", userHandler.UpdateProfile)
	userRoutes.PUT("/me/email", userHandler.ChangeEmail)
	userRoutes.PUT("/me/password", userHandler.ChangePassword)

	addressRoutes := router.NewDomainGroup("addresses", "/addresses")
	addressRoutes.Use(requireAuth)
	addressRoutes.GET("", addressHandler.List)
	addressRoutes.POST("", addressHandler.Create)
	addressRoutes.GET("/:id", addressHandler.Get)
	addressRoutes.PUT("/:id", addressHandler.Update)
	addressRoutes.POST("/:id/default", addressHandler.SetDefault)
	addressRoutes.DELETE("/:id", addressHandler.Delete)

	// Catalog: public browsing plus review submission
	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/:slug", categoryHandler.GetBySlug)

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.Use(optionalAuth)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.GET("/:id/image", productHandler.GetImage)
	productRoutes.GET("/:id/reviews", reviewHandler.ListByProduct)
	productRoutes.POST("/:id/reviews", requireAuth, reviewHandler.Create)

	reviewRoutes := router.NewDomainGroup("reviews", "/reviews")
	reviewRoutes.Use(requireAuth)
	reviewRoutes.PUT("/:id", reviewHandler.Update)
	reviewRoutes.DELETE("/:id", reviewHandler.Delete)

	// Shopping: cart, wishlist, checkout, orders
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(requireAuth)
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
	cartRoutes.DELETE("", cartHandler.Clear)

	wishlistRoutes := router.NewDomainGroup("wishlist", "/wishlist")
	wishlistRoutes.Use(requireAuth)
	wishlistRoutes.GET("", wishlistHandler.Get)
	wishlistRoutes.POST("/:id", wishlistHandler.Add)
	wishlistRoutes.DELETE("/:id", wishlistHandler.Remove)
	wishlistRoutes.POST("/:id/move-to-cart", wishlistHandler.MoveToCart)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(requireAuth)
	orderRoutes.POST("", orderHandler.Checkout)
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Promotions: coupon validation is open so the cart page can
	// preview a discount before checkout
	couponRoutes := router.NewDomainGroup("coupons", "/coupons")
	couponRoutes.Use(requireAuth)
	couponRoutes.POST("/validate", couponHandler.Validate)

	// Back office
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(requireAuth, adminOnly)
	adminRoutes.GET("/users", userHandler.ListUsers)
	adminRoutes.POST("/users/:id/deactivate", userHandler.DeactivateUser)
	adminRoutes.POST("/users/:id/reactivate", userHandler.ReactivateUser)
	adminRoutes.GET("/categories", categoryHandler.ListAll)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.POST("/categories/:id/activate", categoryHandler.Activate)
	adminRoutes.POST("/categories/:id/deactivate", categoryHandler.Deactivate)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.PUT("/products/:id/stock", productHandler.SetStock)
	adminRoutes.POST("/products/:id/archive", productHandler.Archive)
	adminRoutes.POST("/products/:id/restore", productHandler.Restore)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/products/:id/image", productHandler.RequestImageUpload)
	adminRoutes.POST("/products/:id/image/confirm", productHandler.ConfirmImage)
	adminRoutes.GET("/coupons", couponHandler.List)
	adminRoutes.POST("/coupons", couponHandler.Create)
	adminRoutes.GET("/coupons/:id", couponHandler.Get)
	adminRoutes.PUT("/coupons/:id", couponHandler.Update)
	adminRoutes.POST("/coupons/:id/enable", couponHandler.Enable)
	adminRoutes.POST("/coupons/:id/disable", couponHandler.Disable)
	adminRoutes.DELETE("/coupons/:id", couponHandler.Delete)
	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.POST("/orders/:id/pay", orderHandler.MarkPaid)
	adminRoutes.POST("/orders/:id/ship", orderHandler.MarkShipped)
	adminRoutes.POST("/orders/:id/deliver", orderHandler.MarkDelivered)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(addressRoutes).
		Register(categoryRoutes).
		Register(productRoutes).
		Register(reviewRoutes).
		Register(cartRoutes).
		Register(wishlistRoutes).
		Register(orderRoutes).
		Register(couponRoutes).
		Register(adminRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
