package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmetics-store-backend/internal/api/handlers"
	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/cache"
	"cosmetics-store-backend/internal/config"
	"cosmetics-store-backend/internal/health"
	"cosmetics-store-backend/internal/metrics"
	repository "cosmetics-store-backend/internal/repositories"
	redisrepo "cosmetics-store-backend/internal/repositories/redis"
	service "cosmetics-store-backend/internal/services"
	"cosmetics-store-backend/internal/telemetry"
	"cosmetics-store-backend/pkg/sendgrid"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisRepo, err := redisrepo.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	productCache := cache.NewRedisCache(redisRepo.Client(), &cfg.Cache)
	orderNotifier := service.NewEmailOrderNotifier(sendGridClient, repos.User, cfg.SendGrid.StoreOwnerEmail)

	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	userService := service.NewUserService(repos.User, redisRepo, cartService, jwtKey, cfg.Security.TokenTTL)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, productCache)
	productHandler := handlers.NewProductHandler(productService)
	checkoutService := service.NewCheckoutService(repos.Checkout, repos.Product, cfg.Checkout.TTL)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderService := service.NewOrderService(repos.DB, repos.Order, repos.Cart, repos.Product, repos.Checkout, orderNotifier, productCache)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisRepo.Client(),
	})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Identity(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Identity(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.Identity(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items", authMiddleware.Identity(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/checkouts/instant", authMiddleware.Identity(checkoutHandler.CreateInstantCheckout()))
	routerMux.HandleFunc("GET /api/v1/checkouts/instant/{id}", authMiddleware.Identity(checkoutHandler.GetInstantCheckout()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Identity(orderHandler.PlaceOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/instant", authMiddleware.Identity(orderHandler.PlaceInstantOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Identity(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Identity(orderHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("GET /health", healthHandler.HandlerFunc)
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "http.server")
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
