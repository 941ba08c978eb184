package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/luissince/architect-portfolio-sub000/internal/cart"
	"github.com/luissince/architect-portfolio-sub000/internal/checkout"
	h "github.com/luissince/architect-portfolio-sub000/internal/http"
	"github.com/luissince/architect-portfolio-sub000/internal/ledger"
	"github.com/luissince/architect-portfolio-sub000/internal/pricing"
	"github.com/luissince/architect-portfolio-sub000/internal/session"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	RedisPassword   string
	LedgerBackend   string // "redis" or "postgres"
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	CurrencyCode    string
	CurrencyLocale  string
	CheckoutDelay   time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		LedgerBackend:   getEnv("LEDGER_BACKEND", "redis"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "storefront"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "./migrations"),
		CurrencyCode:    getEnv("CURRENCY_CODE", "USD"),
		CurrencyLocale:  getEnv("CURRENCY_LOCALE", "en-US"),
		CheckoutDelay:   getEnvDuration("CHECKOUT_DELAY", 800*time.Millisecond),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// defaultProfile keys the cart: one cart per profile, independent of
// who is logged in.
const defaultProfile = "local"

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	store := storage.NewRedisStore(redisClient)

	var led ledger.Ledger
	switch cfg.LedgerBackend {
	case "postgres":
		cred := &ledger.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsDir,
		}
		pgLedger, err := ledger.NewPostgresLedger(cred)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pgLedger.Close()
		if err := pgLedger.RunMigrations(cred); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("Order ledger backed by postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)
		led = pgLedger
	default:
		led = ledger.NewKVLedger(store)
		log.Printf("Order ledger backed by redis")
	}

	formatter, err := pricing.NewCurrencyFormatter(cfg.CurrencyCode, cfg.CurrencyLocale)
	if err != nil {
		log.Fatalf("Invalid currency configuration: %v", err)
	}

	sessions := session.NewService(store, led)
	sessions.Hydrate(ctx)
	log.Printf("Session resolved: %s", sessions.State())

	carts := cart.NewService(ctx, store, defaultProfile)
	checkouts := checkout.NewService(carts, led, store, sessions,
		checkout.WithDelay(cfg.CheckoutDelay))

	cartHandler := h.NewCartHandler(carts, formatter)
	ordersHandler := h.NewOrdersHandler(led, sessions, formatter)
	checkoutHandler := h.NewCheckoutHandler(checkouts, ordersHandler)
	authHandler := h.NewAuthHandler(sessions)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{line_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{line_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession(sessions))
			r.Post("/checkout", checkoutHandler.PlaceOrder)
			r.Get("/checkout/last-order", checkoutHandler.LastOrder)
			r.Get("/orders", ordersHandler.ListOrders)
			r.Get("/orders/{order_id}", ordersHandler.GetOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront core starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
