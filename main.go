package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk/booking"
	"tourdesk/config"
	"tourdesk/db"
	"tourdesk/middleware"
	"tourdesk/mq"
	"tourdesk/ratelim"
	"tourdesk/rdx"
	"tourdesk/reviews"
	"tourdesk/routes"
	"tourdesk/tours"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ MongoDB: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ MongoDB indexes: %v", err)
	}

	// Redis is optional: without it there is no cache and no events.
	var conn *redis.Client
	if cfg.RedisAddr != "" {
		if conn, err = rdx.Connect(ctx, cfg.RedisAddr); err != nil {
			log.Printf("⚠️ Redis unavailable, continuing without cache and events: %v", err)
			conn = nil
		}
	}
	cache := rdx.NewCache(conn, "tourdesk:")
	events := mq.NewPublisher(conn)

	reviewStore := reviews.NewMongoStore(store.ReviewsCollection)
	tourSvc := tours.NewService(tours.NewMongoStore(store.ToursCollection), reviewStore, cache, events)
	reviewSvc := reviews.NewService(reviewStore, tourSvc, events)
	bookingSvc := booking.NewService(booking.NewMongoStore(store.BookingsCollection), tourSvc, events, cfg.WhatsAppNumber)

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go rateLimiter.Run(ctx, time.Minute)

	router := routes.New(routes.Deps{
		Auth:    middleware.NewAuth(cfg.JwtSecret),
		Limiter: rateLimiter,
		Tours:   tours.NewHandler(tourSvc),
		Reviews: reviews.NewHandler(reviewSvc),
		Booking: booking.NewHandler(bookingSvc),
	})

	// apply middleware: logging → security headers → CORS → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Logging(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		cancel()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Printf("Redis close: %v", err)
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
