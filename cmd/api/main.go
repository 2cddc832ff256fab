package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/servly/servly-api/internal/config"
	"github.com/servly/servly-api/internal/domain/analysis"
	"github.com/servly/servly-api/internal/domain/auth"
	"github.com/servly/servly-api/internal/domain/booking"
	"github.com/servly/servly-api/internal/domain/chat"
	"github.com/servly/servly-api/internal/domain/listing"
	"github.com/servly/servly-api/internal/domain/notification"
	"github.com/servly/servly-api/internal/domain/payment"
	"github.com/servly/servly-api/internal/domain/review"
	"github.com/servly/servly-api/internal/domain/user"
	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/database"
	"github.com/servly/servly-api/internal/pkg/imaging"
	"github.com/servly/servly-api/internal/pkg/jwt"
	"github.com/servly/servly-api/internal/pkg/logger"
	pkgresponse "github.com/servly/servly-api/internal/pkg/response"
	"github.com/servly/servly-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Servly API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// Photo storage: R2 in production, local disk when R2 is not configured.
	var media storage.Storage
	if cfg.R2AccountID != "" {
		media, err = storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
	} else {
		media, err = storage.NewLocalStorage("./uploads", fmt.Sprintf("http://localhost:%s/uploads", cfg.Port))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
		log.Warn().Msg("R2 not configured, storing photos on local disk")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// ---------- WebSocket hub ----------
	chatHub := chat.NewHub(redis)
	go chatHub.Run()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redis)
	listingService := listing.NewService(listingRepo, media, imaging.NewProcessor(imaging.DefaultConfig()))
	notificationService := notification.NewService(notificationRepo, &hubPusher{hub: chatHub})
	bookingService := booking.NewService(bookingRepo,
		&bookingListingSource{listings: listingService},
		&bookingNotifier{notifications: notificationService})
	reviewService := review.NewService(reviewRepo,
		&reviewBookingSource{bookings: bookingRepo},
		&reviewNotifier{notifications: notificationService, listings: listingService})
	chatService := chat.NewService(chatRepo,
		&chatListingSource{listings: listingService},
		chatHub,
		&chatNotifier{notifications: notificationService})
	paymentService := payment.NewService(paymentRepo, &paymentBookingSource{bookings: bookingRepo})
	analysisService := analysis.NewService(db)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	listingHandler := listing.NewHandler(listingService)
	bookingHandler := booking.NewHandler(bookingService)
	reviewHandler := review.NewHandler(reviewService)
	chatHandler := chat.NewHandler(chatService, chatHub, redis, cfg.AllowedOrigins)
	notificationHandler := notification.NewHandler(notificationService)
	paymentHandler := payment.NewHandler(paymentService)
	analysisHandler := analysis.NewHandler(analysisService)

	authMiddleware := middleware.Auth(jwtService)

	// Old notifications are pruned in the background.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go notification.NewCleanupJob(notificationRepo, 0).Start(cleanupCtx, 12*time.Hour)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if cfg.R2AccountID == "" {
		// Serve locally stored photos in development.
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))

		booking.RegisterRoutes(r, bookingHandler, jwtService)
		review.RegisterRoutes(r, reviewHandler, jwtService)
		chat.RegisterRoutes(r, chatHandler, jwtService)
		notification.RegisterRoutes(r, notificationHandler, jwtService)
		payment.RegisterRoutes(r, paymentHandler, jwtService)
		analysis.RegisterRoutes(r, analysisHandler, jwtService)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopCleanup()
	chatHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
