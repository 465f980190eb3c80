package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/calmora/calmora-api/internal/config"
	"github.com/calmora/calmora-api/internal/domain/auth"
	"github.com/calmora/calmora-api/internal/domain/booking"
	"github.com/calmora/calmora-api/internal/domain/dashboard"
	"github.com/calmora/calmora-api/internal/domain/notify"
	"github.com/calmora/calmora-api/internal/domain/therapist"
	"github.com/calmora/calmora-api/internal/domain/user"
	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/nav"
	"github.com/calmora/calmora-api/internal/pkg/database"
	"github.com/calmora/calmora-api/internal/pkg/imaging"
	"github.com/calmora/calmora-api/internal/pkg/jwt"
	"github.com/calmora/calmora-api/internal/pkg/logger"
	"github.com/calmora/calmora-api/internal/pkg/response"
	"github.com/calmora/calmora-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Development: cfg.IsDevelopment()}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Calmora API")

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

	avatarStorage, err := storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object storage client")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	therapistRepo := therapist.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notify.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redis)
	therapistService := therapist.NewService(therapistRepo, userRepo, avatarStorage, imaging.NewProcessor(imaging.DefaultConfig()))
	bookingService := booking.NewService(bookingRepo, therapistRepo, hub)
	dashboardService := dashboard.NewService(dashboardRepo, therapistRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	therapistHandler := therapist.NewHandler(therapistService, cfg.AvatarMaxBytes)
	bookingHandler := booking.NewHandler(bookingService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	notifyHandler := notify.NewHandler(hub, jwtService, cfg.AllowedOrigins)
	navHandler := nav.NewHandler(nav.New())

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", notifyHandler.WebSocket)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware, optionalAuth))
		r.Mount("/nav", navHandler.Routes(optionalAuth))
		r.Mount("/therapists", therapist.Routes(therapistHandler, authMiddleware))
		r.Mount("/bookings", booking.Routes(bookingHandler, authMiddleware))
		r.Mount("/dashboard", dashboard.Routes(dashboardHandler, authMiddleware))
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
