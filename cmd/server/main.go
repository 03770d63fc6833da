package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"feedback-backend/internal/auth"
	"feedback-backend/internal/authz"
	"feedback-backend/internal/config"
	"feedback-backend/internal/database"
	"feedback-backend/internal/handlers"
	"feedback-backend/internal/mailer"
	customMiddleware "feedback-backend/internal/middleware"
	"feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}
	if err := notificationRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create notification indexes: %v", err)
	}

	// Initialize mailer (mock unless Resend is configured)
	var m mailer.Mailer
	if cfg.ResendAPIKey != "" {
		m = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail)
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, using mock mailer")
		m = mailer.NewMockMailer()
	}

	// Initialize auth + services
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	authzService := authz.New(userRepo)

	userHandler := handlers.NewUserHandler(userRepo, authzService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, userRepo, notificationRepo, authzService, m)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, authzService)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root + health
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Welcome to the Feedback System API"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"feedback-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/api/register", userHandler.Register)
	r.Get("/api/managers", userHandler.ListManagers)

	// Protected routes (bearer token required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.RequireAuth(verifier))

		r.Get("/profile", userHandler.GetProfile)
		r.Get("/api/user/{uid}", userHandler.GetUser)
		r.Get("/employees", userHandler.ListEmployees)

		r.Post("/feedback", feedbackHandler.Submit)
		r.Get("/feedbacks", feedbackHandler.ListReceived)
		r.Get("/api/feedbacks/from/{uid}", feedbackHandler.ListAuthoredBy)
		r.Put("/feedback/{id}", feedbackHandler.Update)
		r.Put("/feedback/{id}/acknowledge", feedbackHandler.Acknowledge)
		r.Post("/feedback/{id}/comment", feedbackHandler.Comment)
		r.Post("/feedback/request", feedbackHandler.RequestFeedback)

		r.Get("/notifications", notificationHandler.List)
		r.Put("/notifications/mark-read", notificationHandler.MarkAllRead)
	})

	// Start server
	log.Printf("🚀 Feedback backend starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
