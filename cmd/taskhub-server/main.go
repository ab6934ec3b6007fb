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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/taskhub/taskhub-backend/internal/auth/handler"
	authjwt "github.com/taskhub/taskhub-backend/internal/auth/jwt"
	authrepo "github.com/taskhub/taskhub-backend/internal/auth/repository"
	authservice "github.com/taskhub/taskhub-backend/internal/auth/service"
	importevents "github.com/taskhub/taskhub-backend/internal/docimport/events"
	"github.com/taskhub/taskhub-backend/internal/docimport/extract"
	importhandler "github.com/taskhub/taskhub-backend/internal/docimport/handler"
	importrepo "github.com/taskhub/taskhub-backend/internal/docimport/repository"
	importservice "github.com/taskhub/taskhub-backend/internal/docimport/service"
	"github.com/taskhub/taskhub-backend/internal/docimport/storage"
	taskevents "github.com/taskhub/taskhub-backend/internal/task/events"
	taskhandler "github.com/taskhub/taskhub-backend/internal/task/handler"
	taskrepo "github.com/taskhub/taskhub-backend/internal/task/repository"
	taskservice "github.com/taskhub/taskhub-backend/internal/task/service"
	userevents "github.com/taskhub/taskhub-backend/internal/user/events"
	userhandler "github.com/taskhub/taskhub-backend/internal/user/handler"
	userrepo "github.com/taskhub/taskhub-backend/internal/user/repository"
	userservice "github.com/taskhub/taskhub-backend/internal/user/service"
	"github.com/taskhub/taskhub-backend/pkg/config"
	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/httputil"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("taskhub-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("taskhub-server", cfg.Server.Environment)
	log.Info().Msg("starting TaskHub server")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publishers
	userPublisher, err := userevents.NewUserEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create user event publisher")
	}
	taskPublisher, err := taskevents.NewTaskEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create task event publisher")
	}
	importPublisher, err := importevents.NewImportEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create import event publisher")
	}

	// Initialize uploads storage
	fileStore, err := storage.NewFileStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize uploads storage")
	}

	// Initialize repositories
	users := userrepo.NewUserRepository(db)
	sessions := authrepo.NewSessionRepository(db)
	tasks := taskrepo.NewTaskRepository(db)
	records := importrepo.NewRecordRepository(db)

	// Initialize services
	jwtManager := authjwt.NewManager(&cfg.JWT)
	resolver := extract.NewResolver(extract.NewExecRunner(log), &cfg.Extraction, log)

	authService := authservice.NewAuthService(users, sessions, jwtManager, userPublisher, log)
	userService := userservice.NewUserService(users, userPublisher, log)
	taskService := taskservice.NewTaskService(tasks, users, taskPublisher, log)
	importService := importservice.NewImportService(fileStore, resolver, records, importPublisher, log)

	// Initialize handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	userHandler := userhandler.NewUserHandler(userService, log)
	taskHandler := taskhandler.NewTaskHandler(taskService, log)
	importHandler := importhandler.NewImportHandler(importService, cfg.Uploads.MaxSizeBytes(), log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "taskhub-server",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Public auth endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Protected API endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authhandler.Authenticate(jwtManager))

		r.Get("/me", userHandler.Me)
		r.Put("/me", userHandler.Update)
		r.Get("/users", userHandler.List)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		r.Post("/import", importHandler.Import)
		r.Route("/imports", func(r chi.Router) {
			r.Get("/", importHandler.List)
			r.Get("/{id}", importHandler.Get)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
