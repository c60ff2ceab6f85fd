// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root" — the one place where the dependency
// chain is assembled:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler layer
// ever sees HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tabrown76/Capstone2Backend/internal/auth"
	"github.com/tabrown76/Capstone2Backend/internal/handler"
	"github.com/tabrown76/Capstone2Backend/internal/middleware"
	sqliteRepo "github.com/tabrown76/Capstone2Backend/internal/repository/sqlite"
	"github.com/tabrown76/Capstone2Backend/internal/schema"
	"github.com/tabrown76/Capstone2Backend/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	// BcryptCost tunes the password work factor; 0 means the default.
	BcryptCost int

	// Google OAuth redirect flow; all three empty disables the
	// /auth/google/login and /auth/google/callback routes.
	// /auth/googleregister works regardless.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Server owns the router and the database handle; the handle is closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router; tests drive the full middleware and route
// stack through httptest without opening a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database handle. Start closes it itself on shutdown;
// tests that drive Handler() directly call Close when they finish.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID / RealIP — request metadata for the logger
//  2. Recoverer — catches panics, returns 500 instead of crashing
//  3. request logger
//  4. auth.Verify — decodes the bearer token for EVERY route (public ones
//     included); per-route RequireOwner then enforces ownership
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return fmt.Errorf("compiling request schemas: %w", err)
	}

	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	} else {
		s.logger.Warn("Google OAuth not configured — redirect login flow disabled")
	}

	passwords := auth.NewPasswordService(s.config.BcryptCost)
	users := s.db.Users()

	userService := service.NewUserService(users, passwords, s.logger)
	shoppingService := service.NewShoppingService(s.db.ShoppingLists(), users, s.logger)
	recipeService := service.NewRecipeService(s.db.Recipes(), s.logger)

	authHandler := handler.NewAuthHandler(userService, tokens, google, validator, s.logger)
	userHandler := handler.NewUserHandler(userService, validator, s.logger)
	shoppingHandler := handler.NewShoppingHandler(shoppingService, validator, s.logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, validator, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.Verify(tokens))

	// Unmatched routes get the JSON envelope, not chi's plain-text 404.
	s.router.NotFound(handler.NotFoundHandler)
	s.router.MethodNotAllowed(handler.NotFoundHandler)

	owner := auth.RequireOwner("userID")

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.HandleToken)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/googleregister", authHandler.HandleGoogleRegister)
		if google != nil {
			r.Get("/google/login", authHandler.HandleGoogleLogin)
			r.Get("/google/callback", authHandler.HandleGoogleCallback)
		}
	})

	s.router.Route("/users/{userID}", func(r chi.Router) {
		r.Use(owner)
		r.Get("/", userHandler.HandleGet)
		r.Patch("/", userHandler.HandlePatch)
		r.Delete("/", userHandler.HandleDelete)
	})

	s.router.Route("/shopping/{userID}", func(r chi.Router) {
		r.Use(owner)
		r.Get("/", shoppingHandler.HandleGet)
		r.Post("/", shoppingHandler.HandleMerge)
		r.Patch("/", shoppingHandler.HandleReplace)
	})

	s.router.Route("/recipes", func(r chi.Router) {
		// check-url is public and must be registered before the
		// parameterised routes so "check-url" isn't captured as a userID.
		r.Get("/check-url", recipeHandler.HandleCheckURL)

		r.Route("/{userID}", func(r chi.Router) {
			r.Use(owner)
			r.Get("/", recipeHandler.HandleList)
			r.Get("/{recipeID}", recipeHandler.HandleGet)
			r.Post("/{recipeID}", recipeHandler.HandleCreate)
			r.Delete("/{recipeID}", recipeHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, and close the database (flushes the WAL, releases the lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
