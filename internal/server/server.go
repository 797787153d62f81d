// Package server wires the application together: router, middleware, route
// table, and lifecycle.
//
// This is the composition root — the one place that knows every concrete
// type. The dependency chain is assembled here and nowhere else:
//
//	sqlite.DB → services (auth, lists, reviews) → handlers → routes
//	catalog.Client ————————————————————————————↗
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services. Nothing below this package imports
// anything above itself.
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

	"github.com/sakif/gameshelf/internal/auth"
	"github.com/sakif/gameshelf/internal/catalog"
	"github.com/sakif/gameshelf/internal/config"
	"github.com/sakif/gameshelf/internal/handler"
	"github.com/sakif/gameshelf/internal/middleware"
	sqliteRepo "github.com/sakif/gameshelf/internal/repository/sqlite"
	"github.com/sakif/gameshelf/internal/service"
)

// Server owns the router and the resources that must close on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database (running migrations), builds the full dependency
// graph, and registers every route. A Server returned from here is ready to
// Start; an error here means the process should exit.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes registers middleware, pages, and the API.
//
// ROUTE MAP:
//
//	GET    /                      → redirect (home or login)
//	GET    /login  POST /login    → login form / submit
//	GET    /logout                → revoke session
//	GET    /home /games /lists
//	       /profile /game/{id}
//	       /review/{id}           → page shells (session required, redirect)
//	GET    /static/*              → assets
//
//	GET    /api/trending          → trending feed
//	GET    /api/new_releases      → recent releases feed
//	GET    /api/search?q=&page=   → title search
//	GET    /api/game/{id}         → enriched detail
//	GET    /api/reviews/{id}      → reviews for a game
//	GET    /api/me                → current user           (auth)
//	GET    /api/my/lists          → lists with items       (auth)
//	POST   /api/my/lists          → create list            (auth)
//	POST   /api/my/lists/add      → add game to list       (auth)
//	DELETE /api/my/lists/{id}     → delete list            (auth)
//	POST   /api/reviews/{id}      → post review            (auth)
//
// Anonymous page visits redirect to /login; anonymous API calls get a JSON
// 401. Same check, different answer — browsers want a form, fetch() wants
// a status.
func (s *Server) setupRoutes() error {
	// Global middleware, in order: RequestID must precede the logger (the
	// logger reads the ID), Recoverer turns handler panics into 500s
	// instead of dropped connections.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Static assets
	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Dependency graph
	passwords := auth.NewPasswordService()
	authSvc := service.NewAuthService(s.db, s.db, s.db, passwords, s.cfg.SessionTTL, s.logger)
	listSvc := service.NewListService(s.db, s.logger)
	reviewSvc := service.NewReviewService(s.db, s.logger)

	catalogClient := catalog.New(catalog.Config{
		CatalogBaseURL: s.cfg.CatalogBaseURL,
		StoreBaseURL:   s.cfg.StoreBaseURL,
		APIKey:         s.cfg.CatalogAPIKey,
		Timeout:        s.cfg.CatalogTimeout,
	}, s.logger)

	renderer, err := handler.NewRenderer(s.cfg.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	authHandler := handler.NewAuthHandler(authSvc, renderer, s.logger)
	pageHandler := handler.NewPageHandler(renderer, s.logger)
	gameHandler := handler.NewGameHandler(catalogClient, s.logger)
	listHandler := handler.NewListHandler(listSvc, s.logger)
	reviewHandler := handler.NewReviewHandler(reviewSvc, s.logger)

	requireAuth := auth.RequireAuth(authSvc)
	requirePage := auth.RequireAuthRedirect(authSvc, "/login")
	optionalAuth := auth.OptionalAuth(authSvc)

	// Pages that work (or redirect) for everyone
	s.router.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", pageHandler.HandleIndex)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/logout", authHandler.HandleLogout)
	})

	// Pages that need a session
	s.router.Group(func(r chi.Router) {
		r.Use(requirePage)
		r.Get("/home", pageHandler.HandleHome)
		r.Get("/games", pageHandler.HandleGames)
		r.Get("/game/{id}", pageHandler.HandleGameDetail)
		r.Get("/review/{id}", pageHandler.HandleReview)
		r.Get("/lists", pageHandler.HandleLists)
		r.Get("/profile", pageHandler.HandleProfile)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads
		r.Get("/trending", gameHandler.HandleTrending)
		r.Get("/new_releases", gameHandler.HandleNewReleases)
		r.Get("/search", gameHandler.HandleSearch)
		r.Get("/game/{id}", gameHandler.HandleGame)
		r.Get("/reviews/{id}", reviewHandler.HandleGameReviews)

		// Session required
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.HandleMe)
			r.Get("/my/lists", listHandler.HandleMyLists)
			r.Post("/my/lists", listHandler.HandleCreateList)
			r.Post("/my/lists/add", listHandler.HandleAddToList)
			r.Delete("/my/lists/{id}", listHandler.HandleDeleteList)
			r.Post("/reviews/{id}", reviewHandler.HandleCreateReview)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s budget) and closes the database so the WAL is flushed and
// the file lock released.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.cfg.DBPath),
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
