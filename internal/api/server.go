// Package api provides the HTTP API server and handlers for the KaizenHub application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
	"github.com/kaizenhub/kaizenhub-server/internal/ratelimit"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store              store.Store
	authService        *service.AuthService
	sessionService     *service.SessionService
	plantService       *service.PlantService
	submissionService  *service.SubmissionService
	copyService        *service.CopyService
	leaderboardService *service.LeaderboardService
	reportingService   *service.ReportingService
	searchService      *service.SearchService
	loginLimiter       *ratelimit.KeyedRateLimiter
	router             *chi.Mux
	logger             *slog.Logger
}

// Services bundles the service dependencies of the server.
type Services struct {
	Auth        *service.AuthService
	Sessions    *service.SessionService
	Plants      *service.PlantService
	Submissions *service.SubmissionService
	Copies      *service.CopyService
	Leaderboard *service.LeaderboardService
	Reporting   *service.ReportingService
	Search      *service.SearchService
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store store.Store, services Services, loginLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		store:              store,
		authService:        services.Auth,
		sessionService:     services.Sessions,
		plantService:       services.Plants,
		submissionService:  services.Submissions,
		copyService:        services.Copies,
		leaderboardService: services.Leaderboard,
		reportingService:   services.Reporting,
		searchService:      services.Search,
		loginLimiter:       loginLimiter,
		router:             chi.NewRouter(),
		logger:             logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public; login is rate limited per client IP).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup", s.handleSetup)
			r.With(s.rateLimitLogin).Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Users.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.With(s.requireHQ).Post("/", s.handleRegisterUser)
		})

		// Plants.
		r.Route("/plants", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListPlants)
			r.Get("/{id}", s.handleGetPlant)
			r.With(s.requireHQ).Post("/", s.handleCreatePlant)
			r.With(s.requireHQ).Patch("/{id}", s.handleUpdatePlant)
			r.Get("/{id}/practices", s.handleListPlantPractices)
			r.Get("/{id}/copies", s.handleListPlantCopies)
		})

		// Best practice submissions.
		r.Route("/practices", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePractice)
			r.Get("/", s.handleListPractices)
			r.Get("/benchmarks", s.handleListBenchmarks)
			r.Get("/{id}", s.handleGetPractice)
			r.Patch("/{id}", s.handleUpdatePractice)
			r.Delete("/{id}", s.handleDeletePractice)
			r.Post("/{id}/submit", s.handleSubmitPractice)
			r.With(s.requireHQ).Post("/{id}/approve", s.handleApprovePractice)
			r.With(s.requireHQ).Post("/{id}/benchmark", s.handleBenchmarkPractice)
			r.With(s.requireHQ).Delete("/{id}/benchmark", s.handleUnbenchmarkPractice)
			r.Post("/{id}/copy", s.handleCopyPractice)
		})

		// Reports.
		r.Route("/reports", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/plants/{id}/monthly", s.handlePlantMonthlyReport)
			r.Get("/plants/{id}/ytd", s.handlePlantYTDReport)
			r.Get("/monthly", s.handleMonthOverview)
			r.Get("/ytd", s.handleYTDOverview)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/leaderboard/{id}", s.handlePlantLeaderboard)
		})

		// Search.
		r.Route("/search", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleSearch)
			r.With(s.requireHQ).Post("/reindex", s.handleReindex)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
