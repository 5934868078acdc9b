package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/schoolbreeze/platform/internal/api/handler"
	mw "github.com/schoolbreeze/platform/internal/api/middleware"
	"github.com/schoolbreeze/platform/internal/config"
	"github.com/schoolbreeze/platform/internal/core"
	"github.com/schoolbreeze/platform/internal/secrets"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cipher *secrets.Cipher, cfg *config.Config) *Server {
	services := core.NewServices(pool, cipher, logger, cfg.GitHubAPIBaseURL, cfg.VercelAPIBaseURL)

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(cipher)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes(cipher *secrets.Cipher) {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	auth := mw.NewAuthenticator(s.pool, cipher, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		template := handler.NewTemplate(s.services.Template)
		social := handler.NewSocial(s.services.Social)

		// Catalog browsing needs no session.
		r.Get("/templates", template.List)
		r.Get("/templates/{id}", template.Get)
		r.Get("/templates/{id}/comments", social.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			// One-click deployment
			deploy := handler.NewDeploy(s.services.Deploy)
			r.Post("/deploy", deploy.Create)

			// Deployment history
			deployment := handler.NewDeployment(s.services.Deployment)
			r.Get("/deployments", deployment.List)
			r.Delete("/deployments/{id}", deployment.Delete)

			// Template catalog writes
			r.Post("/templates", template.Create)
			r.Put("/templates/{id}", template.Update)
			r.Delete("/templates/{id}", template.Delete)

			// Likes and comments
			r.Post("/templates/{id}/like", social.Like)
			r.Delete("/templates/{id}/like", social.Unlike)
			r.Post("/templates/{id}/comments", social.AddComment)
			r.Delete("/comments/{commentID}", social.DeleteComment)

			// Stored credentials
			credential := handler.NewCredential(s.services.Credential)
			r.Get("/credentials", credential.Status)
			r.Post("/credentials", credential.Save)
			r.Delete("/credentials", credential.Disconnect)

			// Profile
			user := handler.NewUser(s.services.User)
			r.Get("/users/me", user.Me)
			r.Put("/users/me/nickname", user.SetNickname)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
