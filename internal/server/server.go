package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/limiter"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/ui"
	"github.com/me/shipdesk/pkg/model"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// limiterSweepInterval is how often idle login buckets are dropped.
const limiterSweepInterval = time.Minute

// Server is the shipdesk dashboard: HTML pages plus a small JSON API.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	app       *app.App
	startTime time.Time
	flash     *notify.Flash
	limiter   *limiter.IPRateLimiter
	ui        *ui.UI
}

// New creates a new Server with all routes registered.
func New(a *app.App, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		app:       a,
		startTime: time.Now(),
		flash:     notify.NewFlash(),
		limiter:   limiter.NewIPRateLimiter(rate.Limit(a.Config.LoginRate), a.Config.LoginBurst, logger),
	}

	s.ui = ui.New(ui.Deps{
		Sessions: a.Sessions,
		Auth:     a.Auth(s.flash),
		Services: a.Services,
		Savers:   a.Savers,
		Importer: a.Importer(s.flash),
		Scanner:  a.Scanner(s.flash),
		Imports:  a.Store,
		Flash:    s.flash,
		Manifest: a.Manifest,
		Limiter:  s.limiter,
	}, logger, ui.Config{
		APIBaseURL:     a.APIBaseURL,
		SessionBackend: a.Config.SessionBackend,
		MaxImportBytes: a.Config.MaxImportBytes,
		AllowedHosts:   a.Config.ServedHosts(),
	})

	s.routes()
	return s
}

// StartBackground starts the housekeeping loops. They stop with ctx.
func (s *Server) StartBackground(ctx context.Context) {
	go s.limiter.Run(ctx, limiterSweepInterval)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: s.app.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ui.HostGuard(s.app.Config.ServedHosts(), s.logger))
		r.Use(c.Handler)

		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)
		r.Get("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/navigation", s.handleNavigation)
			r.Get("/imports", s.handleListImports)
			r.Get("/scans/{checkpoint}", s.handleListScans)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, &model.APIError{
				Code:    model.ErrNotFound,
				Message: "no such endpoint: " + r.URL.Path,
			})
		})
	})
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.app.Config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.StartBackground(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", httpServer.Addr, "api", s.app.APIBaseURL)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
