// Package admin serves the authenticated JSON API used to inspect and edit a
// site's content and to trigger generations.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kush-Singh-26/quire/builder/run"
)

// ErrNoCredentials is returned when the site config has no admin user.
var ErrNoCredentials = errors.New("admin credentials are not configured")

const realm = "quire admin"

type Options struct {
	Addr    string
	Builder *run.Builder
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prom.Gatherer
	Logger   *slog.Logger
}

// Server represents the admin API server.
type Server struct {
	Addr     string
	builder  *run.Builder
	gatherer prom.Gatherer
	logger   *slog.Logger
	router   *chi.Mux
	server   *http.Server

	username     string
	passwordHash []byte

	// genMu serializes generations started through the API.
	genMu sync.Mutex
}

// NewServer creates a new admin server. The site configuration must carry
// a username and bcrypt password hash.
func NewServer(opts Options) (*Server, error) {
	cfg := opts.Builder.Config()
	if !cfg.AdminEnabled() {
		return nil, ErrNoCredentials
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		Addr:         opts.Addr,
		builder:      opts.Builder,
		gatherer:     opts.Gatherer,
		logger:       opts.Logger,
		router:       chi.NewRouter(),
		username:     cfg.Admin.Username,
		passwordHash: []byte(cfg.Admin.PasswordHash),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.basicAuth)

		r.Get("/api/posts", s.handleListPosts)
		r.Get("/api/drafts", s.handleListDrafts)
		r.Post("/api/drafts", s.handleCreateDraft)
		r.Get("/api/conflicts", s.handleConflicts)
		r.Post("/api/generate", s.handleGenerate)

		if s.gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
		}
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("Admin API listening", "addr", s.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !s.checkCredentials(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
			s.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkCredentials(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(pass)) == nil
	return userOK && passOK
}

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Error writes an error response.
func (s *Server) Error(w http.ResponseWriter, code int, message string) {
	s.write(w, code, Response{Success: false, Error: message})
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data interface{}) {
	s.write(w, code, Response{Success: true, Data: data})
}

func (s *Server) write(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
