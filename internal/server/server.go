// Package server is the development preview server: it regenerates the site
// when sources change and serves the live output tree.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Kush-Singh-26/quire/builder/run"
	"github.com/Kush-Singh-26/quire/builder/site"
	"github.com/Kush-Singh-26/quire/internal/watch"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 2604
)

type Options struct {
	Builder  *run.Builder
	Host     string
	Port     int
	Debounce time.Duration
	Logger   *slog.Logger
}

// Server serves the live tree and regenerates it on source changes.
type Server struct {
	builder  *run.Builder
	liveDir  string
	addr     string
	debounce time.Duration
	logger   *slog.Logger
	router   *chi.Mux
	reload   *broadcaster

	// genMu serializes generations; the pipeline must never run twice at once.
	genMu sync.Mutex
}

func New(opts Options) *Server {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Debounce == 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	s := &Server{
		builder:  opts.Builder,
		liveDir:  opts.Builder.Site().Path(site.LiveDir),
		addr:     net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		router:   chi.NewRouter(),
		reload:   newBroadcaster(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/events", s.handleEvents)
	s.router.With(middleware.Compress(5)).Get("/*", s.handleFile)
	s.router.With(middleware.Compress(5)).Head("/*", s.handleFile)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the address the server listens on.
func (s *Server) Addr() string { return s.addr }

// Regenerate runs one generation and tells connected browsers to reload when
// the output changed.
func (s *Server) Regenerate(ctx context.Context) (*run.Result, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	res, err := s.builder.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		s.reload.broadcast()
	}
	return res, nil
}

// Run generates the site, starts watching its sources and serves until ctx
// is cancelled. A failed initial generation still starts the server so the
// error can be fixed while it runs.
func (s *Server) Run(ctx context.Context) error {
	if res, err := s.Regenerate(ctx); err != nil {
		s.logger.Error("Initial generation failed", "error", err)
	} else {
		fmt.Println(res.Metrics.String())
	}

	w, err := watch.New(s.builder.Site().Dir, s.onChange(ctx), s.logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	w.Debounce = s.debounce

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.Run(ctx); err != nil {
			s.logger.Error("Watcher stopped", "error", err)
		}
	}()
	defer wg.Wait()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Shutdown handler - watches for context cancellation
	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down HTTP server...")
		s.reload.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", "error", err)
		}
	}()

	fmt.Printf("🌐 Serving on http://%s\n", s.addr)
	fmt.Println("   (Auto-reload enabled via /events)")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	fmt.Println("✅ Server stopped.")
	return nil
}
