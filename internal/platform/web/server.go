// Package web serves toxic2048 over HTTP: a JSON API backed by cookie
// sessions and a small embedded browser client.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/toxic2048/internal/config"
	"github.com/vovakirdan/toxic2048/internal/session"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = time.Hour
)

// Options configures a Server.
type Options struct {
	Config     config.WebConfig
	Controller *session.Controller
	Sessions   SessionStore // nil keeps sessions in memory
	Scores     ScoreStore   // nil disables score recording
	Logger     *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg      config.WebConfig
	ctrl     *session.Controller
	sessions SessionStore
	scores   ScoreStore
	logger   *log.Logger
	locks    *sessionLocks
	router   *gin.Engine
	http     *http.Server
}

// NewServer builds the router and all handlers.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "toxic2048-web",
		})
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewMemoryStore()
	}

	s := &Server{
		cfg:      opts.Config,
		ctrl:     opts.Controller,
		sessions: sessions,
		scores:   opts.Scores,
		logger:   logger,
		locks:    newSessionLocks(),
	}
	s.router = s.setupRouter()
	s.http = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/", serveIndex)
	assets := r.Group("/static", cacheStatic)
	assets.StaticFS("/", staticFS())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/game", s.handleGame)
	api.POST("/move", s.handleMove)
	api.POST("/undo", s.handleUndo)
	api.POST("/reset", s.handleReset)
	api.GET("/achievements", s.handleAchievements)
	api.GET("/scores", s.handleScores)

	return r
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve runs the server until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting web server", "address", s.cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if p, ok := s.sessions.(pruner); ok && s.cfg.SessionTTL > 0 {
		go s.pruneLoop(ctx, p)
	}

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) pruneLoop(ctx context.Context, p pruner) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		s.prune(p)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) prune(p pruner) {
	n, err := p.PruneSessions(time.Now().Add(-s.cfg.SessionTTL))
	if err != nil {
		s.logger.Warn("could not prune sessions", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("pruned idle sessions", "count", n)
	}
}
