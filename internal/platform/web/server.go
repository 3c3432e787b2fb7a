// Package web serves a small read-only JSON API over the leaderboard and
// the tier table.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"

	"github.com/vovakirdan/bubblemath/internal/storage"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

// ScoreStore is the leaderboard the API reads from.
type ScoreStore interface {
	TopScores(limit int) ([]storage.ScoreEntry, error)
	PlayerScores(player string, limit int) ([]storage.ScoreEntry, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// New creates a server listening on addr. tiers is published as-is.
func New(addr string, scores ScoreStore, tiers tier.Table, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(scores, tiers, logger),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter builds the API routes.
func NewRouter(scores ScoreStore, tiers tier.Table, logger *log.Logger) chi.Router {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bubble Math API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(scores, logger))
	r.Route("/api", func(r chi.Router) {
		r.Get("/tiers", handleTiers(tiers))
		r.Get("/scores", handleTopScores(scores, logger))
		r.Get("/scores/{player}", handlePlayerScores(scores, logger))
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("web: listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("starting HTTP server", "address", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
