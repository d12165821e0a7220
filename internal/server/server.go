package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const keepAliveText = "🤖 ربات ولتا استور در حال اجراست."

// Server exposes the keep-alive page, a health probe and optionally metrics.
type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           newMux(exposeMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

func newMux(exposeMetrics bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, keepAliveText)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "OK")
	})

	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// Start blocks until the server stops; a graceful shutdown is not an error.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
