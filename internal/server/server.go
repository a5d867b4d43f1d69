// Package server exposes the assistant over HTTP for chat front ends.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/rag"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Answerer produces the final answer for one chat turn.
type Answerer interface {
	Respond(ctx context.Context, query string, opts assistant.Options) assistant.Response
}

// Searcher runs retrieval and reports failures.
type Searcher interface {
	Search(ctx context.Context, query string, opts rag.Options) (*rag.Context, error)
}

type Server struct {
	answerer  Answerer
	searcher  Searcher
	config    *config.ServerConfig
	retrieval rag.Options
	server    *http.Server
}

type Option func(*Server)

// WithRetrievalDefaults sets the k and similarity threshold used by
// /api/v1/retrieve when a request leaves them out.
func WithRetrievalDefaults(k int, minSimilarity float64) Option {
	return func(s *Server) {
		s.retrieval.K = k
		s.retrieval.MinSimilarity = minSimilarity
	}
}

func NewServer(answerer Answerer, searcher Searcher, cfg *config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		answerer: answerer,
		searcher: searcher,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	timeout := time.Duration(s.config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/answer", s.handleAnswer)
	r.Post("/api/v1/retrieve", s.handleRetrieve)
	r.Route("/api/v1/savings", func(r chi.Router) {
		r.Post("/compound", s.handleCompound)
		r.Post("/sip", s.handleSIP)
		r.Post("/compare", s.handleCompare)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
