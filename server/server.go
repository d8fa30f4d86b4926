// Package server exposes the generation pipeline over HTTP: job
// submission, SSE progress streaming, status polling, the synchronous
// agent wrappers, and Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/agents"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/jobs"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/orchestrator"
)

// Concurrency caps on admitted orchestrations. The orchestrator
// itself enforces nothing; admission control lives here.
const (
	DefaultMaxConcurrentPerUser = 2
	DefaultMaxConcurrentGlobal  = 16
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 15 * time.Second

// Server wires the transport to the store, hub, and pipeline.
type Server struct {
	store   *jobs.Store
	hub     *jobs.Hub
	orch    *orchestrator.Orchestrator
	cost    *agents.CostAgent
	furnish *agents.FurnitureAgent
	vision  *agents.VisionAgent
	input   *agents.InputAgent

	metrics  *Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	maxPerUser int
	maxGlobal  int

	orchOpts []orchestrator.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithConcurrencyLimits overrides the per-user and global caps.
func WithConcurrencyLimits(perUser, global int) Option {
	return func(s *Server) {
		if perUser > 0 {
			s.maxPerUser = perUser
		}
		if global > 0 {
			s.maxGlobal = global
		}
	}
}

// WithStore injects a job store (tests tighten its capacity).
func WithStore(store *jobs.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithOrchestratorOptions forwards options to the pipeline, such as
// iteration and threshold overrides from the config file.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(s *Server) {
		s.orchOpts = append(s.orchOpts, opts...)
	}
}

// New builds a server around one LLM completer and model registry.
func New(completer llm.Completer, registry *model.Registry, opts ...Option) *Server {
	promReg := prometheus.NewRegistry()

	s := &Server{
		store:      jobs.NewStore(),
		hub:        jobs.NewHub(),
		metrics:    NewMetrics(promReg),
		gatherer:   promReg,
		logger:     slog.Default(),
		maxPerUser: DefaultMaxConcurrentPerUser,
		maxGlobal:  DefaultMaxConcurrentGlobal,
	}
	for _, opt := range opts {
		opt(s)
	}

	orchOpts := append([]orchestrator.Option{orchestrator.WithLogger(s.logger)}, s.orchOpts...)
	s.orch = orchestrator.New(completer, registry, orchOpts...)
	s.cost = agents.NewCostAgent(completer, registry, s.logger)
	s.furnish = agents.NewFurnitureAgent(completer, registry, s.logger)
	s.vision = agents.NewVisionAgent(completer, registry, s.logger)
	s.input = agents.NewInputAgent(completer, registry, s.logger)

	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/generate/{jobId}/stream", s.handleStream)
	mux.HandleFunc("GET /api/generate/{jobId}/status", s.handleStatus)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/estimate", s.handleEstimate)
	mux.HandleFunc("POST /api/furniture", s.handleFurniture)
	mux.HandleFunc("POST /api/analyze-image", s.handleAnalyzeImage)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return s.logging(mux)
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No write timeout: progress streams stay open for the whole run.
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("HTTP server listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// logging wraps the mux with request logging.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
