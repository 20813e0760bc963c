// Package server exposes the translation pipeline over HTTP: document
// translation, file upload extraction, report rendering and the ops
// surface (health, metrics).
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/simplylegal/simplylegal/internal/config"
	"github.com/simplylegal/simplylegal/internal/logger"
	"github.com/simplylegal/simplylegal/internal/metrics"
	"github.com/simplylegal/simplylegal/internal/pipeline"
	"github.com/simplylegal/simplylegal/internal/provider"
	"github.com/simplylegal/simplylegal/internal/speech"
)

type Server struct {
	cfg      *config.Config
	provider provider.Client
	pipeline *pipeline.Pipeline
	// rawSynth is the unwrapped synthesizer, kept for capability probes
	// the instrumented wrapper would hide.
	rawSynth speech.Synthesizer
	metrics  *metrics.Metrics
	sem      *semaphore.Weighted
}

// New wires the HTTP layer around a resolved completion backend.
// synth must be nil when speech is disabled; the pipeline then skips
// synthesis entirely.
func New(cfg *config.Config, client provider.Client, synth speech.Synthesizer) (*Server, error) {
	m := metrics.New()

	systemPrompt, err := cfg.ResolveSystemPrompt()
	if err != nil {
		return nil, err
	}

	var instrumented speech.Synthesizer
	if synth != nil {
		instrumented = &measuredSynthesizer{inner: synth, metrics: m}
	}

	p, err := pipeline.New(pipeline.Config{
		Provider:        &measuredProvider{Client: client, metrics: m},
		Synthesizer:     instrumented,
		MaxChunkSize:    cfg.Pipeline.MaxChunkSize,
		ChunkingEnabled: cfg.Pipeline.ChunkingEnabled,
		SystemPrompt:    systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	return &Server{
		cfg:      cfg,
		provider: client,
		pipeline: p,
		rawSynth: synth,
		metrics:  m,
		sem:      semaphore.NewWeighted(cfg.Server.MaxConcurrent),
	}, nil
}

// Handler builds the complete HTTP handler.
//
// Route table:
//
//	GET  /api/{$}         → service banner
//	POST /api/llm_output  → translate a document
//	POST /api/upload      → extract text from an uploaded file
//	POST /api/report      → render a .docx report
//	GET  /healthz         → health report
//	GET  /metrics         → Prometheus scrape
//
// Middleware chain (outermost first): RequestID → Logging → Metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/{$}", s.handleRoot)
	mux.HandleFunc("POST /api/llm_output", s.handleTranslate)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var chain http.Handler = mux
	chain = metricsMiddleware(s.metrics)(chain)
	chain = loggingMiddleware(chain)
	chain = requestIDMiddleware(chain)
	return chain
}

// acquire takes a translation permit, waiting at most the configured
// budget. Each permit holds one pipeline run; the returned release must
// be called when the run finishes.
func (s *Server) acquire(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Server.AcquireTimeoutSecs)*time.Second)
	defer cancel()
	if err := s.sem.Acquire(waitCtx, 1); err != nil {
		return nil, err
	}
	return func() { s.sem.Release(1) }, nil
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return <-errCh
}
