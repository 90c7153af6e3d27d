// Package server exposes schema parsing and payload generation over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	xsdgen "github.com/agentflare-ai/go-xsdgen"
	"github.com/agentflare-ai/go-xsdgen/internal/config"
	"github.com/agentflare-ai/go-xsdgen/internal/logger"
	"github.com/agentflare-ai/go-xsdgen/internal/metrics"
)

// Server serves the xsdgen HTTP API
type Server struct {
	cfg      config.Config
	log      *logger.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	cache    *xsdgen.SchemaCache
	server   *http.Server
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock handed to generators, which bounds generated dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server with its own metrics registry and schema cache
func New(cfg config.Config, log *logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	s := &Server{
		cfg:      cfg,
		log:      log.Component("http"),
		metrics:  m,
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cache = xsdgen.NewSchemaCache("",
		xsdgen.WithCacheLogger(log.Component("cache").Zerolog()),
		xsdgen.WithHitHook(m.CacheHit),
		xsdgen.WithMaxEntries(cfg.Server.CacheEntries),
		xsdgen.WithEvictHook(m.CacheEvict),
	)

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/parse", s.instrument("/v1/parse", http.HandlerFunc(s.handleParse)))
	mux.Handle("POST /v1/generate", s.instrument("/v1/generate", http.HandlerFunc(s.handleGenerate)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"xsdgen"}`))
	})
	return withRequestID(mux)
}

// Registry returns the registry the server's collectors are registered on
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.LogServerStart(s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.LogServerShutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}

type parseRequest struct {
	Schema string `json:"schema"`
}

type generateRequest struct {
	Schema string  `json:"schema"`
	Filter string  `json:"filter"`
	Format string  `json:"format"`
	Seed   *uint64 `json:"seed"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decode(w, r, &req) {
		return
	}

	schema, err := s.schema(req.Schema)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schema)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}

	schema, err := s.schema(req.Schema)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	formatName := req.Format
	if formatName == "" {
		formatName = s.cfg.Generator.Format
	}
	format := xsdgen.ParseFormat(formatName)

	start := time.Now()
	payload, err := s.generator(req.Seed).GeneratePayload(schema, req.Filter, format)
	s.metrics.RecordGenerate(string(format), len(payload), err)
	s.log.LogGenerate(rootName(schema), string(format), len(payload), time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "application/json"
	if format == xsdgen.FormatXML {
		contentType = "application/xml"
	}
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(payload))
}

// schema resolves schema text through the cache
func (s *Server) schema(text string) (*xsdgen.ParsedSchema, error) {
	start := time.Now()
	schema, err := s.cache.GetOrParse(text)
	s.metrics.RecordParse(err)
	if err != nil {
		s.log.LogParse("request", 0, 0, time.Since(start), err)
		return nil, err
	}
	s.log.LogParse("request", len(schema.Elements), len(schema.Warnings()), time.Since(start), nil)
	return schema, nil
}

func (s *Server) generator(seed *uint64) *xsdgen.Generator {
	opts := []xsdgen.Option{
		xsdgen.WithMaxDepth(s.cfg.Generator.MaxDepth),
		xsdgen.WithClock(s.now),
		xsdgen.WithLogger(s.log.Component("generator").Zerolog()),
	}
	switch {
	case seed != nil:
		opts = append(opts, xsdgen.WithSeed(*seed))
	case s.cfg.Generator.Seed != 0:
		opts = append(opts, xsdgen.WithSeed(s.cfg.Generator.Seed))
	}
	return xsdgen.NewGenerator(opts...)
}

// decode reads a size-limited JSON body, answering the request itself on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		s.writeErrorStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *xsdgen.SchemaError
	var emptyErr *xsdgen.EmptySchemaError
	if errors.As(err, &schemaErr) || errors.As(err, &emptyErr) {
		s.writeErrorStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.writeErrorStatus(w, r, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, map[string]string{
		"error":      msg,
		"request_id": RequestID(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to write response").Err(err).Send()
	}
}

func rootName(schema *xsdgen.ParsedSchema) string {
	if schema == nil || len(schema.Elements) == 0 {
		return ""
	}
	return schema.Elements[0].Name
}
