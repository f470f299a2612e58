package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/application"
	"restaurant-order-bot/internal/config"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/infra/worker"
)

// Server exposes health, metrics and a generic inbound webhook. Messaging
// platforms that push events over HTTP (rather than long polling) POST the
// normalized inbound shape to /webhook/inbound.
type Server struct {
	cfg       *config.Config
	processor *application.TurnProcessor
	pool      *worker.Pool
	log       *zerolog.Logger
	server    *http.Server
}

func NewServer(cfg *config.Config, processor *application.TurnProcessor, pool *worker.Pool, log *zerolog.Logger) *Server {
	return &Server{cfg: cfg, processor: processor, pool: pool, log: log}
}

func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook/inbound", s.handleInbound)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler: r,
	}
	s.log.Info().Int("port", s.cfg.HTTP.Port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	var in model.Inbound
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if in.Phone == "" {
		http.Error(w, "phone required", http.StatusBadRequest)
		return
	}
	if in.Type == "" {
		in.Type = model.MessageText
	}

	// Ack immediately; the turn runs on the pool. Gateways retry on 5xx, so
	// a full queue maps to 503.
	if err := s.pool.Submit(func(ctx context.Context) error {
		return s.processor.Process(ctx, in)
	}); err != nil {
		http.Error(w, "busy", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
