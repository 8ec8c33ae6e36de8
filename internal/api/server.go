// Package api exposes the HTTP surface: ingest, current conditions,
// station search, trends, extremes and session control.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imartinez/iberoweather/internal/export"
	"github.com/imartinez/iberoweather/internal/session"
	"github.com/imartinez/iberoweather/internal/stations"
	"github.com/imartinez/iberoweather/internal/store"
)

type Server struct {
	store    *store.Store
	sessions *session.Manager
	registry *stations.Registry
	influx   *export.InfluxWriter
	logger   *slog.Logger
	port     string
}

func NewServer(st *store.Store, sessions *session.Manager, registry *stations.Registry, influx *export.InfluxWriter, logger *slog.Logger, port string) *Server {
	return &Server{
		store:    st,
		sessions: sessions,
		registry: registry,
		influx:   influx,
		logger:   logger,
		port:     port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ingest/", s.handleIngest)
	mux.HandleFunc("/api/current", s.handleCurrent)
	mux.HandleFunc("/api/stations/near", s.handleStationsNear)
	mux.HandleFunc("/api/trends", s.handleTrends)
	mux.HandleFunc("/api/extremes", s.handleExtremes)
	mux.HandleFunc("/api/session/reset", s.handleSessionReset)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", "port", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
