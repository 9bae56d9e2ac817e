package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rubika-guard/internal/logger"
)

var EventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rubika_guard_events_processed",
	Help: "Number of updates processed",
}, []string{"type"})

var MessageDeleteCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rubika_guard_messages_deleted",
	Help: "Number of messages deleted, by rule",
}, []string{"rule"})

var BanCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rubika_guard_bans",
	Help: "Number of users banned, by reason",
}, []string{"reason"})

var CommandCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rubika_guard_commands",
	Help: "Number of command invocations",
}, []string{"command"})

// Server serves the /metrics endpoint.
type Server struct {
	server *http.Server
}

// NewServer builds a metrics HTTP server on the given address.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves until shutdown; a closed-server error is not reported.
func (s *Server) Start() error {
	logger.Infof("Starting metrics server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
