package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Timer metrics
	TimerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "focuspad_timer_ticks_total",
			Help: "Total countdown ticks processed",
		},
	)

	SessionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focuspad_sessions_completed_total",
			Help: "Sessions that ran down to zero, by kind",
		},
		[]string{"kind"},
	)

	// Notes metrics
	NotesSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focuspad_notes_saves_total",
			Help: "Notes writes by trigger",
		},
		[]string{"trigger"},
	)

	// Storage metrics
	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focuspad_storage_errors_total",
			Help: "Failed persistence operations",
		},
		[]string{"component"},
	)

	// Audio metrics
	Volume = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "focuspad_audio_volume",
			Help: "Current background audio volume in [0,1]",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TimerTicks,
		SessionsCompleted,
		NotesSaves,
		StorageErrors,
		Volume,
	)
}

// Server exposes /metrics and /health.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

func (s *Server) Start() {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
}

func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
