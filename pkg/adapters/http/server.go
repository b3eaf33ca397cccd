// Package http exposes the quiz flow and the administrator dashboard over HTTP.
//
// The flow API is stateless: clients send the current state with every request
// and receive the next one, so any replica can serve any participant.
package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/internal/dashboard"
	"github.com/aretw0/quizflow/internal/logging"
	"github.com/aretw0/quizflow/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PassphraseHeader carries the administrator passphrase.
const PassphraseHeader = "X-Admin-Passphrase"

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Engine     *quizflow.Engine
	Dashboard  *dashboard.Service
	Metrics    *observability.Metrics
	Passphrase string
	Logger     *slog.Logger
	Timeout    time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithPassphrase sets the administrator passphrase.
func WithPassphrase(p string) Option {
	return func(s *Server) {
		s.Passphrase = p
	}
}

// WithMetrics serves m on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithTimeout bounds non-streaming requests (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.Timeout = d
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(engine *quizflow.Engine, dash *dashboard.Service, opts ...Option) http.Handler {
	s := &Server{
		Engine:    engine,
		Dashboard: dash,
		Logger:    logging.NewNop(),
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s.Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.Timeout))

			r.Get("/graph", s.GetGraph)
			r.Get("/results/{title}", s.GetResult)

			r.Post("/flow/begin", s.Begin)
			r.Post("/flow/select", s.Select)
			r.Post("/flow/restart", s.Restart)

			r.Post("/admin/login", s.Login)

			r.Group(func(r chi.Router) {
				r.Use(s.adminGate)
				r.Get("/admin/dashboard", s.GetDashboard)
				r.Get("/admin/submissions", s.ListSubmissions)
				r.Delete("/admin/submissions", s.DeleteSubmissions)
			})
		})

		// Streams are long-lived; no request timeout.
		r.With(s.adminGate).Get("/admin/events", s.SubscribeEvents)
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+PassphraseHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// adminGate checks the shared passphrase from the header, or the "passphrase"
// query parameter for EventSource clients that cannot set headers.
func (s *Server) adminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		given := r.Header.Get(PassphraseHeader)
		if given == "" {
			given = r.URL.Query().Get("passphrase")
		}
		if !s.checkPassphrase(given) {
			writeError(w, http.StatusUnauthorized, errors.New("invalid passphrase"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkPassphrase(given string) bool {
	if s.Passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), []byte(s.Passphrase)) == 1
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "quizflow",
		"version": strings.TrimSpace(quizflow.Version),
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
