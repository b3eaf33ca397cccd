package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/quizflow/internal/dashboard"
	"github.com/aretw0/quizflow/pkg/domain"
)

type loginRequest struct {
	Passphrase string `json:"passphrase"`
}

// Login handles POST /api/admin/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decode(w, r, &body) {
		return
	}
	if !s.checkPassphrase(body.Passphrase) {
		writeError(w, http.StatusUnauthorized, errors.New("invalid passphrase"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetDashboard handles GET /api/admin/dashboard. Every call re-reads the
// store, so a client retries after a failure by calling it again.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Dashboard.Refresh(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListSubmissions handles GET /api/admin/submissions.
func (s *Server) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	list, err := s.Engine.Store().List(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	if list == nil {
		list = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, list)
}

// DeleteSubmissions handles DELETE /api/admin/submissions?confirm=true.
func (s *Server) DeleteSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, errors.New("deleting all submissions requires confirm=true"))
		return
	}
	if err := s.Engine.Store().DeleteAll(r.Context()); err != nil {
		storeError(w, err)
		return
	}
	s.Logger.Info("all submissions deleted")
	w.WriteHeader(http.StatusNoContent)
}

func storeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrStoreRead) || errors.Is(err, domain.ErrStoreWrite) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err)
}

// SubscribeEvents handles GET /api/admin/events (SSE). The current summary is
// sent on connect, then one "summary" event per dashboard refresh.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ctx := r.Context()
	updates := s.Dashboard.Subscribe(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	if latest, ok := s.Dashboard.Latest(); ok {
		writeSummary(w, latest)
		flusher.Flush()
	} else {
		// Published to updates by the service.
		go s.Dashboard.Refresh(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case summary, ok := <-updates:
			if !ok {
				return
			}
			writeSummary(w, summary)
			flusher.Flush()
		}
	}
}

func writeSummary(w http.ResponseWriter, summary dashboard.Summary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: summary\ndata: %s\n\n", data)
}
