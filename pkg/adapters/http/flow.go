package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/go-chi/chi/v5"
)

type beginRequest struct {
	State    *domain.State `json:"state,omitempty"`
	Nickname string        `json:"nickname"`
}

type selectRequest struct {
	State    *domain.State `json:"state"`
	OptionID string        `json:"option_id"`
}

type restartRequest struct {
	State *domain.State `json:"state"`
}

type flowResponse struct {
	quizflow.View
	Persisted *bool  `json:"persisted,omitempty"`
	Error     string `json:"error,omitempty"`
}

type graphResponse struct {
	Start     string            `json:"start"`
	Questions []domain.Question `json:"questions"`
	Results   []domain.Result   `json:"results"`
}

// GetGraph handles GET /api/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Engine.Graph()
	writeJSON(w, http.StatusOK, graphResponse{
		Start:     g.Start(),
		Questions: g.Questions(),
		Results:   g.Results(),
	})
}

// GetResult handles GET /api/results/{title}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}
	res, ok := s.Engine.Graph().Result(title)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("result %q not found", title))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Begin handles POST /api/flow/begin. A missing state starts from scratch.
func (s *Server) Begin(w http.ResponseWriter, r *http.Request) {
	var body beginRequest
	if !decode(w, r, &body) {
		return
	}
	state := body.State
	if state == nil {
		state = domain.NewState()
	}

	next, err := s.Engine.Begin(r.Context(), state, body.Nickname)
	if err != nil {
		s.flowError(w, s.Engine.View(state), err)
		return
	}
	writeJSON(w, http.StatusOK, flowResponse{View: s.Engine.View(next)})
}

// Select handles POST /api/flow/select.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if !decode(w, r, &body) {
		return
	}
	if body.State == nil {
		writeError(w, http.StatusBadRequest, errors.New("state is required"))
		return
	}

	out, err := s.Engine.Select(r.Context(), body.State, body.OptionID)
	if err != nil {
		s.flowError(w, out.View, err)
		return
	}

	resp := flowResponse{View: out.View}
	if out.State.Stage == domain.StageCompleted {
		persisted := out.Persisted
		resp.Persisted = &persisted
	}
	writeJSON(w, http.StatusOK, resp)
}

// Restart handles POST /api/flow/restart.
func (s *Server) Restart(w http.ResponseWriter, r *http.Request) {
	var body restartRequest
	if !decode(w, r, &body) {
		return
	}
	state := body.State
	if state == nil {
		state = domain.NewState()
	}
	next := s.Engine.Restart(r.Context(), state)
	writeJSON(w, http.StatusOK, flowResponse{View: s.Engine.View(next)})
}

// flowError answers with the unchanged view. Rejected actions are 422; anything
// else is a server fault.
func (s *Server) flowError(w http.ResponseWriter, view quizflow.View, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyNickname),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrInvalidStage):
		status = http.StatusUnprocessableEntity
	default:
		s.Logger.Error("flow transition failed", "error", err)
	}
	writeJSON(w, status, flowResponse{View: view, Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
