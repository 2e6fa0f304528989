package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/boss-orchestrator/internal/logger"
	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/tools"
)

// errMissingQuestion is returned for asks without a question.
var errMissingQuestion = errors.New("question is required")

// askPayload is the body of POST /ask and the first message on /ask/stream.
type askPayload struct {
	Question           string             `json:"question"`
	Intent             string             `json:"intent"`
	AcceptanceCriteria []string           `json:"acceptance_criteria"`
	Attachments        []tools.Attachment `json:"attachments"`
}

// buildRequest validates p and turns it into a Request with a fresh task id.
func (s *Server) buildRequest(ctx context.Context, p askPayload) (models.Request, error) {
	if strings.TrimSpace(p.Question) == "" {
		return models.Request{}, errMissingQuestion
	}
	intent, err := models.ParseIntent(p.Intent)
	if err != nil {
		return models.Request{}, fmt.Errorf("%w %q: want design, impl_plan, risk or qa", err, p.Intent)
	}
	criteria := p.AcceptanceCriteria
	if criteria == nil {
		criteria = []string{}
	}
	reqCtx := map[string]any{}
	if s.enricher != nil && len(p.Attachments) > 0 {
		reqCtx = s.enricher.Enrich(ctx, p.Attachments)
	}
	return models.Request{
		TaskID:             models.NewTaskID(),
		Intent:             intent,
		Question:           p.Question,
		Context:            reqCtx,
		AcceptanceCriteria: criteria,
	}, nil
}

// Health handles GET /health
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ListOwners handles GET /owners
func (s *Server) ListOwners(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"owners": s.boss.Owners()})
}

// Ask handles POST /ask
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	p, ok := readJSON[askPayload](w, r, s.cfg.MaxBodyBytes)
	if !ok {
		return
	}
	req, err := s.buildRequest(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Info("ask received",
		"task_id", req.TaskID,
		"intent", req.Intent,
		"criteria", len(req.AcceptanceCriteria),
		"attachments", len(p.Attachments),
		"request_id", logger.RequestID(r.Context()),
	)
	writeJSON(w, http.StatusOK, s.boss.Ask(r.Context(), req))
}
