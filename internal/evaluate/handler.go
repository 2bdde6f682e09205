package evaluate

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beelink/governance-backend/internal/governance"
	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
	"github.com/beelink/governance-backend/internal/session"
)

type Handler struct {
	service *Service
	store   *Store
	state   *scoring.Submission
}

func NewHandler(service *Service, store *Store) *Handler {
	return &Handler{
		service: service,
		store:   store,
		state:   scoring.NewSubmission(),
	}
}

// Evaluate handles POST /api/evaluate. One batched upstream call covers the
// whole quiz; either every question gets its result or the cycle fails as a
// unit.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req = h.service.WithDefaults(req)

	seq, ok := h.state.Begin(len(req.Quiz), len(req.Answers))
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "quiz must be non-empty and answers must match the quiz length",
		})
		return
	}

	results, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		status, msg := governance.UpstreamError(err)
		h.state.Fail(seq, msg)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}
	h.state.Succeed(seq, results)

	if h.store != nil {
		name, _ := session.NameFromContext(r.Context())
		if _, err := h.store.SaveEvaluation(name, req, results); err != nil {
			// History is best-effort; the evaluation itself succeeded.
			log.Printf("Failed to save evaluation history: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, models.EvaluateResponse{Results: results})
}

// Latest handles GET /api/evaluations/latest: the snapshot of the
// quiz-evaluation path, including its phase.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.View())
}

// History handles GET /api/evaluations.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r.URL.Query(), "limit", 20)

	summaries, err := h.store.ListRecent(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list evaluations"})
		return
	}
	if summaries == nil {
		summaries = []models.EvaluationSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
