package governance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
)

type Handler struct {
	evaluator Evaluator
	catalog   []scoring.MetricDef

	// freeText holds the most recent free-text score with a latest-wins
	// sequence, so a slow earlier call can never clobber a faster later one.
	freeText scoring.ScoreSlot
}

func NewHandler(evaluator Evaluator) *Handler {
	return &Handler{
		evaluator: evaluator,
		catalog:   scoring.GovernanceCatalog(),
	}
}

// ScoreText handles POST /api/governance/score. The response is the flat
// clamped metric map; metrics the service did not compute are simply absent.
func (h *Handler) ScoreText(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		// Local validation failure: no network call is made.
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "text is required"})
		return
	}

	seq := h.freeText.Begin()

	raw, err := h.evaluator.ScoreText(r.Context(), text)
	if err != nil {
		status, msg := UpstreamError(err)
		h.freeText.SetError(seq, msg)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}

	score := scoring.Normalize(raw, h.catalog)
	h.freeText.Set(seq, score)
	writeJSON(w, http.StatusOK, score)
}

// Latest handles GET /api/governance/latest: the snapshot of the free-text
// scoring path.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.freeText.View())
}

// Catalog handles GET /api/governance/metrics so the frontend renders the
// grid from the server's catalog instead of a hardcoded copy.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

// UpstreamError maps the client taxonomy onto an HTTP status and a
// user-facing message. ServiceError messages are surfaced verbatim;
// malformed responses get a generic message.
func UpstreamError(err error) (int, string) {
	var se *ServiceError
	switch {
	case errors.As(err, &se):
		return http.StatusBadGateway, se.Message
	case errors.Is(err, ErrTimedOut):
		return http.StatusGatewayTimeout, "scoring service timed out"
	case errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway, "unknown error"
	default:
		return http.StatusBadGateway, "scoring service unreachable"
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
