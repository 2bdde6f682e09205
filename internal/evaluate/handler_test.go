package evaluate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beelink/governance-backend/internal/governance"
	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
)

func newTestHandler(evaluator *fakeEvaluator) *Handler {
	svc := NewService(evaluator, testCorrector(), &fakeExercises{})
	return NewHandler(svc, nil)
}

func TestHandlerEvaluateSuccess(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{rows: []scoring.RawScore{
		scoring.RawScoreFromJSON([]byte(`{"answer_similarity": 0.8}`)),
	}})

	body := `{"quiz":[{"question":"q1","ideal_answer":"i1"}],"answers":["a1"],"context":"ctx"}`
	rec := httptest.NewRecorder()
	h.Evaluate(rec, httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.EvaluateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
}

func TestHandlerEvaluateRejectsMismatchedAnswers(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{})

	body := `{"quiz":[{"question":"q1"},{"question":"q2"}],"answers":["only one"],"context":"ctx"}`
	rec := httptest.NewRecorder()
	h.Evaluate(rec, httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched answers, got %d", rec.Code)
	}
}

func TestHandlerEvaluateUpstreamFailure(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{err: &governance.ServiceError{Status: 500, Message: "scorer exploded"}})

	body := `{"quiz":[{"question":"q1"}],"answers":["a1"],"context":"ctx"}`
	rec := httptest.NewRecorder()
	h.Evaluate(rec, httptest.NewRequest("POST", "/api/evaluate", strings.NewReader(body)))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "scorer exploded" {
		t.Errorf("upstream message should pass through verbatim, got %q", resp.Error)
	}

	// The failure is recorded on the submission snapshot.
	rec2 := httptest.NewRecorder()
	h.Latest(rec2, httptest.NewRequest("GET", "/api/evaluations/latest", nil))
	var view scoring.SubmissionView
	if err := json.NewDecoder(rec2.Body).Decode(&view); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	if view.Phase != scoring.PhaseFailed {
		t.Errorf("expected failed phase, got %q", view.Phase)
	}
	if view.Error != "scorer exploded" {
		t.Errorf("expected recorded error, got %q", view.Error)
	}
}

func TestHandlerLatestStartsIdle(t *testing.T) {
	h := newTestHandler(&fakeEvaluator{})

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest("GET", "/api/evaluations/latest", nil))

	var view scoring.SubmissionView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	if view.Phase != scoring.PhaseIdle {
		t.Errorf("expected idle phase before any submission, got %q", view.Phase)
	}
}
