package governance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
)

// stubEvaluator returns a fixed raw body or error.
type stubEvaluator struct {
	body string
	err  error
}

func (s *stubEvaluator) ScoreText(ctx context.Context, text string) (scoring.RawScore, error) {
	if s.err != nil {
		return scoring.RawScore{}, s.err
	}
	return scoring.RawScoreFromJSON([]byte(s.body)), nil
}

func (s *stubEvaluator) SubmitEvaluation(ctx context.Context, req models.EvaluateRequest) ([]scoring.RawScore, error) {
	return nil, nil
}

func TestHandler_ScoreText(t *testing.T) {
	h := NewHandler(&stubEvaluator{body: `{"profanity": 0.02, "violence": 0.0, "jailbreak": "high"}`})

	req := httptest.NewRequest(http.MethodPost, "/api/governance/score", strings.NewReader(`{"text": "hola"}`))
	rec := httptest.NewRecorder()
	h.ScoreText(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var score map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &score); err != nil {
		t.Fatalf("response is not a flat score map: %v", err)
	}
	if score["profanity"] != 0.02 {
		t.Errorf("profanity = %f, want 0.02", score["profanity"])
	}
	if v, ok := score["violence"]; !ok || v != 0 {
		t.Errorf("violence = %f (present=%v): computed zero must stay present", v, ok)
	}
	if _, ok := score["jailbreak"]; ok {
		t.Error("non-numeric jailbreak leaked into the response")
	}
}

func TestHandler_ScoreText_EmptyTextIsLocalError(t *testing.T) {
	h := NewHandler(&stubEvaluator{err: &NetworkError{}})

	req := httptest.NewRequest(http.MethodPost, "/api/governance/score", strings.NewReader(`{"text": "   "}`))
	rec := httptest.NewRecorder()
	h.ScoreText(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without touching the network", rec.Code)
	}

	var resp models.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error == "" {
		t.Error("expected an inline validation message")
	}
}

func TestHandler_ScoreText_ServiceErrorSurfacedVerbatim(t *testing.T) {
	h := NewHandler(&stubEvaluator{err: &ServiceError{Status: 500, Message: "model quota exceeded"}})

	req := httptest.NewRequest(http.MethodPost, "/api/governance/score", strings.NewReader(`{"text": "hola"}`))
	rec := httptest.NewRecorder()
	h.ScoreText(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var resp models.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "model quota exceeded" {
		t.Errorf("error = %q, want the upstream message verbatim", resp.Error)
	}
}

func TestHandler_Latest_TracksMostRecentScore(t *testing.T) {
	stub := &stubEvaluator{body: `{"profanity": 0.02}`}
	h := NewHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/governance/score", strings.NewReader(`{"text": "hola"}`))
	h.ScoreText(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/governance/latest", nil))

	var view scoring.ScoreSlotView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad latest body: %v", err)
	}
	if view.Score["profanity"] != 0.02 || view.Error != "" {
		t.Errorf("latest view = %+v", view)
	}
}
