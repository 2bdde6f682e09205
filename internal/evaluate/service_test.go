package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/beelink/governance-backend/internal/corrector"
	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
)

type fakeEvaluator struct {
	rows []scoring.RawScore
	err  error
	got  models.EvaluateRequest
}

func (f *fakeEvaluator) ScoreText(ctx context.Context, text string) (scoring.RawScore, error) {
	if f.err != nil {
		return scoring.RawScore{}, f.err
	}
	if len(f.rows) == 0 {
		return scoring.RawScore{}, nil
	}
	return f.rows[0], nil
}

func (f *fakeEvaluator) SubmitEvaluation(ctx context.Context, req models.EvaluateRequest) ([]scoring.RawScore, error) {
	f.got = req
	return f.rows, f.err
}

type fakeExercises struct {
	exercise models.Exercise
	err      error
}

func (f *fakeExercises) DefaultExercise() (models.Exercise, error) {
	return f.exercise, f.err
}

func testCorrector() *corrector.Corrector {
	return corrector.New(corrector.NewMockClient(), 0)
}

func TestWithDefaultsFillsMissingFields(t *testing.T) {
	exercises := &fakeExercises{exercise: models.Exercise{
		Objective: "contexto de referencia",
		Quiz: []models.QuizItem{
			{Question: "¿Quién?", IdealAnswer: "Guillermo Treister."},
		},
	}}
	svc := NewService(&fakeEvaluator{}, testCorrector(), exercises)

	req := svc.WithDefaults(models.EvaluateRequest{})
	if len(req.Quiz) != 1 {
		t.Fatalf("expected default quiz, got %d items", len(req.Quiz))
	}
	if req.Context != "contexto de referencia" {
		t.Errorf("expected default context, got %q", req.Context)
	}
	if req.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("expected default system prompt, got %q", req.SystemPrompt)
	}
}

func TestWithDefaultsKeepsProvidedFields(t *testing.T) {
	exercises := &fakeExercises{exercise: models.Exercise{
		Objective: "default context",
		Quiz:      []models.QuizItem{{Question: "default"}},
	}}
	svc := NewService(&fakeEvaluator{}, testCorrector(), exercises)

	req := svc.WithDefaults(models.EvaluateRequest{
		Quiz:         []models.QuizItem{{Question: "mine", IdealAnswer: "yes"}},
		Context:      "my context",
		SystemPrompt: "my prompt",
	})
	if req.Quiz[0].Question != "mine" || req.Context != "my context" || req.SystemPrompt != "my prompt" {
		t.Errorf("provided fields should survive defaulting: %+v", req)
	}
}

func TestEvaluateScoringFailureDiscardsCycle(t *testing.T) {
	svc := NewService(&fakeEvaluator{err: errors.New("boom")}, testCorrector(), &fakeExercises{})

	results, err := svc.Evaluate(context.Background(), models.EvaluateRequest{
		Quiz:    []models.QuizItem{{Question: "q1"}, {Question: "q2"}},
		Answers: []string{"a1", "a2"},
	})
	if err == nil {
		t.Fatal("expected error from scoring failure")
	}
	if results != nil {
		t.Errorf("expected no partial results, got %d", len(results))
	}
}

func TestEvaluatePairsAndCorrects(t *testing.T) {
	evaluator := &fakeEvaluator{rows: []scoring.RawScore{
		scoring.RawScoreFromJSON([]byte(`{"answer_similarity": 0.9, "faithfulness": 1.3, "hap_flag": true, "hap_labels": ["abuse"]}`)),
	}}
	svc := NewService(evaluator, testCorrector(), &fakeExercises{})

	results, err := svc.Evaluate(context.Background(), models.EvaluateRequest{
		Quiz:    []models.QuizItem{{Question: "q1"}, {Question: "q2"}},
		Answers: []string{"a1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected one result per quiz item, got %d", len(results))
	}

	first := results[0]
	if first.Metrics["answer_similarity"] != 0.9 {
		t.Errorf("expected answer_similarity 0.9, got %v", first.Metrics["answer_similarity"])
	}
	if first.Metrics["faithfulness"] != 1.0 {
		t.Errorf("expected faithfulness clamped to 1, got %v", first.Metrics["faithfulness"])
	}
	if !first.Flags.HAP || len(first.Flags.HAPLabels) != 1 {
		t.Errorf("expected hap flag with one label: %+v", first.Flags)
	}
	if first.Correction.Verdict == nil {
		t.Error("expected a correction verdict from the mock corrector")
	}

	// Second quiz item had no score row: empty metrics, no flags, still corrected.
	second := results[1]
	if len(second.Metrics) != 0 {
		t.Errorf("expected empty metrics for unscored item, got %v", second.Metrics)
	}
	if second.Flags.HAP {
		t.Error("unscored item should not carry flags")
	}
	if second.Correction.Verdict == nil {
		t.Error("expected a correction for the unscored item too")
	}
}

func TestEvaluateForwardsRequestToEvaluator(t *testing.T) {
	evaluator := &fakeEvaluator{}
	svc := NewService(evaluator, testCorrector(), &fakeExercises{})

	req := models.EvaluateRequest{
		Quiz:    []models.QuizItem{{Question: "q1", IdealAnswer: "ideal"}},
		Answers: []string{"a1"},
		Context: "ctx",
	}
	if _, err := svc.Evaluate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluator.got.Context != "ctx" || len(evaluator.got.Quiz) != 1 {
		t.Errorf("evaluator did not receive the request: %+v", evaluator.got)
	}
}
