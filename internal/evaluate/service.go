package evaluate

import (
	"context"
	"fmt"

	"github.com/beelink/governance-backend/internal/corrector"
	"github.com/beelink/governance-backend/internal/governance"
	"github.com/beelink/governance-backend/internal/models"
	"github.com/beelink/governance-backend/internal/scoring"
)

// DefaultSystemPrompt matches the deployed demo's default; the frontend can
// override it per submission.
const DefaultSystemPrompt = "Eres un asistente útil y seguro. Responde con precisión y sin divulgar datos sensibles."

// ExerciseSource supplies the stored default exercise used to fill in
// missing request fields.
type ExerciseSource interface {
	DefaultExercise() (models.Exercise, error)
}

type Service struct {
	evaluator governance.Evaluator
	corrector *corrector.Corrector
	exercises ExerciseSource
}

func NewService(evaluator governance.Evaluator, corr *corrector.Corrector, exercises ExerciseSource) *Service {
	return &Service{evaluator: evaluator, corrector: corr, exercises: exercises}
}

// WithDefaults fills missing quiz/context/system prompt from the stored
// default exercise, mirroring what the original service accepted. The
// submission guard runs against the returned request, after defaulting.
func (s *Service) WithDefaults(req models.EvaluateRequest) models.EvaluateRequest {
	if len(req.Quiz) == 0 || req.Context == "" {
		if exercise, err := s.exercises.DefaultExercise(); err == nil {
			if len(req.Quiz) == 0 {
				req.Quiz = exercise.Quiz
			}
			if req.Context == "" {
				req.Context = exercise.Objective
			}
		}
	}
	if req.SystemPrompt == "" {
		req.SystemPrompt = DefaultSystemPrompt
	}
	return req
}

// Evaluate runs one submission cycle: a single batched scoring call for the
// whole quiz, then a sequential correction pass. A scoring failure discards
// the cycle entirely — no partial results. Correction failures degrade per
// item instead, because the metrics are still worth showing.
func (s *Service) Evaluate(ctx context.Context, req models.EvaluateRequest) ([]models.ResultItem, error) {
	rows, err := s.evaluator.SubmitEvaluation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit evaluation: %w", err)
	}

	paired := scoring.PairResults(req.Quiz, rows, scoring.GovernanceCatalog())

	results := make([]models.ResultItem, len(req.Quiz))
	for i, q := range req.Quiz {
		answer := ""
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}

		results[i] = models.ResultItem{
			Metrics:    paired[i].Score,
			Correction: s.corrector.Correct(ctx, q.Question, answer, req.Context, req.SystemPrompt),
		}
		if i < len(rows) {
			results[i].Flags = scoring.ExtractFlags(rows[i])
		}
	}

	return results, nil
}
