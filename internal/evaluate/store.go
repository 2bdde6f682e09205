package evaluate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beelink/governance-backend/internal/models"
)

// Store persists finished evaluations for the history listing.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveEvaluation(sessionName string, req models.EvaluateRequest, results []models.ResultItem) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin evaluation tx: %w", err)
	}
	defer tx.Rollback()

	var evaluationID int64
	err = tx.QueryRow(
		`INSERT INTO evaluations (session_name, context_text, system_prompt, normalize_answers, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sessionName, req.Context, req.SystemPrompt, req.ShouldNormalize(), time.Now(),
	).Scan(&evaluationID)
	if err != nil {
		return 0, fmt.Errorf("insert evaluation: %w", err)
	}

	for i, result := range results {
		metrics, err := json.Marshal(result.Metrics)
		if err != nil {
			return 0, fmt.Errorf("encode metrics for item %d: %w", i, err)
		}

		answer := ""
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}

		_, err = tx.Exec(
			`INSERT INTO evaluation_results
			 (evaluation_id, position, question, ideal_answer, user_answer, metrics, verdict, explanation, improved_answer)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			evaluationID, i, req.Quiz[i].Question, req.Quiz[i].IdealAnswer, answer,
			metrics, result.Correction.Verdict, result.Correction.Explanation, result.Correction.ImprovedAnswer,
		)
		if err != nil {
			return 0, fmt.Errorf("insert evaluation result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit evaluation: %w", err)
	}
	return evaluationID, nil
}

// ListRecent returns the newest evaluations first. Mean score is the
// average stored answer_similarity across the evaluation's items.
func (s *Store) ListRecent(limit int) ([]models.EvaluationSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT e.id, e.session_name, COUNT(r.id),
		        COALESCE(AVG((r.metrics->>'answer_similarity')::float), 0),
		        e.created_at
		 FROM evaluations e
		 LEFT JOIN evaluation_results r ON r.evaluation_id = e.id
		 GROUP BY e.id
		 ORDER BY e.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var summaries []models.EvaluationSummary
	for rows.Next() {
		var summary models.EvaluationSummary
		var createdAt time.Time
		if err := rows.Scan(&summary.ID, &summary.SessionName, &summary.QuestionCount, &summary.MeanScore, &createdAt); err != nil {
			return nil, fmt.Errorf("scan evaluation summary: %w", err)
		}
		summary.CreatedAt = createdAt.Format(time.RFC3339)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
