package exercise

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/beelink/governance-backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DefaultExercise loads the seeded exercise marked is_default, with its
// source links and quiz items in position order. The objective column holds
// the grading context shown to the scorer.
func (s *Store) DefaultExercise() (models.Exercise, error) {
	var ex models.Exercise
	var id int64
	err := s.db.QueryRow(
		`SELECT id, topic, objective FROM exercises WHERE is_default = TRUE LIMIT 1`,
	).Scan(&id, &ex.Topic, &ex.Objective)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("load default exercise: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT url FROM exercise_sources WHERE exercise_id = $1 ORDER BY id`, id,
	)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("load exercise sources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return models.Exercise{}, fmt.Errorf("scan source: %w", err)
		}
		ex.UsedSources = append(ex.UsedSources, url)
	}
	if err := rows.Err(); err != nil {
		return models.Exercise{}, fmt.Errorf("iterate sources: %w", err)
	}

	qrows, err := s.db.Query(
		`SELECT question, ideal_answer, source_ids FROM quiz_items
		 WHERE exercise_id = $1 ORDER BY position`, id,
	)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("load quiz items: %w", err)
	}
	defer qrows.Close()
	for qrows.Next() {
		var item models.QuizItem
		var sourceIDs sql.NullString
		if err := qrows.Scan(&item.Question, &item.IdealAnswer, &sourceIDs); err != nil {
			return models.Exercise{}, fmt.Errorf("scan quiz item: %w", err)
		}
		if sourceIDs.Valid && sourceIDs.String != "" {
			item.SourceIDs = strings.Split(sourceIDs.String, ",")
		}
		ex.Quiz = append(ex.Quiz, item)
	}
	if err := qrows.Err(); err != nil {
		return models.Exercise{}, fmt.Errorf("iterate quiz items: %w", err)
	}

	return ex, nil
}
