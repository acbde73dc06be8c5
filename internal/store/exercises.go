package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stefego2-arch/Avatar/internal/exercise"
)

// LoadExercise fetches one exercise by id.
func (s *Store) LoadExercise(ctx context.Context, id string) (*exercise.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lesson_id, phase, statement, answer, difficulty,
			hint1, hint2, hint3, explanation
		 FROM exercises WHERE id = ?`, id)

	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load exercise %q: %w", id, err)
	}
	return ex, nil
}

// PregeneratedExercises returns the stored pool for a lesson phase in
// authored order. It implements exercise.PregenSource.
func (s *Store) PregeneratedExercises(ctx context.Context, lessonID string, phase exercise.Phase) ([]*exercise.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lesson_id, phase, statement, answer, difficulty,
			hint1, hint2, hint3, explanation
		 FROM exercises
		 WHERE lesson_id = ? AND phase = ?
		 ORDER BY position`, lessonID, string(phase))
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var pool []*exercise.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		pool = append(pool, ex)
	}
	return pool, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*exercise.Exercise, error) {
	var (
		ex                  exercise.Exercise
		phase, difficulty   string
		hint1, hint2, hint3 string
	)
	err := row.Scan(&ex.ID, &ex.LessonID, &phase, &ex.Statement, &ex.Answer,
		&difficulty, &hint1, &hint2, &hint3, &ex.Explanation)
	if err != nil {
		return nil, err
	}
	ex.Phase = exercise.Phase(phase)
	ex.Difficulty = exercise.Difficulty(difficulty)
	for _, h := range []string{hint1, hint2, hint3} {
		if h == "" {
			break
		}
		ex.Hints = append(ex.Hints, h)
	}
	return &ex, nil
}
