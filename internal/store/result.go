package store

import (
	"context"
	"fmt"
	"time"
)

// SessionResult is the persisted outcome of one lesson run. Aborted runs
// are saved too, marked incomplete.
type SessionResult struct {
	ID              string
	UserID          string
	LessonID        string
	StartedAt       time.Time
	Duration        time.Duration
	Score           int
	PracticeScore   int
	AssessmentScore int
	Answers         int
	Correct         int
	Completed       bool
	Aborted         bool
}

// SaveSessionResult persists a finished or aborted session.
func (s *Store) SaveSessionResult(ctx context.Context, r *SessionResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_results
			(id, user_id, lesson_id, started_at, duration_sec, score,
			 practice_score, assessment_score, answers, correct, completed, aborted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.LessonID, r.StartedAt, int(r.Duration.Seconds()),
		r.Score, r.PracticeScore, r.AssessmentScore, r.Answers, r.Correct,
		boolInt(r.Completed), boolInt(r.Aborted))
	if err != nil {
		return fmt.Errorf("save session result: %w", err)
	}
	return nil
}

// SessionResults returns a user's past results, most recent first.
func (s *Store) SessionResults(ctx context.Context, userID string, limit int) ([]*SessionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, lesson_id, started_at, duration_sec, score,
			practice_score, assessment_score, answers, correct, completed, aborted
		 FROM session_results
		 WHERE user_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	var results []*SessionResult
	for rows.Next() {
		var (
			r                  SessionResult
			durationSec        int
			completed, aborted int
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.LessonID, &r.StartedAt,
			&durationSec, &r.Score, &r.PracticeScore, &r.AssessmentScore,
			&r.Answers, &r.Correct, &completed, &aborted); err != nil {
			return nil, fmt.Errorf("scan session result: %w", err)
		}
		r.Duration = time.Duration(durationSec) * time.Second
		r.Completed = completed != 0
		r.Aborted = aborted != 0
		results = append(results, &r)
	}
	return results, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
