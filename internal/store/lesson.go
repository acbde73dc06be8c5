package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/stefego2-arch/Avatar/internal/exercise"
)

// ErrNotFound is returned when a lesson or exercise id does not exist.
var ErrNotFound = errors.New("not found")

// Lesson is the authored lesson script plus metadata.
type Lesson struct {
	ID      string
	Title   string
	Subject string
	Grade   int
	Topic   string
	Theory  string
}

// TheoryChunks splits the theory text into narration chunks, one per
// paragraph (blank-line separated).
func (l *Lesson) TheoryChunks() []string {
	var chunks []string
	for _, part := range strings.Split(l.Theory, "\n\n") {
		if p := strings.TrimSpace(part); p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks
}

// LoadLesson fetches one lesson by id.
func (s *Store) LoadLesson(ctx context.Context, id string) (*Lesson, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, subject, grade, topic, theory FROM lessons WHERE id = ?`, id)

	var l Lesson
	err := row.Scan(&l.ID, &l.Title, &l.Subject, &l.Grade, &l.Topic, &l.Theory)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load lesson %q: %w", id, err)
	}
	return &l, nil
}

// ListLessons returns all lessons ordered by subject then grade.
func (s *Store) ListLessons(ctx context.Context) ([]*Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subject, grade, topic, theory FROM lessons ORDER BY subject, grade, title`)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Subject, &l.Grade, &l.Topic, &l.Theory); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, &l)
	}
	return lessons, rows.Err()
}

// ImportLesson writes a lesson and its pregenerated exercises in one
// transaction, replacing any previous version with the same id.
func (s *Store) ImportLesson(ctx context.Context, l *Lesson, exercises []*exercise.Exercise) error {
	for _, ex := range exercises {
		if err := ex.Validate(); err != nil {
			return fmt.Errorf("import lesson %q: %w", l.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM exercises WHERE lesson_id = ?`, l.ID); err != nil {
		return fmt.Errorf("clear exercises: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lessons (id, title, subject, grade, topic, theory)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, subject = excluded.subject,
			grade = excluded.grade, topic = excluded.topic,
			theory = excluded.theory`,
		l.ID, l.Title, l.Subject, l.Grade, l.Topic, l.Theory); err != nil {
		return fmt.Errorf("upsert lesson: %w", err)
	}

	for i, ex := range exercises {
		h := paddedHints(ex.Hints)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exercises
				(id, lesson_id, phase, position, statement, answer, difficulty,
				 hint1, hint2, hint3, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ex.ID, l.ID, string(ex.Phase), i, ex.Statement, ex.Answer,
			string(ex.Difficulty), h[0], h[1], h[2], ex.Explanation); err != nil {
			return fmt.Errorf("insert exercise %q: %w", ex.ID, err)
		}
	}

	return tx.Commit()
}

func paddedHints(hints []string) [3]string {
	var h [3]string
	for i := 0; i < len(hints) && i < 3; i++ {
		h[i] = hints[i]
	}
	return h
}
