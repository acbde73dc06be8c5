package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/stefego2-arch/Avatar/internal/exercise"
)

// lessonFile is the on-disk authoring format, one JSON document per
// lesson.
type lessonFile struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Subject   string             `json:"subject"`
	Grade     int                `json:"grade"`
	Topic     string             `json:"topic"`
	Theory    string             `json:"theory"`
	Exercises []exerciseFileItem `json:"exercises"`
}

type exerciseFileItem struct {
	Phase       string   `json:"phase"`
	Statement   string   `json:"statement"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Hints       []string `json:"hints,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// ReadLessonFile parses an authored lesson document. Exercises without
// an explicit difficulty default to medium; ids are assigned on import.
func ReadLessonFile(path string) (*Lesson, []*exercise.Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read lesson file: %w", err)
	}

	var lf lessonFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, nil, fmt.Errorf("parse lesson file %s: %w", path, err)
	}
	if lf.ID == "" || lf.Title == "" || lf.Theory == "" {
		return nil, nil, fmt.Errorf("lesson file %s: id, title, and theory are required", path)
	}

	l := &Lesson{
		ID:      lf.ID,
		Title:   lf.Title,
		Subject: lf.Subject,
		Grade:   lf.Grade,
		Topic:   lf.Topic,
		Theory:  lf.Theory,
	}

	exercises := make([]*exercise.Exercise, 0, len(lf.Exercises))
	for i, item := range lf.Exercises {
		diff := exercise.Difficulty(item.Difficulty)
		if item.Difficulty == "" {
			diff = exercise.DifficultyMedium
		}
		ex := &exercise.Exercise{
			ID:          uuid.NewString(),
			LessonID:    lf.ID,
			Phase:       exercise.Phase(item.Phase),
			Statement:   item.Statement,
			Answer:      item.Answer,
			Difficulty:  diff,
			Hints:       item.Hints,
			Explanation: item.Explanation,
		}
		if err := ex.Validate(); err != nil {
			return nil, nil, fmt.Errorf("lesson file %s, exercise %d: %w", path, i+1, err)
		}
		exercises = append(exercises, ex)
	}

	return l, exercises, nil
}
