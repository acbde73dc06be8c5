package exercise

import "github.com/stefego2-arch/Avatar/internal/llm"

// BatchSchema is the JSON schema the generator backend must satisfy.
// Hints are three flat fields, matching the remote generator contract;
// unused hints come back empty.
var BatchSchema = &llm.Schema{
	Name:        "exercise-batch",
	Description: "An ordered batch of exercises for one lesson phase",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"statement": map[string]any{
							"type":        "string",
							"description": "The exercise prompt shown and read to the learner",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The canonical correct answer",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"hint1": map[string]any{
							"type":        "string",
							"description": "First, vaguest hint (empty if none)",
						},
						"hint2": map[string]any{
							"type":        "string",
							"description": "Second, more specific hint (empty if none)",
						},
						"hint3": map[string]any{
							"type":        "string",
							"description": "Third, most specific hint (empty if none)",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief worked solution shown after the answer is revealed",
						},
					},
					"required":             []any{"statement", "answer", "difficulty", "hint1", "hint2", "hint3", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"exercises"},
		"additionalProperties": false,
	},
}
