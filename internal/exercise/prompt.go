package exercise

import (
	"fmt"
	"strings"
)

const generatorSystemPrompt = `You are an exercise author for a one-on-one tutoring program for primary school children. You write short, clear exercises with unambiguous single answers.

Rules:
- Every exercise has exactly one correct answer, expressible in a few words or a number.
- Hints never state the answer; they get progressively more specific.
- The explanation is a short worked solution a child can follow.
- Plain text only. No markdown, no numbering.`

// buildBatchMessage assembles the user message for a batch request.
func buildBatchMessage(req BatchRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %d %s exercises.\n\n", req.Count, req.Phase)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	fmt.Fprintf(&b, "Grade: %d\n", req.Grade)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)

	if req.TheoryContext != "" {
		b.WriteString("\nThe lesson taught this material:\n")
		b.WriteString(req.TheoryContext)
		b.WriteString("\n")
	}

	switch req.Phase {
	case PhaseAssessment:
		b.WriteString("\nThese are assessment exercises: hints are never shown, so hint quality matters less than statement clarity.")
	default:
		b.WriteString("\nThese are practice exercises: write all three hints so a struggling learner can get progressively closer.")
	}

	return b.String()
}
