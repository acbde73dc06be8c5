package exercise

import (
	"strconv"
	"strings"
)

// CheckAnswer compares the learner's input against the canonical answer.
//
// Normalization rules:
//   - leading/trailing whitespace is trimmed, runs of inner whitespace
//     collapse to one space
//   - comparison is case-insensitive
//   - numeric answers compare by value ("07" matches "7", "3.50"
//     matches "3.5")
func CheckAnswer(learnerAnswer string, ex *Exercise) bool {
	learner := normalize(learnerAnswer)
	if learner == "" {
		return false
	}
	canonical := normalize(ex.Answer)

	if learner == canonical {
		return true
	}

	// Fall back to numeric comparison when both sides parse.
	lv, lerr := strconv.ParseFloat(learner, 64)
	cv, cerr := strconv.ParseFloat(canonical, 64)
	if lerr == nil && cerr == nil {
		return lv == cv
	}

	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
