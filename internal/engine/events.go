package engine

// Event is a learner action delivered from the presentation surface.
// Events are buffered and consumed at the next tick boundary.
type Event interface{ isEvent() }

// AnswerEvent submits an answer for the current exercise.
type AnswerEvent struct {
	Text string
}

// RetryPhaseEvent restarts the current phase from its beginning.
type RetryPhaseEvent struct{}

// AbortEvent ends the lesson early. The session result is still saved,
// marked incomplete.
type AbortEvent struct{}

func (AnswerEvent) isEvent()     {}
func (RetryPhaseEvent) isEvent() {}
func (AbortEvent) isEvent()      {}
