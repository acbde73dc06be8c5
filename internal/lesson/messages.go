package lesson

// Spoken message banks. Picks rotate deterministically so tests and
// repeated runs are predictable.

var encouragementMessages = []string{
	"Hey, are you with me?",
	"Let's look at this together.",
	"Come back, we're almost there!",
}

var praiseMessages = []string{
	"Well done!",
	"That's right, great job!",
	"Exactly!",
}

var phaseIntros = map[Phase]string{
	PhasePractice:   "Time to practice. I'll help you with hints if you get stuck.",
	PhaseAssessment: "Now let's see what you've learned. No hints this time, just do your best.",
	PhaseComplete:   "That's the whole lesson. Great work today!",
}

func (s *Session) nextEncouragement() string {
	msg := encouragementMessages[s.encourageIdx%len(encouragementMessages)]
	s.encourageIdx++
	return msg
}

func (s *Session) nextPraise() string {
	msg := praiseMessages[s.praiseIdx%len(praiseMessages)]
	s.praiseIdx++
	return msg
}
