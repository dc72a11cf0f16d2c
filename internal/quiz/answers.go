package quiz

// AnswerSheet tracks the student's chosen option per question for one exam
// instance. It starts empty and is thrown away (never persisted) when the
// instance ends; a fresh exam or a retry always gets a new sheet.
type AnswerSheet struct {
	total  int
	chosen map[string]int
}

// NewAnswerSheet returns an empty sheet for an instance of total questions.
func NewAnswerSheet(total int) *AnswerSheet {
	return &AnswerSheet{total: total, chosen: make(map[string]int, total)}
}

// Record stores the chosen option for a question. Single-choice semantics:
// a later answer overwrites the earlier one, no history is kept.
func (s *AnswerSheet) Record(questionID string, optionIndex int) {
	s.chosen[questionID] = optionIndex
}

// Chosen returns the recorded option index, or Unanswered.
func (s *AnswerSheet) Chosen(questionID string) int {
	if ix, ok := s.chosen[questionID]; ok {
		return ix
	}
	return Unanswered
}

// Answered reports how many questions have an entry.
func (s *AnswerSheet) Answered() int { return len(s.chosen) }

// Total reports the instance size the sheet was created for.
func (s *AnswerSheet) Total() int { return s.total }

// Progress returns the answered fraction in [0,1].
func (s *AnswerSheet) Progress() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(len(s.chosen)) / float64(s.total)
}

// Complete reports whether every question has an answer. Submission is only
// permitted once this is true.
func (s *AnswerSheet) Complete() bool { return len(s.chosen) >= s.total }
