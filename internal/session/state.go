package session

import (
	"fmt"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// State is the student-facing flow position of one session pane.
type State string

const (
	StateSetup         State = "setup"
	StateQuiz          State = "quiz"
	StateResult        State = "result"
	StateHistory       State = "history"
	StateHistoryDetail State = "history_detail"
)

// ErrBadTransition is returned when an operation is not legal in the
// session's current state.
type ErrBadTransition struct {
	From State
	Op   string
}

func (e ErrBadTransition) Error() string {
	return fmt.Sprintf("operation %q not allowed in state %q", e.Op, e.From)
}

// Session holds the in-memory state of one quiz sitting: the concrete exam
// instance, the answer sheet, and the flow position. Nothing here survives a
// service restart; an in-flight quiz cannot be resumed, matching the
// no-auto-save model. Two panes opened side by side each get their own
// Session keyed by ID, so they never interfere.
type Session struct {
	ID          string
	State       State
	StudentName string

	Subject string
	Scope   quiz.Scope
	Unit    string

	Instance []quiz.ExamQuestion
	Answers  *quiz.AnswerSheet

	// Populated on submission.
	Result   *quiz.AttemptResult
	Improved bool
	Warning  string // non-fatal persistence problem, surfaced to the user

	// Populated while reviewing one past attempt.
	HistoryItem *quiz.AttemptResult
}

// begin moves setup → quiz with a freshly built instance. The caller has
// already resolved the student name and built a non-empty instance.
func (s *Session) begin(name, unit string, instance []quiz.ExamQuestion) error {
	if s.State != StateSetup {
		return ErrBadTransition{From: s.State, Op: "start"}
	}
	s.StudentName = name
	s.Unit = unit
	s.Instance = instance
	s.Answers = quiz.NewAnswerSheet(len(instance))
	s.Result = nil
	s.Improved = false
	s.Warning = ""
	s.State = StateQuiz
	return nil
}

// RecordAnswer stores a chosen option while in the quiz state. Last write
// wins; answering the same question again simply replaces the choice.
func (s *Session) RecordAnswer(questionID string, optionIndex int) error {
	if s.State != StateQuiz {
		return ErrBadTransition{From: s.State, Op: "answer"}
	}
	var found *quiz.ExamQuestion
	for i := range s.Instance {
		if s.Instance[i].ID == questionID {
			found = &s.Instance[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("question %s is not part of this exam", questionID)
	}
	if optionIndex < 0 || optionIndex >= len(found.Options) {
		return fmt.Errorf("option index %d out of range", optionIndex)
	}
	s.Answers.Record(questionID, optionIndex)
	return nil
}

// finish moves quiz → result once grading and persistence have run.
func (s *Session) finish(res *quiz.AttemptResult, improved bool, warning string) error {
	if s.State != StateQuiz {
		return ErrBadTransition{From: s.State, Op: "submit"}
	}
	s.Result = res
	s.Improved = improved
	s.Warning = warning
	s.State = StateResult
	return nil
}

// retry moves result → quiz with the re-shuffled mistake subset and a reset
// answer sheet. Scoring of the retry is independent of the original attempt.
func (s *Session) retry(instance []quiz.ExamQuestion) error {
	if s.State != StateResult {
		return ErrBadTransition{From: s.State, Op: "retry"}
	}
	s.Instance = instance
	s.Answers = quiz.NewAnswerSheet(len(instance))
	s.Result = nil
	s.Improved = false
	s.Warning = ""
	s.State = StateQuiz
	return nil
}

// Reset returns to setup from anywhere, discarding the current instance and
// answers. The resolved student name is kept for the next sitting.
func (s *Session) Reset() {
	s.Instance = nil
	s.Answers = nil
	s.Result = nil
	s.Improved = false
	s.Warning = ""
	s.HistoryItem = nil
	s.State = StateSetup
}

// OpenHistory navigates setup → history. Pure navigation: the (absent)
// instance is untouched.
func (s *Session) OpenHistory() error {
	if s.State != StateSetup {
		return ErrBadTransition{From: s.State, Op: "history"}
	}
	if s.StudentName == "" {
		return fmt.Errorf("student name not resolved")
	}
	s.State = StateHistory
	return nil
}

// OpenHistoryDetail navigates history → history_detail for one past attempt.
func (s *Session) OpenHistoryDetail(item quiz.AttemptResult) error {
	if s.State != StateHistory {
		return ErrBadTransition{From: s.State, Op: "history_detail"}
	}
	s.HistoryItem = &item
	s.State = StateHistoryDetail
	return nil
}

// Back steps history_detail → history or history → setup.
func (s *Session) Back() error {
	switch s.State {
	case StateHistoryDetail:
		s.HistoryItem = nil
		s.State = StateHistory
		return nil
	case StateHistory:
		s.State = StateSetup
		return nil
	default:
		return ErrBadTransition{From: s.State, Op: "back"}
	}
}
