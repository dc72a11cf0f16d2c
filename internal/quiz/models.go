package quiz

import "errors"

// OptionCount is the fixed number of choices on every bank question.
const OptionCount = 4

// Subjects and Volumes are the fixed classification axes of the bank.
var Subjects = []string{"國文", "英語", "數學", "自然", "地理", "歷史", "公民", "其他"}

var Volumes = []string{"第一冊", "第二冊", "第三冊", "第四冊", "第五冊", "第六冊", "總複習", "不分冊"}

// Question is one bank entry, owned by the teacher role.
type Question struct {
	ID           string   `json:"id"`
	Subject      string   `json:"subject"`
	Volume       string   `json:"volume"`
	Unit         string   `json:"unit"`
	Content      string   `json:"content"`
	Options      []string `json:"options"`
	OptionImages []string `json:"option_images,omitempty"` // index-aligned with Options
	CorrectIndex int      `json:"correct_index"`
	ImageURL     string   `json:"image_url,omitempty"`
	Rationale    string   `json:"rationale,omitempty"`
	CreatedAt    int64    `json:"created_at,omitempty"`
	CreatedBy    string   `json:"created_by,omitempty"`
}

// ExamQuestion is a Question after option shuffling. It exists only for the
// lifetime of one exam instance and is never persisted as-is.
type ExamQuestion = Question

// Unanswered is the chosen-index sentinel for a question the student never
// answered. It is never a correct answer.
const Unanswered = -1

// Mistake is the stored snapshot of one incorrectly answered (or skipped)
// question, with options exactly as they were presented.
type Mistake struct {
	QuestionID         string   `json:"question_id"`
	Content            string   `json:"content"`
	Options            []string `json:"options"`
	OptionImages       []string `json:"option_images,omitempty"`
	CorrectIndex       int      `json:"correct_index"`
	StudentAnswerIndex int      `json:"student_answer_index"` // Unanswered if skipped
	ImageURL           string   `json:"image_url,omitempty"`
	Rationale          string   `json:"rationale,omitempty"`
}

// AttemptResult is one completed, scored sitting. Immutable once stored;
// the teacher may delete it but never edit it.
type AttemptResult struct {
	ID             string    `json:"id"`
	StudentName    string    `json:"student_name"`
	Score          int       `json:"score"` // 0–100
	Unit           string    `json:"unit"`
	TotalQuestions int       `json:"total_questions"`
	CorrectCount   int       `json:"correct_count"`
	Attempt        int       `json:"attempt"` // ordinal for this student+unit, 1-based
	Mistakes       []Mistake `json:"mistakes"`
	SubmittedAt    int64     `json:"submitted_at"`
}

// GlobalSettings is the single teacher-managed configuration record.
type GlobalSettings struct {
	RevealThreshold int `json:"reveal_threshold"` // 0–100
}

// DefaultSettings mirrors the threshold a fresh deployment starts with.
func DefaultSettings() GlobalSettings { return GlobalSettings{RevealThreshold: 60} }

// RosterEntry maps a student ID to the display name auto-filled at login.
type RosterEntry struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

var (
	// ErrNoQuestions: the instance builder found zero questions matching
	// the requested filter. No exam is built.
	ErrNoQuestions = errors.New("no questions available for the requested scope")

	// ErrIncomplete: submission attempted before every question was answered.
	ErrIncomplete = errors.New("answer sheet incomplete")
)

// Validate checks the bank invariants: exactly four options, none blank,
// and a correct index inside the option range.
func (q Question) Validate() error {
	if q.Content == "" {
		return errors.New("question content required")
	}
	if q.Unit == "" {
		return errors.New("unit label required")
	}
	if len(q.Options) != OptionCount {
		return errors.New("question must have exactly 4 options")
	}
	for _, opt := range q.Options {
		if opt == "" {
			return errors.New("question options must be non-empty")
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return errors.New("correct index out of range")
	}
	if q.OptionImages != nil && len(q.OptionImages) != len(q.Options) {
		return errors.New("option images must align with options")
	}
	return nil
}
