package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

// BankSource is the read side of the question bank. The manager treats the
// bank as read-only; only the teacher CRUD surface mutates it.
type BankSource interface {
	ListQuestions(ctx context.Context, subject string) ([]quiz.Question, error)
}

// ResultStore is where submitted attempts are filed. Writes may fail without
// affecting the locally computed score.
type ResultStore interface {
	PutResult(ctx context.Context, res quiz.AttemptResult) error
	// ListResults returns a student's attempts, optionally narrowed to one
	// unit label, newest first.
	ListResults(ctx context.Context, studentName, unit string) ([]quiz.AttemptResult, error)
}

// ErrSessionNotFound: the pane ID is unknown (or the service restarted).
var ErrSessionNotFound = errors.New("session not found")

// UnavailableError marks a collaborator read failure so the transport can
// surface it as a cannot-load condition instead of a bad request.
type UnavailableError struct {
	What string
	Err  error
}

func (e UnavailableError) Error() string { return "cannot load " + e.What + ": " + e.Err.Error() }
func (e UnavailableError) Unwrap() error { return e.Err }

// Fault wraps a panic recovered from a state transition. The session it
// occurred on stays usable; callers render a recovery affordance instead of
// tearing the pane down.
type Fault struct{ v any }

func (f Fault) Error() string { return fmt.Sprintf("session fault: %v", f.v) }

// Manager owns all live session panes. Each pane is fully isolated: its own
// instance and answer sheet under its own ID, so a split-screen
// teacher+student preview runs two panes against the same bank safely.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	bank     BankSource
	results  ResultStore
	rng      *rand.Rand
	now      func() time.Time
}

// NewManager wires the manager to its collaborators. src seeds all sampling
// and option shuffling; pass a fixed PCG source in tests to pin permutations.
func NewManager(bank BankSource, results ResultStore, src rand.Source) *Manager {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())
	}
	return &Manager{
		sessions: map[string]*Session{},
		bank:     bank,
		results:  results,
		rng:      rand.New(src),
		now:      time.Now,
	}
}

// Open creates a fresh pane in the setup state.
func (m *Manager) Open() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{ID: uuid.NewString(), State: StateSetup}
	m.sessions[s.ID] = s
	return s
}

// Get returns the pane by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close drops a pane and everything it held.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// StartParams is the setup-screen input for one sitting.
type StartParams struct {
	StudentName string     `json:"student_name"`
	Subject     string     `json:"subject"`
	Scope       quiz.Scope `json:"scope"`
	Count       int        `json:"count"`
}

// Start builds the exam instance and moves the pane into the quiz state.
// Fails with quiz.ErrNoQuestions when the filter matches nothing; the pane
// stays in setup.
func (m *Manager) Start(ctx context.Context, id string, p StartParams) (err error) {
	if p.StudentName == "" {
		return errors.New("student name required")
	}
	bank, err := m.bank.ListQuestions(ctx, p.Subject)
	if err != nil {
		return UnavailableError{What: "question bank", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.recover(&err)

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	instance, err := quiz.BuildInstance(bank, p.Subject, p.Scope, p.Count, m.rng)
	if err != nil {
		return err
	}
	s.Subject = p.Subject
	s.Scope = p.Scope
	return s.begin(p.StudentName, p.Scope.Label(p.Subject), instance)
}

// Progress is the answer-sheet fill level after a recorded answer. It is
// built under the manager lock so callers never touch the live sheet.
type Progress struct {
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
	Fraction float64 `json:"progress"`
	Complete bool    `json:"complete"`
}

// Answer records one choice on the pane's answer sheet and reports the
// resulting progress.
func (m *Manager) Answer(id, questionID string, optionIndex int) (p Progress, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.recover(&err)

	s, ok := m.sessions[id]
	if !ok {
		return Progress{}, ErrSessionNotFound
	}
	if err := s.RecordAnswer(questionID, optionIndex); err != nil {
		return Progress{}, err
	}
	return Progress{
		Answered: s.Answers.Answered(),
		Total:    s.Answers.Total(),
		Fraction: s.Answers.Progress(),
		Complete: s.Answers.Complete(),
	}, nil
}

// Inspect runs fn on the pane under the manager lock. Response views are
// rendered inside fn; the session must not be retained or read after fn
// returns, since other requests mutate it under the same lock.
func (m *Manager) Inspect(id string, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	fn(s)
	return nil
}

// Submit grades the pane's instance and files the attempt. The transition to
// the result state always happens once grading succeeds: a failed write is
// reported on Session.Warning, never by rolling the score back. Submission
// is refused (quiz.ErrIncomplete) while any question is unanswered.
func (m *Manager) Submit(ctx context.Context, id string) (res *Session, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.recover(&err)

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.State != StateQuiz {
		return nil, ErrBadTransition{From: s.State, Op: "submit"}
	}
	outcome, err := quiz.Grade(s.Instance, s.Answers)
	if err != nil {
		return nil, err
	}

	attempt := 1
	improved := false
	prior, histErr := m.results.ListResults(ctx, s.StudentName, s.Unit)
	if histErr != nil {
		log.Printf("session %s: attempt history unavailable: %v", id, histErr)
	} else {
		attempt = len(prior) + 1
		bestPrior := 0
		for _, p := range prior {
			if p.Score > bestPrior {
				bestPrior = p.Score
			}
		}
		improved = len(prior) > 0 && outcome.Score > bestPrior
	}

	record := quiz.AttemptResult{
		ID:             uuid.NewString(),
		StudentName:    s.StudentName,
		Score:          outcome.Score,
		Unit:           s.Unit,
		TotalQuestions: outcome.TotalQuestions,
		CorrectCount:   outcome.CorrectCount,
		Attempt:        attempt,
		Mistakes:       outcome.Mistakes,
		SubmittedAt:    m.now().Unix(),
	}

	warning := ""
	if werr := m.results.PutResult(ctx, record); werr != nil {
		// The visible score stands even when the durable record is lost.
		log.Printf("session %s: attempt save failed: %v", id, werr)
		warning = "成績上傳失敗，本次紀錄可能未保存"
	}
	if err := s.finish(&record, improved, warning); err != nil {
		return nil, err
	}
	return s, nil
}

// Retry re-enters the quiz state with only the missed questions, each
// independently re-shuffled, and a cleared answer sheet.
func (m *Manager) Retry(id string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.recover(&err)

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.State != StateResult {
		return ErrBadTransition{From: s.State, Op: "retry"}
	}
	retry, err := quiz.BuildRetry(s.Instance, s.Answers, m.rng)
	if err != nil {
		return err
	}
	return s.retry(retry)
}

// Reset discards the pane's instance and returns it to setup.
func (m *Manager) Reset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Reset()
	return nil
}

// History navigates to the history list and returns the pane's past
// attempts, newest first. A read failure surfaces as an explicit error, not
// an empty list.
func (m *Manager) History(ctx context.Context, id string) ([]quiz.AttemptResult, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.State == StateHistoryDetail {
		_ = s.Back()
	}
	if s.State != StateHistory {
		if err := s.OpenHistory(); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	name := s.StudentName
	m.mu.Unlock()

	list, err := m.results.ListResults(ctx, name, "")
	if err != nil {
		return nil, UnavailableError{What: "results", Err: err}
	}
	return list, nil
}

// HistoryDetail navigates to the review of one past attempt.
func (m *Manager) HistoryDetail(id string, item quiz.AttemptResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return s.OpenHistoryDetail(item)
}

// Back steps one navigation level up and reports the state landed in.
func (m *Manager) Back(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	if err := s.Back(); err != nil {
		return "", err
	}
	return s.State, nil
}

// recover converts a transition panic into a Fault error so one broken pane
// never takes the process down.
func (m *Manager) recover(err *error) {
	if v := recover(); v != nil {
		log.Printf("session transition fault: %v", v)
		*err = Fault{v: v}
	}
}
