package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/cloud-quiz/quizmaster/internal/auth/middleware"
	"github.com/cloud-quiz/quizmaster/internal/quiz"
	"github.com/cloud-quiz/quizmaster/internal/rbac"
	"github.com/cloud-quiz/quizmaster/internal/session"
	"github.com/cloud-quiz/quizmaster/internal/store"
)

// Session pane endpoints. A pane is one independent quiz sitting; opening
// two panes side by side gives the split-screen teacher+student preview,
// isolated by construction.

// questionView is an exam question as the student may see it mid-quiz:
// no correct index, no rationale.
type questionView struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Options      []string `json:"options"`
	OptionImages []string `json:"option_images,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

type reviewView struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Options      []string `json:"options"`
	OptionImages []string `json:"option_images,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	YourAnswer   int      `json:"your_answer"`
	Correct      bool     `json:"correct"`
	// Present only when the reveal policy allows.
	CorrectIndex *int   `json:"correct_index,omitempty"`
	Rationale    string `json:"rationale,omitempty"`
}

type resultView struct {
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	CorrectCount   int          `json:"correct_count"`
	Attempt        int          `json:"attempt"`
	Improved       bool         `json:"improved"`
	Warning        string       `json:"warning,omitempty"`
	Reveal         bool         `json:"reveal"`
	Threshold      int          `json:"reveal_threshold"`
	Review         []reviewView `json:"review,omitempty"`
}

type sessionView struct {
	ID          string         `json:"id"`
	State       session.State  `json:"state"`
	StudentName string         `json:"student_name,omitempty"`
	Unit        string         `json:"unit,omitempty"`
	Answered    int            `json:"answered"`
	Total       int            `json:"total"`
	Progress    float64        `json:"progress"`
	Questions   []questionView `json:"questions,omitempty"`
	Result      *resultView    `json:"result,omitempty"`
}

func viewOf(s *session.Session, gs quiz.GlobalSettings) sessionView {
	v := sessionView{
		ID:          s.ID,
		State:       s.State,
		StudentName: s.StudentName,
		Unit:        s.Unit,
	}
	if s.Answers != nil {
		v.Answered = s.Answers.Answered()
		v.Total = s.Answers.Total()
		v.Progress = s.Answers.Progress()
	}
	switch s.State {
	case session.StateQuiz:
		for _, q := range s.Instance {
			v.Questions = append(v.Questions, questionView{
				ID: q.ID, Content: q.Content, Options: q.Options,
				OptionImages: q.OptionImages, ImageURL: q.ImageURL,
			})
		}
	case session.StateResult:
		if s.Result != nil {
			v.Result = resultViewOf(s, gs)
		}
	}
	return v
}

func resultViewOf(s *session.Session, gs quiz.GlobalSettings) *resultView {
	reveal := quiz.Reveal(s.Result.Score, gs)
	rv := &resultView{
		Score:          s.Result.Score,
		TotalQuestions: s.Result.TotalQuestions,
		CorrectCount:   s.Result.CorrectCount,
		Attempt:        s.Result.Attempt,
		Improved:       s.Improved,
		Warning:        s.Warning,
		Reveal:         reveal,
		Threshold:      gs.RevealThreshold,
	}
	for _, q := range s.Instance {
		chosen := s.Answers.Chosen(q.ID)
		item := reviewView{
			ID: q.ID, Content: q.Content, Options: q.Options,
			OptionImages: q.OptionImages, ImageURL: q.ImageURL,
			YourAnswer: chosen,
			Correct:    chosen == q.CorrectIndex,
		}
		if reveal {
			ci := q.CorrectIndex
			item.CorrectIndex = &ci
			item.Rationale = q.Rationale
		}
		rv.Review = append(rv.Review, item)
	}
	return rv
}

// POST /sessions — open a fresh pane in the setup state.
func OpenSessionHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := m.Open()
		writeJSON(w, http.StatusCreated, map[string]string{"session_id": s.ID})
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(m *session.Manager, ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gs, err := ss.GetSettings(r.Context())
		if err != nil {
			cannotLoad(w, "settings", err)
			return
		}
		var v sessionView
		if err := m.Inspect(chi.URLParam(r, "sessionID"), func(s *session.Session) {
			v = viewOf(s, gs)
		}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// DELETE /sessions/{sessionID}
func CloseSessionHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Close(chi.URLParam(r, "sessionID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /sessions/{sessionID}/start — setup → quiz. Students always sit
// under their roster name; a teacher previewing may type any name.
func StartSessionHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p session.StartParams
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if rbac.RoleFromContext(r.Context()) != authmw.RoleTeacher || p.StudentName == "" {
			p.StudentName = authmw.NameFromContext(r.Context())
		}
		if err := m.Start(r.Context(), chi.URLParam(r, "sessionID"), p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"state": string(session.StateQuiz)})
	}
}

// POST /sessions/{sessionID}/answers — record one choice; answering again
// overwrites (single-choice, last write wins).
func AnswerHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID  string `json:"question_id"`
			OptionIndex int    `json:"option_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		p, err := m.Answer(chi.URLParam(r, "sessionID"), req.QuestionID, req.OptionIndex)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /sessions/{sessionID}/submit — quiz → result. Refused while the
// sheet is incomplete; a failed attempt write comes back as a warning on
// the result, never as a lost score.
func SubmitHandler(m *session.Manager, ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, err := m.Submit(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		gs, err := ss.GetSettings(r.Context())
		if err != nil {
			// Grading already happened; fall back to defaults rather than
			// hiding the score behind a settings read failure.
			gs = quiz.DefaultSettings()
		}
		var v sessionView
		if err := m.Inspect(id, func(s *session.Session) {
			v = viewOf(s, gs)
		}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// POST /sessions/{sessionID}/retry — result → quiz with only the missed
// questions, re-shuffled, scored independently.
func RetryHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Retry(chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"state": string(session.StateQuiz)})
	}
}

// POST /sessions/{sessionID}/reset — back to setup, discarding the sitting.
func ResetHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Reset(chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"state": string(session.StateSetup)})
	}
}

// GET /sessions/{sessionID}/history — the pane's student's past attempts,
// newest first.
func SessionHistoryHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := m.History(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": list, "count": len(list)})
	}
}

// POST /sessions/{sessionID}/history/{resultID} — open one past attempt for
// review. Reveal is re-evaluated against the current threshold, so a
// lowered threshold unlocks old attempts.
func SessionHistoryDetailHandler(m *session.Manager, rs *store.ResultStore, ss *store.SettingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var owner string
		if err := m.Inspect(id, func(s *session.Session) { owner = s.StudentName }); err != nil {
			writeError(w, err)
			return
		}
		res, err := rs.Get(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if res.StudentName != owner {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := m.HistoryDetail(id, res); err != nil {
			writeError(w, err)
			return
		}
		gs, err := ss.GetSettings(r.Context())
		if err != nil {
			cannotLoad(w, "settings", err)
			return
		}
		reveal := quiz.Reveal(res.Score, gs)
		if !reveal {
			res = quiz.RedactResult(res)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"result": res,
			"reveal": reveal,
		})
	}
}

// POST /sessions/{sessionID}/back — step up one navigation level.
func SessionBackHandler(m *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.Back(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"state": string(state)})
	}
}
